package pump_test

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

func tradeEventLine(ev pump.TradeEvent) string {
	data := make([]byte, 8+32+8+8+1+32+8+8+8+8+8)
	copy(data[:8], pump.TradeEventDiscriminator)
	copy(data[8:40], ev.Mint[:])
	binary.LittleEndian.PutUint64(data[40:48], ev.SolAmount)
	binary.LittleEndian.PutUint64(data[48:56], ev.TokenAmount)
	if ev.IsBuy {
		data[56] = 1
	}
	copy(data[57:89], ev.User[:])
	binary.LittleEndian.PutUint64(data[89:97], uint64(ev.Timestamp))
	binary.LittleEndian.PutUint64(data[97:105], ev.VirtualSolReserves)
	binary.LittleEndian.PutUint64(data[105:113], ev.VirtualTokenReserves)
	binary.LittleEndian.PutUint64(data[113:121], ev.RealSolReserves)
	binary.LittleEndian.PutUint64(data[121:129], ev.RealTokenReserves)
	return pump.EventLogPrefix + base64.StdEncoding.EncodeToString(data)
}

func completeEventLine(ev pump.CompleteEvent) string {
	data := make([]byte, 8+32+32+32+8)
	copy(data[:8], pump.CompleteEventDiscriminator)
	copy(data[8:40], ev.User[:])
	copy(data[40:72], ev.Mint[:])
	copy(data[72:104], ev.BondingCurve[:])
	binary.LittleEndian.PutUint64(data[104:112], uint64(ev.Timestamp))
	return pump.EventLogPrefix + base64.StdEncoding.EncodeToString(data)
}

func TestDecodeTradeEvents(t *testing.T) {
	want := pump.TradeEvent{
		Mint:                 solana.MustPublicKeyFromBase58("8GT663BCnPZ1nLFkFynZzquy3WGS9gMkugFtNKcrpump"),
		SolAmount:            1_000_000_000,
		TokenAmount:          34_277_831_558_568,
		IsBuy:                true,
		User:                 solana.MustPublicKeyFromBase58("DCpJReAfonSrgohiQbTmKKbjbqVofspV9ZzJkjdEr2mk"),
		Timestamp:            1_756_500_000,
		VirtualSolReserves:   30_990_000_000,
		VirtualTokenReserves: 1_038_722_168_441_432,
		RealSolReserves:      990_000_000,
		RealTokenReserves:    758_822_168_441_432,
	}
	logs := []string{
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]",
		"Program log: Instruction: Buy",
		tradeEventLine(want),
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P success",
	}

	events, failures := pump.DecodeTradeEvents(logs)
	if len(failures) != 0 {
		t.Fatalf("failures: %+v", failures)
	}
	if len(events) != 1 {
		t.Fatalf("%d events, want 1", len(events))
	}
	if events[0] != want {
		t.Fatalf("event mismatch:\n got %+v\nwant %+v", events[0], want)
	}
}

func TestDecodeTradeEventsSkipsOtherEvents(t *testing.T) {
	complete := completeEventLine(pump.CompleteEvent{Timestamp: 1})
	trade := tradeEventLine(pump.TradeEvent{SolAmount: 5, IsBuy: false})

	events, failures := pump.DecodeTradeEvents([]string{complete, trade})
	if len(failures) != 0 {
		t.Fatalf("failures: %+v", failures)
	}
	if len(events) != 1 || events[0].SolAmount != 5 {
		t.Fatalf("events = %+v", events)
	}
}

func TestDecodeTradeEventsPartialFailure(t *testing.T) {
	good := tradeEventLine(pump.TradeEvent{SolAmount: 7, IsBuy: true})
	badBase64 := pump.EventLogPrefix + "!!!not-base64!!!"
	truncated := pump.EventLogPrefix + base64.StdEncoding.EncodeToString(append(append([]byte{}, pump.TradeEventDiscriminator...), 1, 2, 3))

	events, failures := pump.DecodeTradeEvents([]string{badBase64, good, truncated})
	if len(events) != 1 || events[0].SolAmount != 7 {
		t.Fatalf("events = %+v", events)
	}
	if len(failures) != 2 {
		t.Fatalf("%d failures, want 2", len(failures))
	}
	if failures[0].LogIndex != 0 || failures[1].LogIndex != 2 {
		t.Fatalf("failure indexes = %d, %d", failures[0].LogIndex, failures[1].LogIndex)
	}
}

func TestDecodeTradeEventsNoEvents(t *testing.T) {
	events, failures := pump.DecodeTradeEvents([]string{
		"Program log: Instruction: Transfer",
		"Program 11111111111111111111111111111111 success",
	})
	if events != nil || failures != nil {
		t.Fatalf("events=%v failures=%v, want none", events, failures)
	}
}

func TestDecodeCompleteEvents(t *testing.T) {
	want := pump.CompleteEvent{
		User:         solana.MustPublicKeyFromBase58("DCpJReAfonSrgohiQbTmKKbjbqVofspV9ZzJkjdEr2mk"),
		Mint:         solana.MustPublicKeyFromBase58("8GT663BCnPZ1nLFkFynZzquy3WGS9gMkugFtNKcrpump"),
		BondingCurve: solana.MustPublicKeyFromBase58("5s26Dg6eQgTQduQhgjYvKsn98KefwfHuLdeVLC15Lzsa"),
		Timestamp:    1_756_500_000,
	}
	events, failures := pump.DecodeCompleteEvents([]string{completeEventLine(want)})
	if len(failures) != 0 {
		t.Fatalf("failures: %+v", failures)
	}
	if len(events) != 1 || events[0] != want {
		t.Fatalf("events = %+v", events)
	}
}

func TestDecodeCreateEvents(t *testing.T) {
	// borsh payload: three length-prefixed strings then three keys
	name, symbol, uri := "Example Token", "EXMPL", "https://example.com/meta.json"
	mint := solana.MustPublicKeyFromBase58("8GT663BCnPZ1nLFkFynZzquy3WGS9gMkugFtNKcrpump")
	curve := solana.MustPublicKeyFromBase58("5s26Dg6eQgTQduQhgjYvKsn98KefwfHuLdeVLC15Lzsa")
	user := solana.MustPublicKeyFromBase58("DCpJReAfonSrgohiQbTmKKbjbqVofspV9ZzJkjdEr2mk")

	var data []byte
	data = append(data, pump.CreateEventDiscriminator...)
	for _, s := range []string{name, symbol, uri} {
		var l [4]byte
		binary.LittleEndian.PutUint32(l[:], uint32(len(s)))
		data = append(data, l[:]...)
		data = append(data, s...)
	}
	data = append(data, mint[:]...)
	data = append(data, curve[:]...)
	data = append(data, user[:]...)
	line := pump.EventLogPrefix + base64.StdEncoding.EncodeToString(data)

	events, failures := pump.DecodeCreateEvents([]string{line})
	if len(failures) != 0 {
		t.Fatalf("failures: %+v", failures)
	}
	if len(events) != 1 {
		t.Fatalf("%d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Name != name || ev.Symbol != symbol || ev.Uri != uri {
		t.Fatalf("strings = %q %q %q", ev.Name, ev.Symbol, ev.Uri)
	}
	if ev.Mint != mint || ev.BondingCurve != curve || ev.User != user {
		t.Fatalf("keys mismatch: %+v", ev)
	}
}
