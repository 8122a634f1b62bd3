package pump

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// EventLogPrefix marks Anchor event payload lines in transaction logs.
const EventLogPrefix = "Program data: "

// MalformedEventError reports an event payload line that matched a known
// discriminator but could not be decoded.
type MalformedEventError struct {
	Reason string
}

func (e MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event: %s", e.Reason)
}

// EventDecodeFailure records a single undecodable payload line. Decoding is
// best-effort: failures are collected, not raised.
type EventDecodeFailure struct {
	LogIndex int
	Line     string
	Err      error
}

var TradeEventDiscriminator = []byte{189, 219, 127, 211, 78, 230, 97, 238}

// tradeEventSize covers the fields this SDK decodes; newer program
// versions append more, which is tolerated.
const tradeEventSize = 8 + 32 + 8 + 8 + 1 + 32 + 8 + 8 + 8 + 8 + 8

// TradeEvent is emitted by the program on every buy and sell.
type TradeEvent struct {
	Mint                 solana.PublicKey `bin:"mint"`
	SolAmount            uint64           `bin:"sol_amount"`
	TokenAmount          uint64           `bin:"token_amount"`
	IsBuy                bool             `bin:"is_buy"`
	User                 solana.PublicKey `bin:"user"`
	Timestamp            int64            `bin:"timestamp"`
	VirtualSolReserves   uint64           `bin:"virtual_sol_reserves"`
	VirtualTokenReserves uint64           `bin:"virtual_token_reserves"`
	RealSolReserves      uint64           `bin:"real_sol_reserves"`
	RealTokenReserves    uint64           `bin:"real_token_reserves"`
}

func (e *TradeEvent) Unmarshal(data []byte) error {
	if len(data) < tradeEventSize {
		return MalformedEventError{Reason: fmt.Sprintf("trade event is %d bytes, need %d", len(data), tradeEventSize)}
	}
	copy(e.Mint[:], data[8:40])
	e.SolAmount = binary.LittleEndian.Uint64(data[40:48])
	e.TokenAmount = binary.LittleEndian.Uint64(data[48:56])
	e.IsBuy = data[56] != 0
	copy(e.User[:], data[57:89])
	e.Timestamp = int64(binary.LittleEndian.Uint64(data[89:97]))
	e.VirtualSolReserves = binary.LittleEndian.Uint64(data[97:105])
	e.VirtualTokenReserves = binary.LittleEndian.Uint64(data[105:113])
	e.RealSolReserves = binary.LittleEndian.Uint64(data[113:121])
	e.RealTokenReserves = binary.LittleEndian.Uint64(data[121:129])
	return nil
}

var CreateEventDiscriminator = []byte{27, 114, 169, 77, 222, 235, 99, 118}

// CreateEvent is emitted once when a token launches.
type CreateEvent struct {
	Name         string           `bin:"name"`
	Symbol       string           `bin:"symbol"`
	Uri          string           `bin:"uri"`
	Mint         solana.PublicKey `bin:"mint"`
	BondingCurve solana.PublicKey `bin:"bonding_curve"`
	User         solana.PublicKey `bin:"user"`
}

func (e *CreateEvent) Unmarshal(data []byte) error {
	if len(data) < 8 {
		return MalformedEventError{Reason: "create event too short"}
	}
	dec := bin.NewBorshDecoder(data[8:])
	if err := dec.Decode(e); err != nil {
		return MalformedEventError{Reason: fmt.Sprintf("create event: %v", err)}
	}
	return nil
}

var CompleteEventDiscriminator = []byte{95, 114, 97, 156, 212, 46, 152, 8}

// CompleteEvent is emitted when a curve fills and becomes eligible for
// migration.
type CompleteEvent struct {
	User         solana.PublicKey `bin:"user"`
	Mint         solana.PublicKey `bin:"mint"`
	BondingCurve solana.PublicKey `bin:"bonding_curve"`
	Timestamp    int64            `bin:"timestamp"`
}

const completeEventSize = 8 + 32 + 32 + 32 + 8

func (e *CompleteEvent) Unmarshal(data []byte) error {
	if len(data) < completeEventSize {
		return MalformedEventError{Reason: fmt.Sprintf("complete event is %d bytes, need %d", len(data), completeEventSize)}
	}
	copy(e.User[:], data[8:40])
	copy(e.Mint[:], data[40:72])
	copy(e.BondingCurve[:], data[72:104])
	e.Timestamp = int64(binary.LittleEndian.Uint64(data[104:112]))
	return nil
}

// DecodeTradeEvents scans transaction log lines for trade events. Lines
// without the event prefix or carrying other event types are skipped;
// prefixed lines that cannot be decoded are returned as failures so a
// single corrupt line never hides the rest of the transaction.
func DecodeTradeEvents(logs []string) ([]TradeEvent, []EventDecodeFailure) {
	var events []TradeEvent
	var failures []EventDecodeFailure

	for i, line := range logs {
		data, fail := decodePayload(i, line)
		if fail != nil {
			failures = append(failures, *fail)
			continue
		}
		if data == nil || !bytes.Equal(data[:8], TradeEventDiscriminator) {
			continue
		}
		var ev TradeEvent
		if err := ev.Unmarshal(data); err != nil {
			failures = append(failures, EventDecodeFailure{LogIndex: i, Line: line, Err: err})
			continue
		}
		events = append(events, ev)
	}
	return events, failures
}

// DecodeCreateEvents scans transaction log lines for token launch events.
func DecodeCreateEvents(logs []string) ([]CreateEvent, []EventDecodeFailure) {
	var events []CreateEvent
	var failures []EventDecodeFailure

	for i, line := range logs {
		data, fail := decodePayload(i, line)
		if fail != nil {
			failures = append(failures, *fail)
			continue
		}
		if data == nil || !bytes.Equal(data[:8], CreateEventDiscriminator) {
			continue
		}
		var ev CreateEvent
		if err := ev.Unmarshal(data); err != nil {
			failures = append(failures, EventDecodeFailure{LogIndex: i, Line: line, Err: err})
			continue
		}
		events = append(events, ev)
	}
	return events, failures
}

// DecodeCompleteEvents scans transaction log lines for curve completion
// events.
func DecodeCompleteEvents(logs []string) ([]CompleteEvent, []EventDecodeFailure) {
	var events []CompleteEvent
	var failures []EventDecodeFailure

	for i, line := range logs {
		data, fail := decodePayload(i, line)
		if fail != nil {
			failures = append(failures, *fail)
			continue
		}
		if data == nil || !bytes.Equal(data[:8], CompleteEventDiscriminator) {
			continue
		}
		var ev CompleteEvent
		if err := ev.Unmarshal(data); err != nil {
			failures = append(failures, EventDecodeFailure{LogIndex: i, Line: line, Err: err})
			continue
		}
		events = append(events, ev)
	}
	return events, failures
}

func eventPayload(line string) (string, bool) {
	if !strings.HasPrefix(line, EventLogPrefix) {
		return "", false
	}
	return line[len(EventLogPrefix):], true
}

func decodePayload(index int, line string) ([]byte, *EventDecodeFailure) {
	payload, ok := eventPayload(line)
	if !ok {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &EventDecodeFailure{
			LogIndex: index,
			Line:     line,
			Err:      MalformedEventError{Reason: fmt.Sprintf("base64: %v", err)},
		}
	}
	if len(data) < 8 {
		return nil, &EventDecodeFailure{
			LogIndex: index,
			Line:     line,
			Err:      MalformedEventError{Reason: "payload too short for discriminator"},
		}
	}
	return data, nil
}
