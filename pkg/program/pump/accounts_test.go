package pump_test

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

func sampleGlobal() pump.Global {
	return pump.Global{
		Initialized:                 true,
		Authority:                   solana.MustPublicKeyFromBase58("DCpJReAfonSrgohiQbTmKKbjbqVofspV9ZzJkjdEr2mk"),
		FeeRecipient:                solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM"),
		InitialVirtualTokenReserves: 1_073_000_000_000_000,
		InitialVirtualSolReserves:   30_000_000_000,
		InitialRealTokenReserves:    793_100_000_000_000,
		TokenTotalSupply:            1_000_000_000_000_000,
		FeeBasisPoints:              100,
	}
}

func TestGlobalRoundTrip(t *testing.T) {
	want := sampleGlobal()
	data := want.Marshal()
	if len(data) != pump.GlobalSize {
		t.Fatalf("marshaled %d bytes, want %d", len(data), pump.GlobalSize)
	}

	var got pump.Global
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGlobalUnmarshalTrailingBytes(t *testing.T) {
	want := sampleGlobal()
	data := append(want.Marshal(), 0xde, 0xad, 0xbe, 0xef)

	var got pump.Global
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("unmarshal with trailing bytes: %v", err)
	}
	if got != want {
		t.Fatal("trailing bytes corrupted decode")
	}
}

func TestGlobalUnmarshalMalformed(t *testing.T) {
	var g pump.Global
	var malformed pump.MalformedAccountError

	if err := g.Unmarshal([]byte{1, 2, 3}); !errors.As(err, &malformed) {
		t.Fatalf("short data: err = %v, want MalformedAccountError", err)
	}

	sample := sampleGlobal()
	data := sample.Marshal()
	data[0] ^= 0xff
	if err := g.Unmarshal(data); !errors.As(err, &malformed) {
		t.Fatalf("bad discriminator: err = %v, want MalformedAccountError", err)
	}

	data = sample.Marshal()[:pump.GlobalSize-1]
	if err := g.Unmarshal(data); !errors.As(err, &malformed) {
		t.Fatalf("truncated body: err = %v, want MalformedAccountError", err)
	}
}

func TestBondingCurveRoundTrip(t *testing.T) {
	want := pump.BondingCurve{
		VirtualTokenReserves: 919_714_285_714_285,
		VirtualSolReserves:   35_000_000_000,
		RealTokenReserves:    639_814_285_714_285,
		RealSolReserves:      5_000_000_000,
		TokenTotalSupply:     1_000_000_000_000_000,
		Complete:             false,
		Creator:              solana.MustPublicKeyFromBase58("DCpJReAfonSrgohiQbTmKKbjbqVofspV9ZzJkjdEr2mk"),
	}
	data := want.Marshal()
	if len(data) != pump.BondingCurveSize {
		t.Fatalf("marshaled %d bytes, want %d", len(data), pump.BondingCurveSize)
	}

	var got pump.BondingCurve
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestBondingCurveCompleteFlag(t *testing.T) {
	c := pump.BondingCurve{Complete: true}
	data := c.Marshal()

	var got pump.BondingCurve
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Complete {
		t.Fatal("complete flag lost in round trip")
	}
}

func TestBondingCurveUnmarshalWrongAccount(t *testing.T) {
	// feeding a Global account into a BondingCurve decode must fail
	g := sampleGlobal()
	data := g.Marshal()

	var c pump.BondingCurve
	var malformed pump.MalformedAccountError
	if err := c.Unmarshal(data); !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedAccountError", err)
	}
	if malformed.Account != "bonding_curve" {
		t.Fatalf("account = %q", malformed.Account)
	}
}

func TestInitialBuyPrice(t *testing.T) {
	g := sampleGlobal()

	if got := g.InitialBuyPrice(0); got != 0 {
		t.Fatalf("zero input priced %d tokens", got)
	}

	got := g.InitialBuyPrice(1_000_000_000)
	if got != 34_612_903_225_806 {
		t.Fatalf("1 SOL buys %d tokens, want 34612903225806", got)
	}

	// enormous input clamps to the launchable supply
	if got := g.InitialBuyPrice(1 << 62); got != g.InitialRealTokenReserves {
		t.Fatalf("oversized input priced %d, want clamp to %d", got, g.InitialRealTokenReserves)
	}
}
