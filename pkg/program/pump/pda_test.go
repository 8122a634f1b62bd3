package pump_test

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

// Known mainnet addresses for the fixed-seed PDAs.
func TestDeriveFixedPDAs(t *testing.T) {
	cases := []struct {
		name   string
		derive func() (solana.PublicKey, uint8, error)
		want   string
	}{
		{"global", pump.DeriveGlobalPDA, "4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf"},
		{"event_authority", pump.DeriveEventAuthorityPDA, "Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1"},
		{"mint_authority", pump.DeriveMintAuthorityPDA, "TSLvdd1pWpHVjahSpsvCXUbgwsL3JAcvokwaKt1eokM"},
		{"fee_config", pump.DeriveFeeConfigPDA, "8Wf5TiAheLUqBrKXeYg2JtAFFMWtKdG2BSFgqUcPVwTt"},
		{"global_volume_accumulator", pump.DeriveGlobalVolumeAccumulatorPDA, "Hq2wp8uJ9jCPsYgNHex8RtqdvMPfVGoYwjvF1ATiwn2Y"},
	}
	for _, tc := range cases {
		addr, _, err := tc.derive()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := addr.String(); got != tc.want {
			t.Fatalf("%s = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDeriveBondingCurvePDA(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("8GT663BCnPZ1nLFkFynZzquy3WGS9gMkugFtNKcrpump")
	addr, _, err := pump.DeriveBondingCurvePDA(mint)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if got := addr.String(); got != "5s26Dg6eQgTQduQhgjYvKsn98KefwfHuLdeVLC15Lzsa" {
		t.Fatalf("bonding curve = %s", got)
	}

	// same input, same output
	again, bump, err := pump.DeriveBondingCurvePDA(mint)
	if err != nil {
		t.Fatalf("derive again: %v", err)
	}
	if again != addr {
		t.Fatal("derivation is not deterministic")
	}
	_ = bump
}

func TestFindPDASeedLimits(t *testing.T) {
	var invalid pump.InvalidSeedError

	_, _, err := pump.FindPDA([][]byte{make([]byte, 33)}, pump.ProgramKey)
	if !errors.As(err, &invalid) {
		t.Fatalf("oversized seed: err = %v, want InvalidSeedError", err)
	}
	if invalid.Index != 0 {
		t.Fatalf("oversized seed index = %d", invalid.Index)
	}

	seeds := make([][]byte, 17)
	for i := range seeds {
		seeds[i] = []byte{1}
	}
	_, _, err = pump.FindPDA(seeds, pump.ProgramKey)
	if !errors.As(err, &invalid) {
		t.Fatalf("too many seeds: err = %v, want InvalidSeedError", err)
	}
	if invalid.Index != -1 {
		t.Fatalf("too-many-seeds index = %d, want -1", invalid.Index)
	}
}

func TestDeriveAssociatedTokenAddress(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58("8GT663BCnPZ1nLFkFynZzquy3WGS9gMkugFtNKcrpump")
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	ata, _, err := pump.DeriveAssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	// cross-check against the library's own derivation
	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("reference derive: %v", err)
	}
	if ata != want {
		t.Fatalf("ata = %s, want %s", ata, want)
	}
}
