package pump

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// MalformedAccountError reports account data that cannot be decoded into
// the expected fixed layout. It never results from coercing bad bytes.
type MalformedAccountError struct {
	Account string
	Reason  string
}

func (e MalformedAccountError) Error() string {
	return fmt.Sprintf("account %s: %s", e.Account, e.Reason)
}

var GlobalDiscriminator = []byte{167, 232, 232, 177, 200, 108, 114, 127}

// GlobalSize is the exact serialized size of a Global account.
const GlobalSize = 8 + 1 + 32 + 32 + 8*5

// Global is the program-wide configuration account.
type Global struct {
	Initialized                 bool             `bin:"initialized"`
	Authority                   solana.PublicKey `bin:"authority"`
	FeeRecipient                solana.PublicKey `bin:"fee_recipient"`
	InitialVirtualTokenReserves uint64           `bin:"initial_virtual_token_reserves"`
	InitialVirtualSolReserves   uint64           `bin:"initial_virtual_sol_reserves"`
	InitialRealTokenReserves    uint64           `bin:"initial_real_token_reserves"`
	TokenTotalSupply            uint64           `bin:"token_total_supply"`
	FeeBasisPoints              uint64           `bin:"fee_basis_points"`
}

// Unmarshal decodes account data fetched from the ledger. Trailing bytes
// beyond the known layout are tolerated; short or mistagged data is not.
func (a *Global) Unmarshal(data []byte) error {
	if len(data) < 8 {
		return MalformedAccountError{Account: "global", Reason: "data too short for discriminator"}
	}
	if !bytes.Equal(data[:8], GlobalDiscriminator) {
		return MalformedAccountError{Account: "global", Reason: "discriminator mismatch"}
	}
	if len(data) < GlobalSize {
		return MalformedAccountError{
			Account: "global",
			Reason:  fmt.Sprintf("data is %d bytes, need %d", len(data), GlobalSize),
		}
	}
	a.Initialized = data[8] != 0
	copy(a.Authority[:], data[9:41])
	copy(a.FeeRecipient[:], data[41:73])
	a.InitialVirtualTokenReserves = binary.LittleEndian.Uint64(data[73:81])
	a.InitialVirtualSolReserves = binary.LittleEndian.Uint64(data[81:89])
	a.InitialRealTokenReserves = binary.LittleEndian.Uint64(data[89:97])
	a.TokenTotalSupply = binary.LittleEndian.Uint64(data[97:105])
	a.FeeBasisPoints = binary.LittleEndian.Uint64(data[105:113])
	return nil
}

// Marshal produces the exact on-chain byte layout, discriminator included.
func (a *Global) Marshal() []byte {
	out := make([]byte, GlobalSize)
	copy(out[:8], GlobalDiscriminator)
	if a.Initialized {
		out[8] = 1
	}
	copy(out[9:41], a.Authority[:])
	copy(out[41:73], a.FeeRecipient[:])
	binary.LittleEndian.PutUint64(out[73:81], a.InitialVirtualTokenReserves)
	binary.LittleEndian.PutUint64(out[81:89], a.InitialVirtualSolReserves)
	binary.LittleEndian.PutUint64(out[89:97], a.InitialRealTokenReserves)
	binary.LittleEndian.PutUint64(out[97:105], a.TokenTotalSupply)
	binary.LittleEndian.PutUint64(out[105:113], a.FeeBasisPoints)
	return out
}

// InitialBuyPrice returns the tokens received for solIn against a freshly
// initialized curve, clamped to the initial real token reserves.
func (a *Global) InitialBuyPrice(solIn uint64) uint64 {
	if solIn == 0 {
		return 0
	}
	k := new(uint256.Int).Mul(
		uint256.NewInt(a.InitialVirtualSolReserves),
		uint256.NewInt(a.InitialVirtualTokenReserves),
	)
	denom := new(uint256.Int).Add(uint256.NewInt(a.InitialVirtualSolReserves), uint256.NewInt(solIn))
	// The program rounds the remaining-token term up.
	remaining := new(uint256.Int).Div(k, denom)
	remaining.AddUint64(remaining, 1)
	if remaining.GtUint64(a.InitialVirtualTokenReserves) {
		return 0
	}
	out := a.InitialVirtualTokenReserves - remaining.Uint64()
	if out > a.InitialRealTokenReserves {
		out = a.InitialRealTokenReserves
	}
	return out
}

var BondingCurveDiscriminator = []byte{23, 183, 248, 55, 96, 216, 172, 96}

// BondingCurveSize is the exact serialized size of a BondingCurve account.
const BondingCurveSize = 8 + 8*5 + 1 + 32

// BondingCurve is the per-mint curve state account.
type BondingCurve struct {
	VirtualTokenReserves uint64           `bin:"virtual_token_reserves"`
	VirtualSolReserves   uint64           `bin:"virtual_sol_reserves"`
	RealTokenReserves    uint64           `bin:"real_token_reserves"`
	RealSolReserves      uint64           `bin:"real_sol_reserves"`
	TokenTotalSupply     uint64           `bin:"token_total_supply"`
	Complete             bool             `bin:"complete"`
	Creator              solana.PublicKey `bin:"creator"`
}

func (a *BondingCurve) Unmarshal(data []byte) error {
	if len(data) < 8 {
		return MalformedAccountError{Account: "bonding_curve", Reason: "data too short for discriminator"}
	}
	if !bytes.Equal(data[:8], BondingCurveDiscriminator) {
		return MalformedAccountError{Account: "bonding_curve", Reason: "discriminator mismatch"}
	}
	if len(data) < BondingCurveSize {
		return MalformedAccountError{
			Account: "bonding_curve",
			Reason:  fmt.Sprintf("data is %d bytes, need %d", len(data), BondingCurveSize),
		}
	}
	a.VirtualTokenReserves = binary.LittleEndian.Uint64(data[8:16])
	a.VirtualSolReserves = binary.LittleEndian.Uint64(data[16:24])
	a.RealTokenReserves = binary.LittleEndian.Uint64(data[24:32])
	a.RealSolReserves = binary.LittleEndian.Uint64(data[32:40])
	a.TokenTotalSupply = binary.LittleEndian.Uint64(data[40:48])
	a.Complete = data[48] != 0
	copy(a.Creator[:], data[49:81])
	return nil
}

func (a *BondingCurve) Marshal() []byte {
	out := make([]byte, BondingCurveSize)
	copy(out[:8], BondingCurveDiscriminator)
	binary.LittleEndian.PutUint64(out[8:16], a.VirtualTokenReserves)
	binary.LittleEndian.PutUint64(out[16:24], a.VirtualSolReserves)
	binary.LittleEndian.PutUint64(out[24:32], a.RealTokenReserves)
	binary.LittleEndian.PutUint64(out[32:40], a.RealSolReserves)
	binary.LittleEndian.PutUint64(out[40:48], a.TokenTotalSupply)
	if a.Complete {
		out[48] = 1
	}
	copy(out[49:81], a.Creator[:])
	return out
}
