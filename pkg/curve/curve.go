// Package curve implements the constant-product pricing of the bonding
// curve. All functions are pure: state goes in, a quote comes out, and
// nothing here touches the network.
//
// Arithmetic is done on 256-bit integers so no intermediate product can
// wrap; results are floored at every division and narrowing back to
// uint64 is checked. Quotes are estimates: the on-chain program re-runs
// the same math against live reserves at execution time.
package curve

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Errors returned by quoting.
var (
	ErrCurveCompleted        = errors.New("bonding curve is complete, trade on the AMM")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for trade size")
	ErrOverflow              = errors.New("arithmetic overflow")
	ErrZeroReserves          = errors.New("curve has zero virtual reserves")
)

const bpsDenominator = 10_000

// Reserves is a point-in-time view of a bonding curve's state.
type Reserves struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	Complete             bool
}

// Quote is the priced outcome of a prospective trade.
type Quote struct {
	// AmountIn is the gross input (lamports for buys, tokens for sells).
	AmountIn uint64

	// Fee is the protocol fee taken from the input leg on buys and the
	// output leg on sells.
	Fee uint64

	// AmountOut is the expected output after fees (tokens for buys,
	// lamports for sells).
	AmountOut uint64

	// MinAmountOut is AmountOut reduced by the slippage tolerance. Embed
	// it in the instruction so execution fails instead of filling worse.
	MinAmountOut uint64

	// PriceImpactBps measures how far the execution price moved off the
	// spot price, in basis points.
	PriceImpactBps uint64
}

// Buy prices an exact-SOL-in purchase. The fee comes off solIn before it
// hits the curve.
func Buy(r Reserves, feeBps, solIn, slippageBps uint64) (Quote, error) {
	if r.Complete {
		return Quote{}, ErrCurveCompleted
	}
	if r.VirtualSolReserves == 0 || r.VirtualTokenReserves == 0 {
		return Quote{}, ErrZeroReserves
	}
	if solIn == 0 {
		return Quote{}, fmt.Errorf("%w: zero input", ErrInsufficientLiquidity)
	}
	if slippageBps > bpsDenominator {
		return Quote{}, fmt.Errorf("slippage %d bps exceeds %d", slippageBps, bpsDenominator)
	}
	if feeBps >= bpsDenominator {
		return Quote{}, fmt.Errorf("fee %d bps exceeds %d", feeBps, bpsDenominator)
	}

	fee := mulDivFloor(solIn, feeBps, bpsDenominator)
	inAfterFee := solIn - fee
	if inAfterFee == 0 {
		return Quote{}, fmt.Errorf("%w: input consumed by fee", ErrInsufficientLiquidity)
	}

	vSol := uint256.NewInt(r.VirtualSolReserves)
	vTok := uint256.NewInt(r.VirtualTokenReserves)

	// out = vTok - k / (vSol + inAfterFee), floored
	k := new(uint256.Int).Mul(vSol, vTok)
	denom := new(uint256.Int).Add(vSol, uint256.NewInt(inAfterFee))
	remaining := new(uint256.Int).Div(k, denom)
	outBig := new(uint256.Int).Sub(vTok, remaining)
	if !outBig.IsUint64() {
		return Quote{}, ErrOverflow
	}
	out := outBig.Uint64()

	if out == 0 {
		return Quote{}, fmt.Errorf("%w: input too small for any output", ErrInsufficientLiquidity)
	}
	if r.RealTokenReserves > 0 && out > r.RealTokenReserves {
		return Quote{}, fmt.Errorf("%w: %d tokens requested, %d remain on curve",
			ErrInsufficientLiquidity, out, r.RealTokenReserves)
	}

	return Quote{
		AmountIn:       solIn,
		Fee:            fee,
		AmountOut:      out,
		MinAmountOut:   applySlippage(out, slippageBps),
		PriceImpactBps: buyImpactBps(r, inAfterFee, out),
	}, nil
}

// Sell prices a token sale. The fee comes off the SOL proceeds.
func Sell(r Reserves, feeBps, tokensIn, slippageBps uint64) (Quote, error) {
	if r.Complete {
		return Quote{}, ErrCurveCompleted
	}
	if r.VirtualSolReserves == 0 || r.VirtualTokenReserves == 0 {
		return Quote{}, ErrZeroReserves
	}
	if tokensIn == 0 {
		return Quote{}, fmt.Errorf("%w: zero input", ErrInsufficientLiquidity)
	}
	if slippageBps > bpsDenominator {
		return Quote{}, fmt.Errorf("slippage %d bps exceeds %d", slippageBps, bpsDenominator)
	}
	if feeBps >= bpsDenominator {
		return Quote{}, fmt.Errorf("fee %d bps exceeds %d", feeBps, bpsDenominator)
	}

	vSol := uint256.NewInt(r.VirtualSolReserves)
	vTok := uint256.NewInt(r.VirtualTokenReserves)

	// gross = tokensIn * vSol / (vTok + tokensIn), floored
	num := new(uint256.Int).Mul(uint256.NewInt(tokensIn), vSol)
	denom := new(uint256.Int).Add(vTok, uint256.NewInt(tokensIn))
	grossBig := new(uint256.Int).Div(num, denom)
	if !grossBig.IsUint64() {
		return Quote{}, ErrOverflow
	}
	gross := grossBig.Uint64()

	fee := mulDivFloor(gross, feeBps, bpsDenominator)
	net := gross - fee

	if net == 0 {
		return Quote{}, fmt.Errorf("%w: sale too small for any proceeds", ErrInsufficientLiquidity)
	}
	if r.RealSolReserves > 0 && net > r.RealSolReserves {
		return Quote{}, fmt.Errorf("%w: %d lamports requested, %d held by curve",
			ErrInsufficientLiquidity, net, r.RealSolReserves)
	}

	return Quote{
		AmountIn:       tokensIn,
		Fee:            fee,
		AmountOut:      net,
		MinAmountOut:   applySlippage(net, slippageBps),
		PriceImpactBps: sellImpactBps(r, tokensIn, gross),
	}, nil
}

// BuyCost prices the legacy exact-tokens-out purchase: the lamports needed
// to take tokensOut off the curve, and the slippage-inflated cost ceiling
// to embed in the instruction.
func BuyCost(r Reserves, feeBps, tokensOut, slippageBps uint64) (solCost, maxSolCost uint64, err error) {
	if r.Complete {
		return 0, 0, ErrCurveCompleted
	}
	if r.VirtualSolReserves == 0 || r.VirtualTokenReserves == 0 {
		return 0, 0, ErrZeroReserves
	}
	if tokensOut == 0 {
		return 0, 0, fmt.Errorf("%w: zero output requested", ErrInsufficientLiquidity)
	}
	if tokensOut >= r.VirtualTokenReserves {
		return 0, 0, fmt.Errorf("%w: %d tokens exceeds virtual reserves", ErrInsufficientLiquidity, tokensOut)
	}
	if r.RealTokenReserves > 0 && tokensOut > r.RealTokenReserves {
		return 0, 0, fmt.Errorf("%w: %d tokens requested, %d remain on curve",
			ErrInsufficientLiquidity, tokensOut, r.RealTokenReserves)
	}
	if slippageBps > bpsDenominator {
		return 0, 0, fmt.Errorf("slippage %d bps exceeds %d", slippageBps, bpsDenominator)
	}
	if feeBps >= bpsDenominator {
		return 0, 0, fmt.Errorf("fee %d bps exceeds %d", feeBps, bpsDenominator)
	}

	vSol := uint256.NewInt(r.VirtualSolReserves)
	vTok := uint256.NewInt(r.VirtualTokenReserves)

	// solIn = ceil(tokensOut * vSol / (vTok - tokensOut))
	num := new(uint256.Int).Mul(uint256.NewInt(tokensOut), vSol)
	denom := new(uint256.Int).Sub(vTok, uint256.NewInt(tokensOut))
	solBig := new(uint256.Int).Div(num, denom)
	if rem := new(uint256.Int).Mod(num, denom); !rem.IsZero() {
		solBig.AddUint64(solBig, 1)
	}

	// gross it up so the fee comes out of the payment
	if feeBps > 0 {
		solBig.Mul(solBig, uint256.NewInt(bpsDenominator))
		solBig.Div(solBig, uint256.NewInt(bpsDenominator-feeBps))
	}
	if !solBig.IsUint64() {
		return 0, 0, ErrOverflow
	}
	solCost = solBig.Uint64()

	maxBig := new(uint256.Int).Mul(solBig, uint256.NewInt(bpsDenominator+slippageBps))
	maxBig.Div(maxBig, uint256.NewInt(bpsDenominator))
	if !maxBig.IsUint64() {
		return 0, 0, ErrOverflow
	}
	return solCost, maxBig.Uint64(), nil
}

// SpotPrice returns the curve's marginal price as lamports per token,
// scaled by 1e9.
func SpotPrice(r Reserves) (uint64, error) {
	if r.VirtualTokenReserves == 0 {
		return 0, ErrZeroReserves
	}
	p := new(uint256.Int).Mul(uint256.NewInt(r.VirtualSolReserves), uint256.NewInt(1_000_000_000))
	p.Div(p, uint256.NewInt(r.VirtualTokenReserves))
	if !p.IsUint64() {
		return 0, ErrOverflow
	}
	return p.Uint64(), nil
}

// applySlippage floors amount down by slippageBps.
func applySlippage(amount, slippageBps uint64) uint64 {
	if slippageBps >= bpsDenominator {
		return 0
	}
	return mulDivFloor(amount, bpsDenominator-slippageBps, bpsDenominator)
}

func mulDivFloor(a, b, div uint64) uint64 {
	res := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	res.Div(res, uint256.NewInt(div))
	// a*b/div <= a when b <= div, so this cannot exceed uint64 for the
	// basis-point uses in this package
	return res.Uint64()
}

// buyImpactBps: execution price over spot price, in bps above par.
func buyImpactBps(r Reserves, inAfterFee, out uint64) uint64 {
	// exec/spot = (inAfterFee * vTok) / (out * vSol)
	num := new(uint256.Int).Mul(uint256.NewInt(inAfterFee), uint256.NewInt(r.VirtualTokenReserves))
	num.Mul(num, uint256.NewInt(bpsDenominator))
	den := new(uint256.Int).Mul(uint256.NewInt(out), uint256.NewInt(r.VirtualSolReserves))
	if den.IsZero() {
		return 0
	}
	ratio := num.Div(num, den)
	if !ratio.IsUint64() || ratio.Uint64() <= bpsDenominator {
		return 0
	}
	return ratio.Uint64() - bpsDenominator
}

// sellImpactBps: spot price over execution price, in bps below par.
func sellImpactBps(r Reserves, tokensIn, gross uint64) uint64 {
	// exec/spot = (gross * vTok) / (tokensIn * vSol)
	num := new(uint256.Int).Mul(uint256.NewInt(gross), uint256.NewInt(r.VirtualTokenReserves))
	num.Mul(num, uint256.NewInt(bpsDenominator))
	den := new(uint256.Int).Mul(uint256.NewInt(tokensIn), uint256.NewInt(r.VirtualSolReserves))
	if den.IsZero() {
		return 0
	}
	ratio := num.Div(num, den)
	if !ratio.IsUint64() {
		return 0
	}
	if v := ratio.Uint64(); v < bpsDenominator {
		return bpsDenominator - v
	}
	return 0
}
