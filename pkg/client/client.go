// Package client is the high-level entry point of the SDK: point-in-time
// curve snapshots, buy/sell quoting, and fully wired instruction sequences
// for create, buy, sell and migrate. It never signs and never submits;
// pass the returned instructions to txbuilder or your own pipeline.
package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/ninja0404/pumpcurve-sdk/pkg/curve"
	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
	"github.com/ninja0404/pumpcurve-sdk/pkg/types"
)

// StateReader abstracts the ledger reads the facade performs. *rpc.Client
// satisfies it; tests substitute a stub.
type StateReader interface {
	GetMultipleAccounts(ctx context.Context, addrs ...solana.PublicKey) (*solanarpc.GetMultipleAccountsResult, error)
}

// Client quotes and assembles bonding-curve trades against a StateReader.
type Client struct {
	reader StateReader
	log    zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a Client over the given reader.
func New(reader StateReader, opts ...Option) (*Client, error) {
	if reader == nil {
		return nil, types.ErrNilRPC
	}
	c := &Client{
		reader: reader,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Snapshot is a single-slot view of everything needed to price a trade on
// one curve. Quotes computed from it are estimates; the program re-checks
// against live reserves at execution.
type Snapshot struct {
	Mint             solana.PublicKey
	BondingCurveAddr solana.PublicKey
	CreatorVault     solana.PublicKey
	TokenProgram     solana.PublicKey
	Global           pump.Global
	Curve            pump.BondingCurve
	Slot             uint64
}

// Snapshot fetches global config, curve state and the mint in one batched
// read so all three come from the same slot.
func (c *Client) Snapshot(ctx context.Context, mint solana.PublicKey) (*Snapshot, error) {
	if err := types.ValidatePublicKey("mint", mint); err != nil {
		return nil, err
	}

	globalAddr, _, err := pump.DeriveGlobalPDA()
	if err != nil {
		return nil, err
	}
	curveAddr, _, err := pump.DeriveBondingCurvePDA(mint)
	if err != nil {
		return nil, err
	}

	res, err := c.reader.GetMultipleAccounts(ctx, globalAddr, curveAddr, mint)
	if err != nil {
		return nil, types.RPCError{Op: "snapshot", Err: err}
	}
	if res == nil || len(res.Value) < 3 {
		return nil, types.RPCError{Op: "snapshot", Err: fmt.Errorf("short account response")}
	}

	snap := &Snapshot{
		Mint:             mint,
		BondingCurveAddr: curveAddr,
	}
	if res.RPCContext.Context.Slot > 0 {
		snap.Slot = res.RPCContext.Context.Slot
	}

	globalAcc := res.Value[0]
	if globalAcc == nil || globalAcc.Data == nil {
		return nil, types.ErrGlobalNotFound
	}
	if err := snap.Global.Unmarshal(globalAcc.Data.GetBinary()); err != nil {
		return nil, fmt.Errorf("decode global %s: %w", globalAddr, err)
	}

	curveAcc := res.Value[1]
	if curveAcc == nil || curveAcc.Data == nil {
		return nil, fmt.Errorf("%w: mint %s", types.ErrBondingCurveNotFound, mint)
	}
	if err := snap.Curve.Unmarshal(curveAcc.Data.GetBinary()); err != nil {
		return nil, fmt.Errorf("decode bonding curve %s: %w", curveAddr, err)
	}

	mintAcc := res.Value[2]
	if mintAcc == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrMintNotFound, mint)
	}
	snap.TokenProgram = mintAcc.Owner

	vault, _, err := pump.DeriveCreatorVaultPDA(snap.Curve.Creator)
	if err != nil {
		return nil, err
	}
	snap.CreatorVault = vault

	c.log.Debug().
		Str("mint", mint.String()).
		Uint64("slot", snap.Slot).
		Uint64("virtual_sol", snap.Curve.VirtualSolReserves).
		Uint64("virtual_tokens", snap.Curve.VirtualTokenReserves).
		Bool("complete", snap.Curve.Complete).
		Msg("curve snapshot")

	return snap, nil
}

// Reserves converts the snapshot's curve state for the math engine.
func (s *Snapshot) Reserves() curve.Reserves {
	return curve.Reserves{
		VirtualTokenReserves: s.Curve.VirtualTokenReserves,
		VirtualSolReserves:   s.Curve.VirtualSolReserves,
		RealTokenReserves:    s.Curve.RealTokenReserves,
		RealSolReserves:      s.Curve.RealSolReserves,
		Complete:             s.Curve.Complete,
	}
}
