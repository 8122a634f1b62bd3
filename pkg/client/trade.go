package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pumpcurve-sdk/pkg/constants"
	"github.com/ninja0404/pumpcurve-sdk/pkg/curve"
	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
	"github.com/ninja0404/pumpcurve-sdk/pkg/types"
)

// TradePlan is a priced, ready-to-sign instruction sequence. Instructions
// may include an associated token account creation ahead of the trade.
type TradePlan struct {
	Instructions []solana.Instruction
	Quote        curve.Quote
	Snapshot     *Snapshot
}

// QuoteBuy prices an exact-SOL-in purchase against fresh curve state.
func (c *Client) QuoteBuy(ctx context.Context, mint solana.PublicKey, solIn, slippageBps uint64) (curve.Quote, error) {
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return curve.Quote{}, err
	}
	snap, err := c.Snapshot(ctx, mint)
	if err != nil {
		return curve.Quote{}, err
	}
	return QuoteBuyAt(snap, solIn, slippageBps)
}

// QuoteBuyAt prices a purchase against a caller-held snapshot. Pure.
func QuoteBuyAt(snap *Snapshot, solIn, slippageBps uint64) (curve.Quote, error) {
	return curve.Buy(snap.Reserves(), snap.Global.FeeBasisPoints, solIn, slippageBps)
}

// QuoteSell prices a token sale against fresh curve state.
func (c *Client) QuoteSell(ctx context.Context, mint solana.PublicKey, tokensIn, slippageBps uint64) (curve.Quote, error) {
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return curve.Quote{}, err
	}
	snap, err := c.Snapshot(ctx, mint)
	if err != nil {
		return curve.Quote{}, err
	}
	return QuoteSellAt(snap, tokensIn, slippageBps)
}

// QuoteSellAt prices a sale against a caller-held snapshot. Pure.
func QuoteSellAt(snap *Snapshot, tokensIn, slippageBps uint64) (curve.Quote, error) {
	return curve.Sell(snap.Reserves(), snap.Global.FeeBasisPoints, tokensIn, slippageBps)
}

// BuildBuyTransaction quotes solIn against the live curve and assembles the
// buy, preceded by an ATA creation when the buyer has no token account yet.
// The quote's slippage bound rides inside the instruction.
func (c *Client) BuildBuyTransaction(ctx context.Context, user, mint solana.PublicKey, solIn, slippageBps uint64) (*TradePlan, error) {
	if err := types.ValidatePublicKey("user", user); err != nil {
		return nil, err
	}
	if solIn == 0 {
		return nil, types.NewValidationError("solIn", "must be greater than 0")
	}
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return nil, err
	}

	snap, err := c.Snapshot(ctx, mint)
	if err != nil {
		return nil, err
	}
	quote, err := QuoteBuyAt(snap, solIn, slippageBps)
	if err != nil {
		return nil, err
	}

	accts, err := buyAccounts(snap, user)
	if err != nil {
		return nil, err
	}

	instrs, err := c.ensureUserATA(ctx, user, snap, accts.AssociatedUser)
	if err != nil {
		return nil, err
	}

	ix, err := pump.BuildBuyExactSolIn(accts, pump.BuyExactSolInArgs{
		SpendableSolIn: solIn,
		MinTokensOut:   quote.MinAmountOut,
		TrackVolume:    pump.OptionBool{Field0: true},
	})
	if err != nil {
		return nil, err
	}
	instrs = append(instrs, ix)

	c.log.Debug().
		Str("mint", mint.String()).
		Uint64("sol_in", solIn).
		Uint64("min_tokens_out", quote.MinAmountOut).
		Int("instructions", len(instrs)).
		Msg("buy assembled")

	return &TradePlan{Instructions: instrs, Quote: quote, Snapshot: snap}, nil
}

// BuildSellTransaction quotes tokensIn against the live curve and assembles
// the sell with the quote's minimum-SOL bound embedded.
func (c *Client) BuildSellTransaction(ctx context.Context, user, mint solana.PublicKey, tokensIn, slippageBps uint64) (*TradePlan, error) {
	if err := types.ValidatePublicKey("user", user); err != nil {
		return nil, err
	}
	if tokensIn == 0 {
		return nil, types.NewValidationError("tokensIn", "must be greater than 0")
	}
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return nil, err
	}

	snap, err := c.Snapshot(ctx, mint)
	if err != nil {
		return nil, err
	}
	quote, err := QuoteSellAt(snap, tokensIn, slippageBps)
	if err != nil {
		return nil, err
	}

	accts, err := sellAccounts(snap, user)
	if err != nil {
		return nil, err
	}

	ix, err := pump.BuildSell(accts, pump.SellArgs{
		Amount:       tokensIn,
		MinSolOutput: quote.MinAmountOut,
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("mint", mint.String()).
		Uint64("tokens_in", tokensIn).
		Uint64("min_sol_out", quote.MinAmountOut).
		Msg("sell assembled")

	return &TradePlan{
		Instructions: []solana.Instruction{ix},
		Quote:        quote,
		Snapshot:     snap,
	}, nil
}

// buyAccounts derives the full buy account set from a snapshot.
func buyAccounts(snap *Snapshot, user solana.PublicKey) (pump.BuyExactSolInAccounts, error) {
	accts := pump.BuyExactSolInAccounts{
		FeeRecipient:  snap.Global.FeeRecipient,
		Mint:          snap.Mint,
		BondingCurve:  snap.BondingCurveAddr,
		User:          user,
		SystemProgram: constants.SystemProgramID,
		TokenProgram:  snap.TokenProgram,
		CreatorVault:  snap.CreatorVault,
		Program:       pump.ProgramKey,
		FeeProgram:    pump.FeeProgramKey,
	}
	if accts.FeeRecipient.IsZero() {
		return accts, fmt.Errorf("%w: global config carries no fee recipient", types.ErrGlobalNotFound)
	}

	var err error
	if accts.Global, _, err = pump.DeriveGlobalPDA(); err != nil {
		return accts, err
	}
	if accts.EventAuthority, _, err = pump.DeriveEventAuthorityPDA(); err != nil {
		return accts, err
	}
	if accts.GlobalVolumeAccumulator, _, err = pump.DeriveGlobalVolumeAccumulatorPDA(); err != nil {
		return accts, err
	}
	if accts.UserVolumeAccumulator, _, err = pump.DeriveUserVolumeAccumulatorPDA(user); err != nil {
		return accts, err
	}
	if accts.FeeConfig, _, err = pump.DeriveFeeConfigPDA(); err != nil {
		return accts, err
	}
	if accts.AssociatedBondingCurve, err = ataFor(snap.BondingCurveAddr, snap.Mint, snap.TokenProgram); err != nil {
		return accts, err
	}
	if accts.AssociatedUser, err = ataFor(user, snap.Mint, snap.TokenProgram); err != nil {
		return accts, err
	}
	return accts, nil
}

// sellAccounts derives the full sell account set from a snapshot.
func sellAccounts(snap *Snapshot, user solana.PublicKey) (pump.SellAccounts, error) {
	accts := pump.SellAccounts{
		FeeRecipient:  snap.Global.FeeRecipient,
		Mint:          snap.Mint,
		BondingCurve:  snap.BondingCurveAddr,
		User:          user,
		SystemProgram: constants.SystemProgramID,
		TokenProgram:  snap.TokenProgram,
		CreatorVault:  snap.CreatorVault,
		Program:       pump.ProgramKey,
		FeeProgram:    pump.FeeProgramKey,
	}
	if accts.FeeRecipient.IsZero() {
		return accts, fmt.Errorf("%w: global config carries no fee recipient", types.ErrGlobalNotFound)
	}

	var err error
	if accts.Global, _, err = pump.DeriveGlobalPDA(); err != nil {
		return accts, err
	}
	if accts.EventAuthority, _, err = pump.DeriveEventAuthorityPDA(); err != nil {
		return accts, err
	}
	if accts.FeeConfig, _, err = pump.DeriveFeeConfigPDA(); err != nil {
		return accts, err
	}
	if accts.AssociatedBondingCurve, err = ataFor(snap.BondingCurveAddr, snap.Mint, snap.TokenProgram); err != nil {
		return accts, err
	}
	if accts.AssociatedUser, err = ataFor(user, snap.Mint, snap.TokenProgram); err != nil {
		return accts, err
	}
	return accts, nil
}

// ensureUserATA returns a create instruction for the user's token account
// when it does not exist yet.
func (c *Client) ensureUserATA(ctx context.Context, user solana.PublicKey, snap *Snapshot, ata solana.PublicKey) ([]solana.Instruction, error) {
	res, err := c.reader.GetMultipleAccounts(ctx, ata)
	if err != nil {
		return nil, types.RPCError{Op: "check ATA", Err: err}
	}
	if res != nil && len(res.Value) > 0 && res.Value[0] != nil && res.Value[0].Owner.Equals(snap.TokenProgram) {
		return nil, nil
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(ata, true, false),
		solana.NewAccountMeta(user, false, false),
		solana.NewAccountMeta(snap.Mint, false, false),
		solana.NewAccountMeta(constants.SystemProgramID, false, false),
		solana.NewAccountMeta(snap.TokenProgram, false, false),
	}
	return []solana.Instruction{
		solana.NewInstruction(constants.AssociatedTokenProgramID, metas, nil),
	}, nil
}

func ataFor(wallet, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := pump.FindPDA([][]byte{
		wallet[:],
		tokenProgram[:],
		mint[:],
	}, constants.AssociatedTokenProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive ATA for %s: %w", wallet, err)
	}
	return ata, nil
}
