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

// CreateParams describes a token launch.
type CreateParams struct {
	Name   string
	Symbol string
	URI    string

	// Creator is recorded in curve state and receives creator fees.
	// Defaults to the launching user when zero.
	Creator solana.PublicKey

	// DevBuySol, when non-zero, appends an initial buy of that many
	// lamports in the same transaction.
	DevBuySol         uint64
	DevBuySlippageBps uint64
}

// CreatePlan is the assembled launch sequence. The mint keypair must sign
// alongside the user.
type CreatePlan struct {
	Instructions []solana.Instruction
	BondingCurve solana.PublicKey
	Metadata     solana.PublicKey

	// DevBuyQuote is set when the plan includes an initial buy.
	DevBuyQuote *curve.Quote
}

// BuildCreateTransaction assembles the create instruction for a new token.
// The single on-chain instruction initializes the mint, the curve and the
// Metaplex metadata atomically, so there is no partially launched state.
func (c *Client) BuildCreateTransaction(ctx context.Context, user, mint solana.PublicKey, p CreateParams) (*CreatePlan, error) {
	if err := types.ValidatePublicKey("user", user); err != nil {
		return nil, err
	}
	if err := types.ValidatePublicKey("mint", mint); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, types.NewValidationError("name", "cannot be empty")
	}
	if p.Symbol == "" {
		return nil, types.NewValidationError("symbol", "cannot be empty")
	}
	if p.URI == "" {
		return nil, types.NewValidationError("uri", "cannot be empty")
	}

	creator := p.Creator
	if creator.IsZero() {
		creator = user
	}

	accts := pump.CreateAccounts{
		Mint:                   mint,
		User:                   user,
		SystemProgram:          constants.SystemProgramID,
		TokenProgram:           constants.TokenProgramID,
		AssociatedTokenProgram: constants.AssociatedTokenProgramID,
		Rent:                   constants.SysvarRentProgramID,
		MplTokenMetadata:       pump.MetadataProgramKey,
		Program:                pump.ProgramKey,
	}

	var err error
	if accts.MintAuthority, _, err = pump.DeriveMintAuthorityPDA(); err != nil {
		return nil, err
	}
	if accts.BondingCurve, _, err = pump.DeriveBondingCurvePDA(mint); err != nil {
		return nil, err
	}
	if accts.Global, _, err = pump.DeriveGlobalPDA(); err != nil {
		return nil, err
	}
	if accts.EventAuthority, _, err = pump.DeriveEventAuthorityPDA(); err != nil {
		return nil, err
	}
	if accts.Metadata, _, err = pump.DeriveMetadataPDA(mint); err != nil {
		return nil, err
	}
	if accts.AssociatedBondingCurve, err = ataFor(accts.BondingCurve, mint, constants.TokenProgramID); err != nil {
		return nil, err
	}

	createIx, err := pump.BuildCreate(accts, pump.CreateArgs{
		Name:    p.Name,
		Symbol:  p.Symbol,
		Uri:     p.URI,
		Creator: creator,
	})
	if err != nil {
		return nil, err
	}

	plan := &CreatePlan{
		Instructions: []solana.Instruction{createIx},
		BondingCurve: accts.BondingCurve,
		Metadata:     accts.Metadata,
	}

	if p.DevBuySol > 0 {
		quote, buyInstrs, err := c.devBuy(ctx, user, mint, creator, accts, p)
		if err != nil {
			return nil, err
		}
		plan.Instructions = append(plan.Instructions, buyInstrs...)
		plan.DevBuyQuote = &quote
	}

	c.log.Debug().
		Str("mint", mint.String()).
		Str("symbol", p.Symbol).
		Bool("dev_buy", p.DevBuySol > 0).
		Msg("create assembled")

	return plan, nil
}

// devBuy prices an initial purchase against the global config's launch
// reserves (the curve account does not exist yet) and assembles the ATA
// creation plus buy that follow create in the same transaction.
func (c *Client) devBuy(ctx context.Context, user, mint, creator solana.PublicKey, createAccts pump.CreateAccounts, p CreateParams) (curve.Quote, []solana.Instruction, error) {
	if err := types.ValidateSlippage(p.DevBuySlippageBps); err != nil {
		return curve.Quote{}, nil, err
	}

	res, err := c.reader.GetMultipleAccounts(ctx, createAccts.Global)
	if err != nil {
		return curve.Quote{}, nil, types.RPCError{Op: "fetch global", Err: err}
	}
	if res == nil || len(res.Value) == 0 || res.Value[0] == nil || res.Value[0].Data == nil {
		return curve.Quote{}, nil, types.ErrGlobalNotFound
	}
	var global pump.Global
	if err := global.Unmarshal(res.Value[0].Data.GetBinary()); err != nil {
		return curve.Quote{}, nil, err
	}

	launch := curve.Reserves{
		VirtualTokenReserves: global.InitialVirtualTokenReserves,
		VirtualSolReserves:   global.InitialVirtualSolReserves,
		RealTokenReserves:    global.InitialRealTokenReserves,
	}
	quote, err := curve.Buy(launch, global.FeeBasisPoints, p.DevBuySol, p.DevBuySlippageBps)
	if err != nil {
		return curve.Quote{}, nil, err
	}

	vault, _, err := pump.DeriveCreatorVaultPDA(creator)
	if err != nil {
		return curve.Quote{}, nil, err
	}
	userATA, err := ataFor(user, mint, constants.TokenProgramID)
	if err != nil {
		return curve.Quote{}, nil, err
	}

	accts := pump.BuyExactSolInAccounts{
		Global:                 createAccts.Global,
		FeeRecipient:           global.FeeRecipient,
		Mint:                   mint,
		BondingCurve:           createAccts.BondingCurve,
		AssociatedBondingCurve: createAccts.AssociatedBondingCurve,
		AssociatedUser:         userATA,
		User:                   user,
		SystemProgram:          constants.SystemProgramID,
		TokenProgram:           constants.TokenProgramID,
		CreatorVault:           vault,
		EventAuthority:         createAccts.EventAuthority,
		Program:                pump.ProgramKey,
		FeeConfig:              solana.PublicKey{},
		FeeProgram:             pump.FeeProgramKey,
	}
	if accts.FeeRecipient.IsZero() {
		return curve.Quote{}, nil, fmt.Errorf("%w: global config carries no fee recipient", types.ErrGlobalNotFound)
	}
	if accts.GlobalVolumeAccumulator, _, err = pump.DeriveGlobalVolumeAccumulatorPDA(); err != nil {
		return curve.Quote{}, nil, err
	}
	if accts.UserVolumeAccumulator, _, err = pump.DeriveUserVolumeAccumulatorPDA(user); err != nil {
		return curve.Quote{}, nil, err
	}
	if accts.FeeConfig, _, err = pump.DeriveFeeConfigPDA(); err != nil {
		return curve.Quote{}, nil, err
	}

	// the user's ATA cannot exist before the mint does
	ataIx := solana.NewInstruction(constants.AssociatedTokenProgramID, []*solana.AccountMeta{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(userATA, true, false),
		solana.NewAccountMeta(user, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(constants.SystemProgramID, false, false),
		solana.NewAccountMeta(constants.TokenProgramID, false, false),
	}, nil)

	buyIx, err := pump.BuildBuyExactSolIn(accts, pump.BuyExactSolInArgs{
		SpendableSolIn: p.DevBuySol,
		MinTokensOut:   quote.MinAmountOut,
		TrackVolume:    pump.OptionBool{Field0: true},
	})
	if err != nil {
		return curve.Quote{}, nil, err
	}
	return quote, []solana.Instruction{ataIx, buyIx}, nil
}

// BuildMigrateTransaction assembles the liquidity migration for a completed
// curve. Returns ErrCurveNotComplete while the curve is still filling.
func (c *Client) BuildMigrateTransaction(ctx context.Context, user, mint solana.PublicKey) ([]solana.Instruction, error) {
	if err := types.ValidatePublicKey("user", user); err != nil {
		return nil, err
	}

	snap, err := c.Snapshot(ctx, mint)
	if err != nil {
		return nil, err
	}
	if !snap.Curve.Complete {
		return nil, fmt.Errorf("%w: mint %s", types.ErrCurveNotComplete, mint)
	}

	accts := pump.MigrateAccounts{
		Mint:                   mint,
		BondingCurve:           snap.BondingCurveAddr,
		User:                   user,
		SystemProgram:          constants.SystemProgramID,
		TokenProgram:           snap.TokenProgram,
		PumpAmm:                pump.AmmProgramKey,
		WsolMint:               constants.WSOLMint,
		Token2022Program:       constants.Token2022ProgramID,
		AssociatedTokenProgram: constants.AssociatedTokenProgramID,
		Program:                pump.ProgramKey,
	}

	if accts.Global, _, err = pump.DeriveGlobalPDA(); err != nil {
		return nil, err
	}
	if accts.EventAuthority, _, err = pump.DeriveEventAuthorityPDA(); err != nil {
		return nil, err
	}
	if accts.AssociatedBondingCurve, err = ataFor(snap.BondingCurveAddr, mint, snap.TokenProgram); err != nil {
		return nil, err
	}
	if accts.PoolAuthority, _, err = pump.DeriveMigratePoolAuthorityPDA(accts, pump.MigrateArgs{}); err != nil {
		return nil, err
	}
	if accts.Pool, _, err = pump.DeriveMigratePoolPDA(accts, pump.MigrateArgs{}); err != nil {
		return nil, err
	}
	if accts.LpMint, _, err = pump.DeriveMigrateLpMintPDA(accts, pump.MigrateArgs{}); err != nil {
		return nil, err
	}
	if accts.AmmGlobalConfig, _, err = pump.DeriveMigrateAmmGlobalConfigPDA(accts, pump.MigrateArgs{}); err != nil {
		return nil, err
	}
	if accts.PumpAmmEventAuthority, _, err = pump.DeriveMigratePumpAmmEventAuthorityPDA(accts, pump.MigrateArgs{}); err != nil {
		return nil, err
	}
	if accts.PoolAuthorityMintAccount, err = ataFor(accts.PoolAuthority, mint, snap.TokenProgram); err != nil {
		return nil, err
	}
	if accts.PoolAuthorityWsolAccount, err = ataFor(accts.PoolAuthority, constants.WSOLMint, constants.TokenProgramID); err != nil {
		return nil, err
	}
	if accts.UserPoolTokenAccount, err = ataFor(user, accts.LpMint, constants.Token2022ProgramID); err != nil {
		return nil, err
	}
	if accts.PoolBaseTokenAccount, err = ataFor(accts.Pool, mint, snap.TokenProgram); err != nil {
		return nil, err
	}
	if accts.PoolQuoteTokenAccount, err = ataFor(accts.Pool, constants.WSOLMint, constants.TokenProgramID); err != nil {
		return nil, err
	}

	ix, err := pump.BuildMigrate(accts, pump.MigrateArgs{})
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("mint", mint.String()).
		Str("pool", accts.Pool.String()).
		Msg("migrate assembled")

	return []solana.Instruction{ix}, nil
}
