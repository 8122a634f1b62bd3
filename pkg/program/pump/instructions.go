package pump

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pumpcurve-sdk/pkg/constants"
)

// InvalidMetadataError reports token metadata that exceeds the byte limits
// enforced by the create instruction.
type InvalidMetadataError struct {
	Field string
	Len   int
	Max   int
}

func (e InvalidMetadataError) Error() string {
	return fmt.Sprintf("metadata %s is %d bytes, maximum is %d", e.Field, e.Len, e.Max)
}

// OptionBool mirrors the program's one-field OptionBool argument type.
type OptionBool struct {
	Field0 bool `bin:"field_0"`
}

var CreateDiscriminator = []byte{24, 30, 200, 40, 5, 28, 7, 119}

type CreateArgs struct {
	Name    string           `bin:"name"`
	Symbol  string           `bin:"symbol"`
	Uri     string           `bin:"uri"`
	Creator solana.PublicKey `bin:"creator"`
}

// Validate enforces the program's metadata byte limits before encoding.
func (a CreateArgs) Validate() error {
	if n := len(a.Name); n > constants.MaxNameLen {
		return InvalidMetadataError{Field: "name", Len: n, Max: constants.MaxNameLen}
	}
	if n := len(a.Symbol); n > constants.MaxSymbolLen {
		return InvalidMetadataError{Field: "symbol", Len: n, Max: constants.MaxSymbolLen}
	}
	if n := len(a.Uri); n > constants.MaxURILen {
		return InvalidMetadataError{Field: "uri", Len: n, Max: constants.MaxURILen}
	}
	return nil
}

type CreateAccounts struct {
	Mint                   solana.PublicKey
	MintAuthority          solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	Global                 solana.PublicKey
	MplTokenMetadata       solana.PublicKey
	Metadata               solana.PublicKey
	User                   solana.PublicKey
	SystemProgram          solana.PublicKey
	TokenProgram           solana.PublicKey
	AssociatedTokenProgram solana.PublicKey
	Rent                   solana.PublicKey
	EventAuthority         solana.PublicKey
	Program                solana.PublicKey
}

func (a CreateAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 14)
	metas = append(metas, solana.NewAccountMeta(a.Mint, true, true))
	metas = append(metas, solana.NewAccountMeta(a.MintAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.BondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedBondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Global, false, false))
	metas = append(metas, solana.NewAccountMeta(a.MplTokenMetadata, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Metadata, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, true, true))
	metas = append(metas, solana.NewAccountMeta(a.SystemProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedTokenProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Rent, false, false))
	metas = append(metas, solana.NewAccountMeta(a.EventAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Program, false, false))
	return metas
}

func BuildCreate(accounts CreateAccounts, args CreateArgs) (solana.Instruction, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	buf.Write(CreateDiscriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	data := buf.Bytes()
	return solana.NewInstruction(ProgramKey, accounts.ToAccountMetas(), data), nil
}

var BuyDiscriminator = []byte{102, 6, 61, 18, 1, 218, 235, 234}

type BuyArgs struct {
	Amount      uint64     `bin:"amount"`
	MaxSolCost  uint64     `bin:"max_sol_cost"`
	TrackVolume OptionBool `bin:"track_volume"`
}

type BuyAccounts struct {
	Global                  solana.PublicKey
	FeeRecipient            solana.PublicKey
	Mint                    solana.PublicKey
	BondingCurve            solana.PublicKey
	AssociatedBondingCurve  solana.PublicKey
	AssociatedUser          solana.PublicKey
	User                    solana.PublicKey
	SystemProgram           solana.PublicKey
	TokenProgram            solana.PublicKey
	CreatorVault            solana.PublicKey
	EventAuthority          solana.PublicKey
	Program                 solana.PublicKey
	GlobalVolumeAccumulator solana.PublicKey
	UserVolumeAccumulator   solana.PublicKey
	FeeConfig               solana.PublicKey
	FeeProgram              solana.PublicKey
}

func (a BuyAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 16)
	metas = append(metas, solana.NewAccountMeta(a.Global, false, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeRecipient, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Mint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.BondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedBondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedUser, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, true, true))
	metas = append(metas, solana.NewAccountMeta(a.SystemProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.CreatorVault, true, false))
	metas = append(metas, solana.NewAccountMeta(a.EventAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Program, false, false))
	metas = append(metas, solana.NewAccountMeta(a.GlobalVolumeAccumulator, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserVolumeAccumulator, true, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeConfig, false, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeProgram, false, false))
	return metas
}

func BuildBuy(accounts BuyAccounts, args BuyArgs) (solana.Instruction, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	buf.Write(BuyDiscriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	data := buf.Bytes()
	return solana.NewInstruction(ProgramKey, accounts.ToAccountMetas(), data), nil
}

var BuyExactSolInDiscriminator = []byte{56, 252, 116, 8, 158, 223, 205, 95}

type BuyExactSolInArgs struct {
	SpendableSolIn uint64     `bin:"spendable_sol_in"`
	MinTokensOut   uint64     `bin:"min_tokens_out"`
	TrackVolume    OptionBool `bin:"track_volume"`
}

type BuyExactSolInAccounts struct {
	Global                  solana.PublicKey
	FeeRecipient            solana.PublicKey
	Mint                    solana.PublicKey
	BondingCurve            solana.PublicKey
	AssociatedBondingCurve  solana.PublicKey
	AssociatedUser          solana.PublicKey
	User                    solana.PublicKey
	SystemProgram           solana.PublicKey
	TokenProgram            solana.PublicKey
	CreatorVault            solana.PublicKey
	EventAuthority          solana.PublicKey
	Program                 solana.PublicKey
	GlobalVolumeAccumulator solana.PublicKey
	UserVolumeAccumulator   solana.PublicKey
	FeeConfig               solana.PublicKey
	FeeProgram              solana.PublicKey
}

func (a BuyExactSolInAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 16)
	metas = append(metas, solana.NewAccountMeta(a.Global, false, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeRecipient, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Mint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.BondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedBondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedUser, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, true, true))
	metas = append(metas, solana.NewAccountMeta(a.SystemProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.CreatorVault, true, false))
	metas = append(metas, solana.NewAccountMeta(a.EventAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Program, false, false))
	metas = append(metas, solana.NewAccountMeta(a.GlobalVolumeAccumulator, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserVolumeAccumulator, true, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeConfig, false, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeProgram, false, false))
	return metas
}

func BuildBuyExactSolIn(accounts BuyExactSolInAccounts, args BuyExactSolInArgs) (solana.Instruction, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	buf.Write(BuyExactSolInDiscriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	data := buf.Bytes()
	return solana.NewInstruction(ProgramKey, accounts.ToAccountMetas(), data), nil
}

var SellDiscriminator = []byte{51, 230, 133, 164, 1, 127, 131, 173}

type SellArgs struct {
	Amount       uint64 `bin:"amount"`
	MinSolOutput uint64 `bin:"min_sol_output"`
}

type SellAccounts struct {
	Global                 solana.PublicKey
	FeeRecipient           solana.PublicKey
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	AssociatedUser         solana.PublicKey
	User                   solana.PublicKey
	SystemProgram          solana.PublicKey
	CreatorVault           solana.PublicKey
	TokenProgram           solana.PublicKey
	EventAuthority         solana.PublicKey
	Program                solana.PublicKey
	FeeConfig              solana.PublicKey
	FeeProgram             solana.PublicKey
}

func (a SellAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 14)
	metas = append(metas, solana.NewAccountMeta(a.Global, false, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeRecipient, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Mint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.BondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedBondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedUser, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, true, true))
	metas = append(metas, solana.NewAccountMeta(a.SystemProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.CreatorVault, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.EventAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Program, false, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeConfig, false, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeProgram, false, false))
	return metas
}

func BuildSell(accounts SellAccounts, args SellArgs) (solana.Instruction, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	buf.Write(SellDiscriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	data := buf.Bytes()
	return solana.NewInstruction(ProgramKey, accounts.ToAccountMetas(), data), nil
}

var MigrateDiscriminator = []byte{155, 234, 231, 146, 236, 158, 162, 30}

type MigrateArgs struct{}

// MigrateWithdrawAuthority is the program's canonical withdraw authority,
// used when MigrateAccounts leaves the field unset.
var MigrateWithdrawAuthority = solana.MustPublicKeyFromBase58("39azUYFWPz3VHgKCf3VChUwbpURdCHRxjWVowf5jUJjg")

type MigrateAccounts struct {
	Global                   solana.PublicKey
	WithdrawAuthority        solana.PublicKey
	Mint                     solana.PublicKey
	BondingCurve             solana.PublicKey
	AssociatedBondingCurve   solana.PublicKey
	User                     solana.PublicKey
	SystemProgram            solana.PublicKey
	TokenProgram             solana.PublicKey
	PumpAmm                  solana.PublicKey
	Pool                     solana.PublicKey
	PoolAuthority            solana.PublicKey
	PoolAuthorityMintAccount solana.PublicKey
	PoolAuthorityWsolAccount solana.PublicKey
	AmmGlobalConfig          solana.PublicKey
	WsolMint                 solana.PublicKey
	LpMint                   solana.PublicKey
	UserPoolTokenAccount     solana.PublicKey
	PoolBaseTokenAccount     solana.PublicKey
	PoolQuoteTokenAccount    solana.PublicKey
	Token2022Program         solana.PublicKey
	AssociatedTokenProgram   solana.PublicKey
	PumpAmmEventAuthority    solana.PublicKey
	EventAuthority           solana.PublicKey
	Program                  solana.PublicKey
}

func (a MigrateAccounts) ToAccountMetas() []*solana.AccountMeta {
	withdrawAuthority := a.WithdrawAuthority
	if withdrawAuthority.IsZero() {
		withdrawAuthority = MigrateWithdrawAuthority
	}
	metas := make([]*solana.AccountMeta, 0, 24)
	metas = append(metas, solana.NewAccountMeta(a.Global, false, false))
	metas = append(metas, solana.NewAccountMeta(withdrawAuthority, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Mint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.BondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedBondingCurve, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, true, true))
	metas = append(metas, solana.NewAccountMeta(a.SystemProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PumpAmm, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Pool, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolAuthority, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolAuthorityMintAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolAuthorityWsolAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.AmmGlobalConfig, false, false))
	metas = append(metas, solana.NewAccountMeta(a.WsolMint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.LpMint, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserPoolTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolBaseTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolQuoteTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Token2022Program, false, false))
	metas = append(metas, solana.NewAccountMeta(a.AssociatedTokenProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PumpAmmEventAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.EventAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Program, false, false))
	return metas
}

func BuildMigrate(accounts MigrateAccounts, args MigrateArgs) (solana.Instruction, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	buf.Write(MigrateDiscriminator)
	data := buf.Bytes()
	return solana.NewInstruction(ProgramKey, accounts.ToAccountMetas(), data), nil
}

func DeriveMigratePoolAuthorityPDA(accounts MigrateAccounts, args MigrateArgs) (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedPoolAuthority), accounts.Mint[:]}, ProgramKey)
}

// DeriveMigratePoolPDA derives the canonical AMM pool (index 0) for the
// migrated pair under the AMM program.
func DeriveMigratePoolPDA(accounts MigrateAccounts, args MigrateArgs) (solana.PublicKey, uint8, error) {
	idx := make([]byte, 2)
	binary.LittleEndian.PutUint16(idx, 0)
	seeds := [][]byte{
		[]byte(constants.SeedPool),
		idx,
		accounts.PoolAuthority[:],
		accounts.Mint[:],
		accounts.WsolMint[:],
	}
	return FindPDA(seeds, AmmProgramKey)
}

func DeriveMigrateLpMintPDA(accounts MigrateAccounts, args MigrateArgs) (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedPoolLpMint), accounts.Pool[:]}, AmmProgramKey)
}

func DeriveMigrateAmmGlobalConfigPDA(accounts MigrateAccounts, args MigrateArgs) (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedGlobalConfig)}, AmmProgramKey)
}

func DeriveMigratePumpAmmEventAuthorityPDA(accounts MigrateAccounts, args MigrateArgs) (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedEventAuthority)}, AmmProgramKey)
}

// DeriveFeeConfigPDA derives the fee configuration account maintained by
// the fee program for this program.
func DeriveFeeConfigPDA() (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedFeeConfig), ProgramKey[:]}, FeeProgramKey)
}
