package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	// SPL Programs
	SystemProgramID          = solana.SystemProgramID
	TokenProgramID           = solana.TokenProgramID
	Token2022ProgramID       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	SysvarRentProgramID      = solana.SysVarRentPubkey
	MetadataProgramID        = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	// Pump.fun bonding-curve program
	PumpProgramID    = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	PumpFeeProgramID = solana.MustPublicKeyFromBase58("pfeeUxB6jkeY1Hxd7CsFCAjcbHA9rWtchMGdZ6VojVZ")

	// Pump AMM program, migration target for completed curves
	PumpAmmProgramID = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
)

// Mainnet well-known accounts
var (
	// WSOL (Native Mint)
	WSOLMint = solana.WrappedSol
)

// PDA seeds
const (
	SeedGlobal                  = "global"
	SeedBondingCurve            = "bonding-curve"
	SeedCreatorVault            = "creator-vault"
	SeedMintAuthority           = "mint-authority"
	SeedEventAuthority          = "__event_authority"
	SeedMetadata                = "metadata"
	SeedGlobalVolumeAccumulator = "global_volume_accumulator"
	SeedUserVolumeAccumulator   = "user_volume_accumulator"
	SeedFeeConfig               = "fee_config"

	// Seeds used by the AMM side of a migration.
	SeedPool          = "pool"
	SeedPoolAuthority = "pool-authority"
	SeedPoolLpMint    = "pool_lp_mint"
	SeedGlobalConfig  = "global_config"
)

// PDA derivation limits enforced before hashing
const (
	MaxSeedLen = 32
	MaxSeeds   = 16
)

// Curve fee and slippage arithmetic is done in basis points.
const BasisPointsDenominator = 10_000

// Token metadata byte limits enforced by the create instruction.
const (
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)
