package pump

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pumpcurve-sdk/pkg/constants"
)

// InvalidSeedError reports a seed set that can never produce a valid
// program address, detected before the off-curve search runs.
type InvalidSeedError struct {
	Index  int
	Reason string
}

func (e InvalidSeedError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid PDA seed at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid PDA seeds: %s", e.Reason)
}

// FindPDA derives a program-derived address under programID. Seed limits
// are checked up front so callers get a typed error instead of a failure
// buried in the address search.
func FindPDA(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	if len(seeds) > constants.MaxSeeds {
		return solana.PublicKey{}, 0, InvalidSeedError{
			Index:  -1,
			Reason: fmt.Sprintf("%d seeds exceeds maximum of %d", len(seeds), constants.MaxSeeds),
		}
	}
	for i, seed := range seeds {
		if len(seed) > constants.MaxSeedLen {
			return solana.PublicKey{}, 0, InvalidSeedError{
				Index:  i,
				Reason: fmt.Sprintf("seed is %d bytes, maximum is %d", len(seed), constants.MaxSeedLen),
			}
		}
	}
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("find program address: %w", err)
	}
	return addr, bump, nil
}

// DeriveGlobalPDA derives the program-wide configuration account.
func DeriveGlobalPDA() (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedGlobal)}, ProgramKey)
}

// DeriveBondingCurvePDA derives the curve state account for a mint.
func DeriveBondingCurvePDA(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedBondingCurve), mint[:]}, ProgramKey)
}

// DeriveCreatorVaultPDA derives the fee vault owned by a token creator.
func DeriveCreatorVaultPDA(creator solana.PublicKey) (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedCreatorVault), creator[:]}, ProgramKey)
}

// DeriveMintAuthorityPDA derives the program's mint authority.
func DeriveMintAuthorityPDA() (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedMintAuthority)}, ProgramKey)
}

// DeriveEventAuthorityPDA derives the Anchor event CPI authority.
func DeriveEventAuthorityPDA() (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedEventAuthority)}, ProgramKey)
}

// DeriveGlobalVolumeAccumulatorPDA derives the program-wide volume tracker.
func DeriveGlobalVolumeAccumulatorPDA() (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedGlobalVolumeAccumulator)}, ProgramKey)
}

// DeriveUserVolumeAccumulatorPDA derives the per-user volume tracker.
func DeriveUserVolumeAccumulatorPDA(user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return FindPDA([][]byte{[]byte(constants.SeedUserVolumeAccumulator), user[:]}, ProgramKey)
}

// DeriveMetadataPDA derives the Metaplex token metadata account for a mint.
func DeriveMetadataPDA(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		[]byte(constants.SeedMetadata),
		MetadataProgramKey[:],
		mint[:],
	}
	return FindPDA(seeds, MetadataProgramKey)
}

// DeriveAssociatedTokenAddress derives the canonical SPL associated token
// account for (owner, mint).
func DeriveAssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		owner[:],
		constants.TokenProgramID[:],
		mint[:],
	}
	return FindPDA(seeds, constants.AssociatedTokenProgramID)
}
