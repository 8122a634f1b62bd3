package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ninja0404/pumpcurve-sdk/pkg/client"
	"github.com/ninja0404/pumpcurve-sdk/pkg/metadata"
	"github.com/ninja0404/pumpcurve-sdk/pkg/txbuilder"
	"github.com/ninja0404/pumpcurve-sdk/pkg/vanity"
	"github.com/ninja0404/pumpcurve-sdk/pkg/wallet"
)

func newCreateCmd(opts *globalOpts) *cobra.Command {
	var (
		name        string
		symbol      string
		uri         string
		description string
		imagePath   string
		twitter     string
		telegram    string
		website     string

		devBuySol   uint64
		slippageBps uint64

		vanitySuffix  string
		vanityPrefix  string
		vanityTimeout int

		simulate bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Launch a new token on the bonding curve",
		Long: `Launch a new token on the bonding curve.

Metadata: pass --uri directly, or pass --description (and optionally
--image/--twitter/--telegram/--website) to upload metadata first and use
the returned URI.

Vanity address:
  - --suffix generates a mint ending with the given characters
  - --prefix generates a mint starting with the given characters
  - Longer patterns take exponentially longer to find

An optional --dev-buy-sol appends an initial buy in the same transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			searchTimeout := time.Duration(vanityTimeout) * time.Second
			ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout+60*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			user := deps.signer.PublicKey()

			if uri == "" {
				uri, err = uploadMetadata(ctx, cmd, name, symbol, description, imagePath, twitter, telegram, website)
				if err != nil {
					return err
				}
			}

			mintKey, err := generateMint(ctx, cmd, vanityPrefix, vanitySuffix, searchTimeout)
			if err != nil {
				return err
			}

			plan, err := deps.client.BuildCreateTransaction(ctx, user, mintKey.PublicKey(), client.CreateParams{
				Name:              name,
				Symbol:            symbol,
				URI:               uri,
				DevBuySol:         devBuySol,
				DevBuySlippageBps: slippageBps,
			})
			if err != nil {
				return err
			}
			if plan.DevBuyQuote != nil {
				printQuote(cmd, "dev-buy", *plan.DevBuyQuote)
			}

			if simulate {
				res, err := simulateInstructions(ctx, deps, opts.commitment, plan.Instructions...)
				if err != nil {
					return err
				}
				printSimResult(cmd, res)
				return nil
			}

			mintSigner := wallet.NewLocalFromPrivateKey(mintKey)
			sig, err := deps.builder.BuildSignSendAndConfirm(
				ctx, deps.signer, []wallet.Signer{mintSigner}, txbuilder.ConfirmationConfirmed, plan.Instructions...,
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "token created\n")
			fmt.Fprintf(cmd.OutOrStdout(), "transaction: %s\n", sig.String())
			fmt.Fprintf(cmd.OutOrStdout(), "mint: %s\n", mintKey.PublicKey().String())
			fmt.Fprintf(cmd.OutOrStdout(), "bonding_curve: %s\n", plan.BondingCurve.String())
			fmt.Fprintf(cmd.OutOrStdout(), "metadata: %s\n", plan.Metadata.String())
			fmt.Fprintf(cmd.OutOrStdout(), "\nsave the mint private key:\n  %s\n", mintKey.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "token name")
	cmd.Flags().StringVar(&symbol, "symbol", "", "token symbol")
	cmd.Flags().StringVar(&uri, "uri", "", "metadata URI (skips upload)")
	cmd.Flags().StringVar(&description, "description", "", "token description (triggers metadata upload)")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to token image for metadata upload")
	cmd.Flags().StringVar(&twitter, "twitter", "", "twitter link for metadata")
	cmd.Flags().StringVar(&telegram, "telegram", "", "telegram link for metadata")
	cmd.Flags().StringVar(&website, "website", "", "website link for metadata")
	cmd.Flags().Uint64Var(&devBuySol, "dev-buy-sol", 0, "lamports for an initial buy in the same tx")
	cmd.Flags().Uint64Var(&slippageBps, "slippage-bps", 500, "slippage tolerance for the dev buy")
	cmd.Flags().StringVar(&vanitySuffix, "suffix", "", "vanity mint suffix (e.g. 'pump')")
	cmd.Flags().StringVar(&vanityPrefix, "prefix", "", "vanity mint prefix")
	cmd.Flags().IntVar(&vanityTimeout, "vanity-timeout", 300, "vanity search timeout in seconds")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "simulate instead of sending")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("symbol")

	return cmd
}

func uploadMetadata(ctx context.Context, cmd *cobra.Command, name, symbol, description, imagePath, twitter, telegram, website string) (string, error) {
	if description == "" {
		return "", fmt.Errorf("either --uri or --description is required")
	}
	meta := metadata.TokenMetadata{
		Name:        name,
		Symbol:      symbol,
		Description: description,
		Twitter:     twitter,
		Telegram:    telegram,
		Website:     website,
	}
	if imagePath != "" {
		img, err := os.ReadFile(imagePath)
		if err != nil {
			return "", fmt.Errorf("read image: %w", err)
		}
		meta.Image = img
		meta.ImageName = filepath.Base(imagePath)
	}
	uri, err := metadata.NewUploader().Upload(ctx, meta)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "metadata uploaded: %s\n", uri)
	return uri, nil
}

func generateMint(ctx context.Context, cmd *cobra.Command, prefix, suffix string, timeout time.Duration) (solana.PrivateKey, error) {
	if prefix == "" && suffix == "" {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("generate mint keypair: %w", err)
		}
		return key, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "searching for vanity address (prefix=%q suffix=%q timeout=%s)...\n", prefix, suffix, timeout)
	res, err := vanity.Generate(ctx, vanity.Options{
		Prefix:  prefix,
		Suffix:  suffix,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "found %s after %d attempts in %s\n", res.PublicKey, res.Attempts, res.Duration)
	return res.PrivateKey, nil
}

func newMigrateCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr  string
		simulate bool
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate a completed curve's liquidity to the AMM",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			mint, err := parsePubkey("mint", mintStr)
			if err != nil {
				return err
			}

			instructions, err := deps.client.BuildMigrateTransaction(ctx, deps.signer.PublicKey(), mint)
			if err != nil {
				return err
			}

			if simulate {
				res, err := simulateInstructions(ctx, deps, opts.commitment, instructions...)
				if err != nil {
					return err
				}
				printSimResult(cmd, res)
				return nil
			}

			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, instructions...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", sig.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&mintStr, "mint", "", "mint pubkey")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "simulate instead of sending")
	_ = cmd.MarkFlagRequired("mint")
	return cmd
}
