package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ninja0404/pumpcurve-sdk/pkg/curve"
	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

func newCurveCmd(opts *globalOpts) *cobra.Command {
	var mintStr string
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Show bonding curve state for a mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}
			mint, err := parsePubkey("mint", mintStr)
			if err != nil {
				return err
			}
			snap, err := deps.client.Snapshot(ctx, mint)
			if err != nil {
				return err
			}
			out := struct {
				Mint              string            `json:"mint"`
				BondingCurve      string            `json:"bonding_curve"`
				CreatorVault      string            `json:"creator_vault"`
				TokenProgram      string            `json:"token_program"`
				Slot              uint64            `json:"slot"`
				State             pump.BondingCurve `json:"state"`
				SpotPriceLamports uint64            `json:"spot_price_lamports_per_token"`
			}{
				Mint:         snap.Mint.String(),
				BondingCurve: snap.BondingCurveAddr.String(),
				CreatorVault: snap.CreatorVault.String(),
				TokenProgram: snap.TokenProgram.String(),
				Slot:         snap.Slot,
				State:        snap.Curve,
			}
			if price, err := curve.SpotPrice(snap.Reserves()); err == nil {
				out.SpotPriceLamports = price
			}
			bz, _ := json.MarshalIndent(out, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
	cmd.Flags().StringVar(&mintStr, "mint", "", "mint pubkey")
	_ = cmd.MarkFlagRequired("mint")
	return cmd
}

func newQuoteCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr     string
		side        string
		amount      uint64
		slippageBps uint64
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a buy or sell against live curve state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}
			mint, err := parsePubkey("mint", mintStr)
			if err != nil {
				return err
			}

			var q curve.Quote
			switch side {
			case "buy":
				q, err = deps.client.QuoteBuy(ctx, mint, amount, slippageBps)
			case "sell":
				q, err = deps.client.QuoteSell(ctx, mint, amount, slippageBps)
			default:
				return fmt.Errorf("side must be buy or sell, got %q", side)
			}
			if err != nil {
				return err
			}
			printQuote(cmd, side, q)
			return nil
		},
	}
	cmd.Flags().StringVar(&mintStr, "mint", "", "mint pubkey")
	cmd.Flags().StringVar(&side, "side", "buy", "buy or sell")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "lamports in (buy) or tokens in (sell)")
	cmd.Flags().Uint64Var(&slippageBps, "slippage-bps", 500, "slippage tolerance in basis points")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func printQuote(cmd *cobra.Command, side string, q curve.Quote) {
	fmt.Fprintf(cmd.OutOrStdout(), "side=%s\n", side)
	fmt.Fprintf(cmd.OutOrStdout(), "amount_in=%d\n", q.AmountIn)
	fmt.Fprintf(cmd.OutOrStdout(), "fee=%d\n", q.Fee)
	fmt.Fprintf(cmd.OutOrStdout(), "amount_out=%d\n", q.AmountOut)
	fmt.Fprintf(cmd.OutOrStdout(), "min_amount_out=%d\n", q.MinAmountOut)
	fmt.Fprintf(cmd.OutOrStdout(), "price_impact_bps=%d\n", q.PriceImpactBps)
}

func newBuyCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr     string
		solIn       uint64
		slippageBps uint64
		simulate    bool
		preview     bool
	)
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy tokens with an exact SOL amount",
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

			plan, err := deps.client.BuildBuyTransaction(ctx, deps.signer.PublicKey(), mint, solIn, slippageBps)
			if err != nil {
				return err
			}
			printQuote(cmd, "buy", plan.Quote)

			if preview {
				return printPlanAccounts(cmd, plan.Instructions)
			}
			if simulate {
				res, err := simulateInstructions(ctx, deps, opts.commitment, plan.Instructions...)
				if err != nil {
					return err
				}
				printSimResult(cmd, res)
				return nil
			}

			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, plan.Instructions...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", sig.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&mintStr, "mint", "", "mint pubkey")
	cmd.Flags().Uint64Var(&solIn, "sol-in", 0, "lamports to spend")
	cmd.Flags().Uint64Var(&slippageBps, "slippage-bps", 500, "slippage tolerance in basis points")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "simulate instead of sending")
	cmd.Flags().BoolVar(&preview, "preview", false, "only print instruction accounts")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("sol-in")
	return cmd
}

func newSellCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr     string
		tokensIn    uint64
		slippageBps uint64
		simulate    bool
		preview     bool
	)
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell an exact token amount for SOL",
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

			plan, err := deps.client.BuildSellTransaction(ctx, deps.signer.PublicKey(), mint, tokensIn, slippageBps)
			if err != nil {
				return err
			}
			printQuote(cmd, "sell", plan.Quote)

			if preview {
				return printPlanAccounts(cmd, plan.Instructions)
			}
			if simulate {
				res, err := simulateInstructions(ctx, deps, opts.commitment, plan.Instructions...)
				if err != nil {
					return err
				}
				printSimResult(cmd, res)
				return nil
			}

			sig, err := deps.builder.BuildSignSend(ctx, deps.signer, nil, plan.Instructions...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", sig.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&mintStr, "mint", "", "mint pubkey")
	cmd.Flags().Uint64Var(&tokensIn, "tokens-in", 0, "token amount to sell (base units)")
	cmd.Flags().Uint64Var(&slippageBps, "slippage-bps", 500, "slippage tolerance in basis points")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "simulate instead of sending")
	cmd.Flags().BoolVar(&preview, "preview", false, "only print instruction accounts")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("tokens-in")
	return cmd
}

// printPlanAccounts dumps each instruction's program and account metas.
func printPlanAccounts(cmd *cobra.Command, instructions []solana.Instruction) error {
	type meta struct {
		Pubkey   string `json:"pubkey"`
		Writable bool   `json:"writable"`
		Signer   bool   `json:"signer"`
	}
	type ixView struct {
		Program  string `json:"program"`
		Accounts []meta `json:"accounts"`
	}
	views := make([]ixView, 0, len(instructions))
	for _, ix := range instructions {
		v := ixView{Program: ix.ProgramID().String()}
		for _, a := range ix.Accounts() {
			v.Accounts = append(v.Accounts, meta{
				Pubkey:   a.PublicKey.String(),
				Writable: a.IsWritable,
				Signer:   a.IsSigner,
			})
		}
		views = append(views, v)
	}
	bz, _ := json.MarshalIndent(views, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
