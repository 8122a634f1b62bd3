package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

func newEventsCmd(opts *globalOpts) *cobra.Command {
	var (
		sigStr   string
		logsPath string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Decode trade/create/complete events from transaction logs",
		Long: `Decode trade/create/complete events from transaction logs.

Pass --signature to fetch a confirmed transaction's logs from the RPC, or
--logs-file to read raw log lines (one per line) from a file. Lines that do
not carry event payloads are skipped; undecodable payloads are reported
without aborting the rest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			var logs []string
			var err error
			switch {
			case sigStr != "":
				deps, derr := newReader(cmd, opts)
				if derr != nil {
					return derr
				}
				logs, err = fetchTxLogs(ctx, deps, sigStr)
			case logsPath != "":
				logs, err = readLogLines(logsPath)
			default:
				return fmt.Errorf("either --signature or --logs-file is required")
			}
			if err != nil {
				return err
			}

			trades, tradeFails := pump.DecodeTradeEvents(logs)
			creates, createFails := pump.DecodeCreateEvents(logs)
			completes, completeFails := pump.DecodeCompleteEvents(logs)

			out := struct {
				Trades    []pump.TradeEvent    `json:"trades,omitempty"`
				Creates   []pump.CreateEvent   `json:"creates,omitempty"`
				Completes []pump.CompleteEvent `json:"completes,omitempty"`
			}{trades, creates, completes}
			bz, _ := json.MarshalIndent(out, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))

			for _, f := range dedupeFailures(tradeFails, createFails, completeFails) {
				fmt.Fprintf(cmd.ErrOrStderr(), "log %d undecodable: %v\n", f.LogIndex, f.Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sigStr, "signature", "", "transaction signature to fetch logs from")
	cmd.Flags().StringVar(&logsPath, "logs-file", "", "file with raw log lines, one per line")
	return cmd
}

func fetchTxLogs(ctx context.Context, deps *runtimeDeps, sigStr string) ([]string, error) {
	sig, err := solana.SignatureFromBase58(sigStr)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	maxVersion := uint64(0)
	tx, err := deps.rpc.Raw().GetTransaction(ctx, sig, &solanarpc.GetTransactionOpts{
		Commitment:                     solanarpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch transaction: %w", err)
	}
	if tx == nil || tx.Meta == nil {
		return nil, fmt.Errorf("transaction has no metadata")
	}
	return tx.Meta.LogMessages, nil
}

func readLogLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open logs file: %w", err)
	}
	defer f.Close()

	var logs []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		logs = append(logs, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read logs file: %w", err)
	}
	return logs, nil
}

// dedupeFailures merges per-decoder failure lists by log index. A line that
// no decoder could even base64-decode shows up in all three lists.
func dedupeFailures(lists ...[]pump.EventDecodeFailure) []pump.EventDecodeFailure {
	seen := make(map[int]bool)
	var out []pump.EventDecodeFailure
	for _, list := range lists {
		for _, f := range list {
			if seen[f.LogIndex] {
				continue
			}
			seen[f.LogIndex] = true
			out = append(out, f)
		}
	}
	return out
}
