package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

func newAccountCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "account [pubkey]",
		Short: "Inspect a program account (global / bonding curve)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubkey("account", args[0])
			if err != nil {
				return err
			}
			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			acc, err := deps.rpc.GetAccountInfo(ctx, pub)
			if err != nil {
				return fmt.Errorf("fetch account: %w", err)
			}
			if acc == nil || acc.Value == nil || acc.Value.Data == nil {
				return fmt.Errorf("account not found or empty")
			}
			data := acc.Value.Data.GetBinary()
			name, decoded, err := decodeKnownAccount(data)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(decoded, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "account=%s program=%s\n%s\n", name, acc.Value.Owner, string(bz))
			return nil
		},
	}
}

func decodeKnownAccount(data []byte) (string, interface{}, error) {
	if len(data) < 8 {
		return "", nil, fmt.Errorf("account data too short")
	}
	decoders := []struct {
		name string
		disc []byte
		new  func() interface {
			Unmarshal([]byte) error
		}
	}{
		{"pump.Global", pump.GlobalDiscriminator, func() interface{ Unmarshal([]byte) error } { return &pump.Global{} }},
		{"pump.BondingCurve", pump.BondingCurveDiscriminator, func() interface{ Unmarshal([]byte) error } { return &pump.BondingCurve{} }},
	}

	for _, d := range decoders {
		if bytes.Equal(data[:8], d.disc) {
			inst := d.new()
			if err := inst.Unmarshal(data); err != nil {
				return d.name, nil, err
			}
			return d.name, inst, nil
		}
	}
	return "", nil, fmt.Errorf("unknown discriminator")
}
