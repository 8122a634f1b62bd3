package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sdkclient "github.com/ninja0404/pumpcurve-sdk/pkg/client"
	sdkconfig "github.com/ninja0404/pumpcurve-sdk/pkg/config"
	"github.com/ninja0404/pumpcurve-sdk/pkg/jito"
	sdkrpc "github.com/ninja0404/pumpcurve-sdk/pkg/rpc"
	"github.com/ninja0404/pumpcurve-sdk/pkg/txbuilder"
	"github.com/ninja0404/pumpcurve-sdk/pkg/wallet"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	rpcURL         string
	commitment     string
	feePayerPath   string
	signerEndpoint string
	jitoEndpoint   string
	skipPreflight  bool
	retryAttempts  int
	retryBackoffMs int
	rateLimitRPS   float64
	logLevel       string
	timeoutSec     int
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:   "pumpcurve",
		Short: "Bonding-curve token launch toolkit: quote, trade, create, migrate",
	}

	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default: PUMPCURVE_RPC_URL or mainnet)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", "", "RPC commitment level")
	root.PersistentFlags().StringVar(&opts.feePayerPath, "fee-payer", "", "path to solana-keygen json for fee payer")
	root.PersistentFlags().StringVar(&opts.signerEndpoint, "signer-endpoint", "", "remote signer endpoint (placeholder)")
	root.PersistentFlags().StringVar(&opts.jitoEndpoint, "jito-endpoint", "", "Jito block engine endpoint (optional)")
	root.PersistentFlags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip preflight checks")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 3, "RPC retry attempts")
	root.PersistentFlags().IntVar(&opts.retryBackoffMs, "retry-backoff-ms", 150, "initial backoff in ms")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", 8, "rate limit RPS (0 to disable)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 20, "RPC timeout seconds")

	root.AddCommand(
		newConfigCmd(),
		newAccountCmd(opts),
		newCurveCmd(opts),
		newQuoteCmd(opts),
		newBuyCmd(opts),
		newSellCmd(opts),
		newCreateCmd(opts),
		newMigrateCmd(opts),
		newEventsCmd(opts),
	)

	return root
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective config (env + defaults)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sdkconfig.FromEnv()
			fmt.Fprintf(cmd.OutOrStdout(), "network=%s\nrpc=%s\ncommitment=%s\n", cfg.Network, cfg.ResolveRPCURL(), cfg.Commitment)
			return nil
		},
	}
}

type runtimeDeps struct {
	builder *txbuilder.Builder
	client  *sdkclient.Client
	signer  wallet.Signer
	rpc     *sdkrpc.Client
}

func resolveConfig(cmd *cobra.Command, opts *globalOpts) sdkconfig.RPCConfig {
	cfg := sdkconfig.FromEnv()
	if opts != nil {
		if opts.rpcURL != "" {
			cfg.RPCURL = opts.rpcURL
		}
		if opts.commitment != "" {
			cfg.Commitment = opts.commitment
		}
		cfg.RateLimit.RPS = opts.rateLimitRPS
		cfg.Retry.MaxAttempts = opts.retryAttempts
		if opts.retryBackoffMs > 0 {
			cfg.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
		}
		if opts.timeoutSec > 0 {
			cfg.Timeout = time.Duration(opts.timeoutSec) * time.Second
		}
	}
	cfg.Logger = zerolog.New(cmd.ErrOrStderr()).Level(parseLogLevel(opts.logLevel)).With().Timestamp().Logger()
	return cfg
}

// newReader wires the read-only half: rpc client + sdk facade, no signer.
func newReader(cmd *cobra.Command, opts *globalOpts) (*runtimeDeps, error) {
	cfg := resolveConfig(cmd, opts)
	rpcClient := sdkrpc.NewClient(cfg)
	facade, err := sdkclient.New(rpcClient, sdkclient.WithLogger(cfg.Logger))
	if err != nil {
		return nil, err
	}
	return &runtimeDeps{client: facade, rpc: rpcClient}, nil
}

// newBuilder wires the full stack: rpc, facade, tx builder and signer.
func newBuilder(cmd *cobra.Command, opts *globalOpts) (*runtimeDeps, error) {
	deps, err := newReader(cmd, opts)
	if err != nil {
		return nil, err
	}
	cfg := resolveConfig(cmd, opts)

	commit := rpc.CommitmentType(cfg.Commitment)
	builder := txbuilder.NewBuilder(deps.rpc, commit).WithSkipPreflight(opts != nil && opts.skipPreflight)
	if opts != nil && opts.jitoEndpoint != "" {
		builder = builder.WithJito(jito.NewClient(opts.jitoEndpoint, ""))
	}
	deps.builder = builder

	var signer wallet.Signer
	switch {
	case opts != nil && opts.feePayerPath != "":
		local, err := wallet.NewLocalFromKeygen(opts.feePayerPath)
		if err != nil {
			return nil, err
		}
		signer = local
	case opts != nil && opts.signerEndpoint != "":
		signer = wallet.NewRemoteSigner(solana.PublicKey{}, func(ctx context.Context, message []byte) ([]byte, error) {
			return nil, fmt.Errorf("remote signer placeholder: %s", opts.signerEndpoint)
		})
	default:
		return nil, fmt.Errorf("fee payer is required (use --fee-payer)")
	}
	deps.signer = signer

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := deps.rpc.GetLatestBlockhash(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: rpc ping failed: %v\n", err)
	}

	return deps, nil
}

func parseLogLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
