package client_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/ninja0404/pumpcurve-sdk/pkg/client"
	"github.com/ninja0404/pumpcurve-sdk/pkg/curve"
	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
	"github.com/ninja0404/pumpcurve-sdk/pkg/types"
)

// stubReader serves canned accounts keyed by address. Unknown addresses
// resolve to nil entries, matching the RPC's behavior for missing accounts.
type stubReader struct {
	accounts map[solana.PublicKey]*solanarpc.Account
	slot     uint64
}

func (s *stubReader) GetMultipleAccounts(ctx context.Context, addrs ...solana.PublicKey) (*solanarpc.GetMultipleAccountsResult, error) {
	out := &solanarpc.GetMultipleAccountsResult{
		RPCContext: solanarpc.RPCContext{Context: solanarpc.Context{Slot: s.slot}},
	}
	for _, addr := range addrs {
		out.Value = append(out.Value, s.accounts[addr])
	}
	return out, nil
}

var (
	testMint    = solana.MustPublicKeyFromBase58("8GT663BCnPZ1nLFkFynZzquy3WGS9gMkugFtNKcrpump")
	testUser    = solana.MustPublicKeyFromBase58("DCpJReAfonSrgohiQbTmKKbjbqVofspV9ZzJkjdEr2mk")
	testCreator = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")
)

func testGlobal() pump.Global {
	return pump.Global{
		Initialized:                 true,
		Authority:                   testCreator,
		FeeRecipient:                testCreator,
		InitialVirtualTokenReserves: 1_073_000_000_000_000,
		InitialVirtualSolReserves:   30_000_000_000,
		InitialRealTokenReserves:    793_100_000_000_000,
		TokenTotalSupply:            1_000_000_000_000_000,
		FeeBasisPoints:              100,
	}
}

func testCurve() pump.BondingCurve {
	return pump.BondingCurve{
		VirtualTokenReserves: 1_073_000_000_000_000,
		VirtualSolReserves:   30_000_000_000,
		RealTokenReserves:    793_100_000_000_000,
		RealSolReserves:      0,
		TokenTotalSupply:     1_000_000_000_000_000,
		Creator:              testCreator,
	}
}

func account(owner solana.PublicKey, data []byte) *solanarpc.Account {
	return &solanarpc.Account{
		Owner: owner,
		Data:  solanarpc.DataBytesOrJSONFromBytes(data),
	}
}

// newStub serves the standard global/curve/mint triple.
func newStub(t *testing.T, g pump.Global, bc pump.BondingCurve) *stubReader {
	t.Helper()
	globalAddr, _, err := pump.DeriveGlobalPDA()
	if err != nil {
		t.Fatalf("derive global: %v", err)
	}
	curveAddr, _, err := pump.DeriveBondingCurvePDA(testMint)
	if err != nil {
		t.Fatalf("derive curve: %v", err)
	}
	tokenProgram := solana.TokenProgramID
	return &stubReader{
		slot: 250_000_000,
		accounts: map[solana.PublicKey]*solanarpc.Account{
			globalAddr: account(pump.ProgramKey, g.Marshal()),
			curveAddr:  account(pump.ProgramKey, bc.Marshal()),
			testMint:   account(tokenProgram, nil),
		},
	}
}

func newTestClient(t *testing.T, reader client.StateReader) *client.Client {
	t.Helper()
	c, err := client.New(reader)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRequiresReader(t *testing.T) {
	if _, err := client.New(nil); !errors.Is(err, types.ErrNilRPC) {
		t.Fatalf("err = %v, want ErrNilRPC", err)
	}
}

func TestSnapshot(t *testing.T) {
	c := newTestClient(t, newStub(t, testGlobal(), testCurve()))

	snap, err := c.Snapshot(context.Background(), testMint)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Mint != testMint {
		t.Fatalf("mint = %s", snap.Mint)
	}
	if snap.Slot != 250_000_000 {
		t.Fatalf("slot = %d", snap.Slot)
	}
	if !snap.TokenProgram.Equals(solana.TokenProgramID) {
		t.Fatalf("token program = %s", snap.TokenProgram)
	}
	if snap.Global.FeeBasisPoints != 100 {
		t.Fatalf("fee bps = %d", snap.Global.FeeBasisPoints)
	}
	if snap.Curve.VirtualSolReserves != 30_000_000_000 {
		t.Fatalf("virtual sol = %d", snap.Curve.VirtualSolReserves)
	}

	wantVault, _, err := pump.DeriveCreatorVaultPDA(testCreator)
	if err != nil {
		t.Fatalf("derive vault: %v", err)
	}
	if snap.CreatorVault != wantVault {
		t.Fatalf("creator vault = %s, want %s", snap.CreatorVault, wantVault)
	}
}

func TestSnapshotMissingCurve(t *testing.T) {
	stub := newStub(t, testGlobal(), testCurve())
	curveAddr, _, _ := pump.DeriveBondingCurvePDA(testMint)
	delete(stub.accounts, curveAddr)

	c := newTestClient(t, stub)
	_, err := c.Snapshot(context.Background(), testMint)
	if !errors.Is(err, types.ErrBondingCurveNotFound) {
		t.Fatalf("err = %v, want ErrBondingCurveNotFound", err)
	}
}

func TestQuoteBuyMatchesCurveMath(t *testing.T) {
	c := newTestClient(t, newStub(t, testGlobal(), testCurve()))

	got, err := c.QuoteBuy(context.Background(), testMint, 1_000_000_000, 500)
	if err != nil {
		t.Fatalf("quote buy: %v", err)
	}

	want, err := curve.Buy(curve.Reserves{
		VirtualTokenReserves: 1_073_000_000_000_000,
		VirtualSolReserves:   30_000_000_000,
		RealTokenReserves:    793_100_000_000_000,
	}, 100, 1_000_000_000, 500)
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	if got != want {
		t.Fatalf("quote = %+v, want %+v", got, want)
	}
}

func TestQuoteBuyCompletedCurve(t *testing.T) {
	bc := testCurve()
	bc.Complete = true
	c := newTestClient(t, newStub(t, testGlobal(), bc))

	_, err := c.QuoteBuy(context.Background(), testMint, 1_000_000_000, 500)
	if !errors.Is(err, curve.ErrCurveCompleted) {
		t.Fatalf("err = %v, want ErrCurveCompleted", err)
	}
}

func TestBuildBuyTransactionCreatesATA(t *testing.T) {
	c := newTestClient(t, newStub(t, testGlobal(), testCurve()))

	plan, err := c.BuildBuyTransaction(context.Background(), testUser, testMint, 1_000_000_000, 500)
	if err != nil {
		t.Fatalf("build buy: %v", err)
	}
	// buyer has no token account in the stub, so the plan prepends one
	if len(plan.Instructions) != 2 {
		t.Fatalf("%d instructions, want 2", len(plan.Instructions))
	}
	if !plan.Instructions[0].ProgramID().Equals(solana.SPLAssociatedTokenAccountProgramID) {
		t.Fatalf("first instruction program = %s", plan.Instructions[0].ProgramID())
	}

	buyIx := plan.Instructions[1]
	if !buyIx.ProgramID().Equals(pump.ProgramKey) {
		t.Fatalf("buy program = %s", buyIx.ProgramID())
	}
	data, err := buyIx.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if !bytes.Equal(data[:8], pump.BuyExactSolInDiscriminator) {
		t.Fatalf("discriminator = %v", data[:8])
	}
	if plan.Quote.MinAmountOut == 0 {
		t.Fatal("quote carries no slippage bound")
	}
}

func TestBuildBuyTransactionSkipsExistingATA(t *testing.T) {
	stub := newStub(t, testGlobal(), testCurve())
	ata, _, err := solana.FindAssociatedTokenAddress(testUser, testMint)
	if err != nil {
		t.Fatalf("derive ata: %v", err)
	}
	stub.accounts[ata] = account(solana.TokenProgramID, make([]byte, 165))

	c := newTestClient(t, stub)
	plan, err := c.BuildBuyTransaction(context.Background(), testUser, testMint, 1_000_000_000, 500)
	if err != nil {
		t.Fatalf("build buy: %v", err)
	}
	if len(plan.Instructions) != 1 {
		t.Fatalf("%d instructions, want 1", len(plan.Instructions))
	}
}

func TestBuildSellTransaction(t *testing.T) {
	bc := testCurve()
	bc.VirtualSolReserves = 35_000_000_000
	bc.VirtualTokenReserves = 919_714_285_714_285
	bc.RealSolReserves = 5_000_000_000
	c := newTestClient(t, newStub(t, testGlobal(), bc))

	plan, err := c.BuildSellTransaction(context.Background(), testUser, testMint, 10_000_000_000_000, 300)
	if err != nil {
		t.Fatalf("build sell: %v", err)
	}
	if len(plan.Instructions) != 1 {
		t.Fatalf("%d instructions, want 1", len(plan.Instructions))
	}
	data, err := plan.Instructions[0].Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if !bytes.Equal(data[:8], pump.SellDiscriminator) {
		t.Fatalf("discriminator = %v", data[:8])
	}
	if plan.Quote.AmountOut != 372_695_144 {
		t.Fatalf("amount out = %d", plan.Quote.AmountOut)
	}
}

func TestBuildSellTransactionZeroAmount(t *testing.T) {
	c := newTestClient(t, newStub(t, testGlobal(), testCurve()))
	if _, err := c.BuildSellTransaction(context.Background(), testUser, testMint, 0, 300); err == nil {
		t.Fatal("expected validation error for zero amount")
	}
}

func TestBuildCreateTransaction(t *testing.T) {
	c := newTestClient(t, &stubReader{})

	plan, err := c.BuildCreateTransaction(context.Background(), testUser, testMint, client.CreateParams{
		Name:   "Example Token",
		Symbol: "EXMPL",
		URI:    "https://example.com/meta.json",
	})
	if err != nil {
		t.Fatalf("build create: %v", err)
	}
	if len(plan.Instructions) != 1 {
		t.Fatalf("%d instructions, want 1", len(plan.Instructions))
	}
	wantCurve, _, _ := pump.DeriveBondingCurvePDA(testMint)
	if plan.BondingCurve != wantCurve {
		t.Fatalf("bonding curve = %s, want %s", plan.BondingCurve, wantCurve)
	}
	if plan.DevBuyQuote != nil {
		t.Fatal("dev buy quote set without a dev buy")
	}
}

func TestBuildCreateTransactionWithDevBuy(t *testing.T) {
	globalAddr, _, _ := pump.DeriveGlobalPDA()
	g := testGlobal()
	stub := &stubReader{
		accounts: map[solana.PublicKey]*solanarpc.Account{
			globalAddr: account(pump.ProgramKey, g.Marshal()),
		},
	}
	c := newTestClient(t, stub)

	plan, err := c.BuildCreateTransaction(context.Background(), testUser, testMint, client.CreateParams{
		Name:              "Example Token",
		Symbol:            "EXMPL",
		URI:               "https://example.com/meta.json",
		DevBuySol:         1_000_000_000,
		DevBuySlippageBps: 500,
	})
	if err != nil {
		t.Fatalf("build create: %v", err)
	}
	// create, ATA create, dev buy
	if len(plan.Instructions) != 3 {
		t.Fatalf("%d instructions, want 3", len(plan.Instructions))
	}
	if plan.DevBuyQuote == nil {
		t.Fatal("dev buy quote missing")
	}
	// priced against launch reserves, so it matches the curve math exactly
	if plan.DevBuyQuote.AmountOut != 34_277_831_558_568 {
		t.Fatalf("dev buy out = %d", plan.DevBuyQuote.AmountOut)
	}
}

func TestBuildMigrateTransactionRequiresCompleteCurve(t *testing.T) {
	c := newTestClient(t, newStub(t, testGlobal(), testCurve()))

	_, err := c.BuildMigrateTransaction(context.Background(), testUser, testMint)
	if !errors.Is(err, types.ErrCurveNotComplete) {
		t.Fatalf("err = %v, want ErrCurveNotComplete", err)
	}
}

func TestBuildMigrateTransaction(t *testing.T) {
	bc := testCurve()
	bc.Complete = true
	bc.RealTokenReserves = 0
	bc.RealSolReserves = 85_000_000_000
	c := newTestClient(t, newStub(t, testGlobal(), bc))

	instructions, err := c.BuildMigrateTransaction(context.Background(), testUser, testMint)
	if err != nil {
		t.Fatalf("build migrate: %v", err)
	}
	if len(instructions) != 1 {
		t.Fatalf("%d instructions, want 1", len(instructions))
	}
	if len(instructions[0].Accounts()) != 24 {
		t.Fatalf("%d accounts, want 24", len(instructions[0].Accounts()))
	}
}

func TestParseTradeEvents(t *testing.T) {
	c := newTestClient(t, &stubReader{})

	events, failures := c.ParseTradeEvents([]string{
		"Program log: Instruction: Buy",
	})
	if len(events) != 0 || len(failures) != 0 {
		t.Fatalf("events=%v failures=%v", events, failures)
	}
}
