package pump_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

func testKey(b byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = b
	}
	return pk
}

func TestBuildBuyData(t *testing.T) {
	accounts := pump.BuyAccounts{
		Mint: testKey(1),
		User: testKey(2),
	}
	args := pump.BuyArgs{
		Amount:      34_277_831_558_568,
		MaxSolCost:  1_050_000_000,
		TrackVolume: pump.OptionBool{Field0: true},
	}
	ix, err := pump.BuildBuy(accounts, args)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !ix.ProgramID().Equals(pump.ProgramKey) {
		t.Fatalf("program = %s", ix.ProgramID())
	}

	data, err := ix.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(data) != 8+8+8+1 {
		t.Fatalf("data is %d bytes, want 25", len(data))
	}
	if !bytes.Equal(data[:8], pump.BuyDiscriminator) {
		t.Fatalf("discriminator = %v", data[:8])
	}
	if got := binary.LittleEndian.Uint64(data[8:16]); got != args.Amount {
		t.Fatalf("amount = %d", got)
	}
	if got := binary.LittleEndian.Uint64(data[16:24]); got != args.MaxSolCost {
		t.Fatalf("max sol cost = %d", got)
	}
	if data[24] != 1 {
		t.Fatalf("track volume byte = %d", data[24])
	}
}

func TestBuildBuyAccountOrder(t *testing.T) {
	accounts := pump.BuyAccounts{
		Global:                  testKey(1),
		FeeRecipient:            testKey(2),
		Mint:                    testKey(3),
		BondingCurve:            testKey(4),
		AssociatedBondingCurve:  testKey(5),
		AssociatedUser:          testKey(6),
		User:                    testKey(7),
		SystemProgram:           testKey(8),
		TokenProgram:            testKey(9),
		CreatorVault:            testKey(10),
		EventAuthority:          testKey(11),
		Program:                 testKey(12),
		GlobalVolumeAccumulator: testKey(13),
		UserVolumeAccumulator:   testKey(14),
		FeeConfig:               testKey(15),
		FeeProgram:              testKey(16),
	}
	metas := accounts.ToAccountMetas()
	if len(metas) != 16 {
		t.Fatalf("%d metas, want 16", len(metas))
	}
	for i, m := range metas {
		if !m.PublicKey.Equals(testKey(byte(i + 1))) {
			t.Fatalf("meta %d = %s, out of order", i, m.PublicKey)
		}
	}

	writable := map[int]bool{1: true, 3: true, 4: true, 5: true, 6: true, 9: true, 12: true, 13: true}
	for i, m := range metas {
		if m.IsWritable != writable[i] {
			t.Fatalf("meta %d writable = %v", i, m.IsWritable)
		}
	}
	for i, m := range metas {
		if m.IsSigner != (i == 6) {
			t.Fatalf("meta %d signer = %v", i, m.IsSigner)
		}
	}
}

func TestBuildBuyExactSolInData(t *testing.T) {
	args := pump.BuyExactSolInArgs{
		SpendableSolIn: 1_000_000_000,
		MinTokensOut:   32_563_939_980_639,
		TrackVolume:    pump.OptionBool{Field0: false},
	}
	ix, err := pump.BuildBuyExactSolIn(pump.BuyExactSolInAccounts{}, args)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := ix.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if !bytes.Equal(data[:8], pump.BuyExactSolInDiscriminator) {
		t.Fatalf("discriminator = %v", data[:8])
	}
	if got := binary.LittleEndian.Uint64(data[8:16]); got != args.SpendableSolIn {
		t.Fatalf("spendable sol in = %d", got)
	}
	if got := binary.LittleEndian.Uint64(data[16:24]); got != args.MinTokensOut {
		t.Fatalf("min tokens out = %d", got)
	}
	if data[24] != 0 {
		t.Fatalf("track volume byte = %d", data[24])
	}
}

func TestBuildSellData(t *testing.T) {
	args := pump.SellArgs{
		Amount:       10_000_000_000_000,
		MinSolOutput: 361_514_289,
	}
	ix, err := pump.BuildSell(pump.SellAccounts{}, args)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := ix.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(data) != 8+8+8 {
		t.Fatalf("data is %d bytes, want 24", len(data))
	}
	if !bytes.Equal(data[:8], pump.SellDiscriminator) {
		t.Fatalf("discriminator = %v", data[:8])
	}
	if got := binary.LittleEndian.Uint64(data[8:16]); got != args.Amount {
		t.Fatalf("amount = %d", got)
	}
	if got := binary.LittleEndian.Uint64(data[16:24]); got != args.MinSolOutput {
		t.Fatalf("min sol output = %d", got)
	}
}

func TestSellAccountOrder(t *testing.T) {
	accounts := pump.SellAccounts{
		Global:                 testKey(1),
		FeeRecipient:           testKey(2),
		Mint:                   testKey(3),
		BondingCurve:           testKey(4),
		AssociatedBondingCurve: testKey(5),
		AssociatedUser:         testKey(6),
		User:                   testKey(7),
		SystemProgram:          testKey(8),
		CreatorVault:           testKey(9),
		TokenProgram:           testKey(10),
		EventAuthority:         testKey(11),
		Program:                testKey(12),
		FeeConfig:              testKey(13),
		FeeProgram:             testKey(14),
	}
	metas := accounts.ToAccountMetas()
	if len(metas) != 14 {
		t.Fatalf("%d metas, want 14", len(metas))
	}
	for i, m := range metas {
		if !m.PublicKey.Equals(testKey(byte(i + 1))) {
			t.Fatalf("meta %d = %s, out of order", i, m.PublicKey)
		}
	}
	// creator vault sits before the token program on sells
	if !metas[8].IsWritable || metas[9].IsWritable {
		t.Fatal("creator vault / token program writability wrong")
	}
}

func TestBuildCreate(t *testing.T) {
	args := pump.CreateArgs{
		Name:    "Example Token",
		Symbol:  "EXMPL",
		Uri:     "https://example.com/meta.json",
		Creator: testKey(9),
	}
	ix, err := pump.BuildCreate(pump.CreateAccounts{}, args)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := ix.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if !bytes.Equal(data[:8], pump.CreateDiscriminator) {
		t.Fatalf("discriminator = %v", data[:8])
	}
	// borsh: three length-prefixed strings plus the creator key
	wantLen := 8 + 4 + len(args.Name) + 4 + len(args.Symbol) + 4 + len(args.Uri) + 32
	if len(data) != wantLen {
		t.Fatalf("data is %d bytes, want %d", len(data), wantLen)
	}
	if got := binary.LittleEndian.Uint32(data[8:12]); got != uint32(len(args.Name)) {
		t.Fatalf("name length prefix = %d", got)
	}
	if string(data[12:12+len(args.Name)]) != args.Name {
		t.Fatal("name bytes wrong")
	}
	if !bytes.Equal(data[wantLen-32:], args.Creator[:]) {
		t.Fatal("creator bytes wrong")
	}
}

func TestBuildCreateRejectsOversizedMetadata(t *testing.T) {
	var invalid pump.InvalidMetadataError

	_, err := pump.BuildCreate(pump.CreateAccounts{}, pump.CreateArgs{
		Name:   strings.Repeat("n", 33),
		Symbol: "OK",
		Uri:    "https://example.com",
	})
	if !errors.As(err, &invalid) || invalid.Field != "name" {
		t.Fatalf("long name: err = %v", err)
	}

	_, err = pump.BuildCreate(pump.CreateAccounts{}, pump.CreateArgs{
		Name:   "ok",
		Symbol: strings.Repeat("s", 11),
		Uri:    "https://example.com",
	})
	if !errors.As(err, &invalid) || invalid.Field != "symbol" {
		t.Fatalf("long symbol: err = %v", err)
	}

	_, err = pump.BuildCreate(pump.CreateAccounts{}, pump.CreateArgs{
		Name:   "ok",
		Symbol: "OK",
		Uri:    strings.Repeat("u", 201),
	})
	if !errors.As(err, &invalid) || invalid.Field != "uri" {
		t.Fatalf("long uri: err = %v", err)
	}
}

func TestBuildMigrate(t *testing.T) {
	ix, err := pump.BuildMigrate(pump.MigrateAccounts{}, pump.MigrateArgs{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := ix.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if !bytes.Equal(data, pump.MigrateDiscriminator) {
		t.Fatalf("data = %v, want bare discriminator", data)
	}
	metas := ix.Accounts()
	if len(metas) != 24 {
		t.Fatalf("%d metas, want 24", len(metas))
	}
	// withdraw authority falls back to the canonical one when unset
	if !metas[1].PublicKey.Equals(pump.MigrateWithdrawAuthority) {
		t.Fatalf("withdraw authority = %s", metas[1].PublicKey)
	}
}

func TestBuildMigrateWithdrawAuthorityOverride(t *testing.T) {
	custom := testKey(42)
	ix, err := pump.BuildMigrate(pump.MigrateAccounts{WithdrawAuthority: custom}, pump.MigrateArgs{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	metas := ix.Accounts()
	if !metas[1].PublicKey.Equals(custom) {
		t.Fatalf("withdraw authority = %s, want %s", metas[1].PublicKey, custom)
	}
	if !metas[1].IsWritable || metas[1].IsSigner {
		t.Fatalf("withdraw authority meta flags = writable %v signer %v", metas[1].IsWritable, metas[1].IsSigner)
	}
}

func TestErrorFromCode(t *testing.T) {
	if _, ok := pump.ErrorFromCode(6005); !ok {
		t.Fatal("code 6005 unknown")
	}
	perr, ok := pump.ErrorFromCode(6002)
	if !ok {
		t.Fatal("code 6002 unknown")
	}
	if perr.Name == "" || perr.Code != 6002 {
		t.Fatalf("program error = %+v", perr)
	}
	if _, ok := pump.ErrorFromCode(42); ok {
		t.Fatal("unknown code resolved")
	}
}
