package client

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"testing/quick"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/probbet/goprob/clob/signing"
	"github.com/probbet/goprob/clob/types"
)

func TestDecimalPlaces(t *testing.T) {
	cases := []struct {
		num  float64
		want int
	}{
		{1, 0},
		{100, 0},
		{0.5, 1},
		{0.05, 2},
		{0.123, 3},
		{949.9970999999999, 13},
		{0.1, 1},
		{-2.25, 2},
	}
	for _, tc := range cases {
		if got := decimalPlaces(tc.num); got != tc.want {
			t.Errorf("decimalPlaces(%v) = %d, want %d", tc.num, got, tc.want)
		}
	}
}

func TestRoundNormal(t *testing.T) {
	cases := []struct {
		num      float64
		decimals int
		want     float64
	}{
		{0.145, 2, 0.15}, // binary representation of 0.145*100 is 14.499999...
		{0.55, 1, 0.6},
		{0.5, 2, 0.5}, // already within precision, untouched
		{0.1234, 2, 0.12},
		{0.999, 2, 1.0},
	}
	for _, tc := range cases {
		if got := roundNormal(tc.num, tc.decimals); got != tc.want {
			t.Errorf("roundNormal(%v, %d) = %v, want %v", tc.num, tc.decimals, got, tc.want)
		}
	}
}

func TestRoundDownAndUp(t *testing.T) {
	if got := roundDown(1.119, 2); got != 1.11 {
		t.Errorf("roundDown(1.119, 2) = %v", got)
	}
	if got := roundUp(1.111, 2); got != 1.12 {
		t.Errorf("roundUp(1.111, 2) = %v", got)
	}
	// Inputs already at the target precision pass through.
	if got := roundDown(1.11, 2); got != 1.11 {
		t.Errorf("roundDown(1.11, 2) = %v", got)
	}
	if got := roundUp(1.11, 2); got != 1.11 {
		t.Errorf("roundUp(1.11, 2) = %v", got)
	}
}

func TestRoundNormal_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	property := func() bool {
		num := r.Float64()
		decimals := 1 + r.Intn(4)
		once := roundNormal(num, decimals)
		twice := roundNormal(once, decimals)
		return once == twice
	}
	if err := quick.Check(property, &quick.Config{MaxCount: 2000}); err != nil {
		t.Error(err)
	}
}

func TestRoundNormal_Monotonic(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	property := func() bool {
		a := r.Float64()
		b := r.Float64()
		if a > b {
			a, b = b, a
		}
		decimals := 1 + r.Intn(4)
		return roundNormal(a, decimals) <= roundNormal(b, decimals)
	}
	if err := quick.Check(property, &quick.Config{MaxCount: 2000}); err != nil {
		t.Error(err)
	}
}

func TestGetOrderRawAmounts_Buy(t *testing.T) {
	rc := RoundingConfig[types.TickSize001]

	// BUY 1 share at 0.5: pay 0.5 collateral for 1 token.
	maker, taker, err := GetOrderRawAmounts(types.SideBuy, 1, 0.5, rc)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if taker != 1 {
		t.Errorf("taker = %v, want 1", taker)
	}
	if maker != 0.5 {
		t.Errorf("maker = %v, want 0.5", maker)
	}
}

func TestGetOrderRawAmounts_Sell(t *testing.T) {
	rc := RoundingConfig[types.TickSize001]

	maker, taker, err := GetOrderRawAmounts(types.SideSell, 100, 0.56, rc)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if maker != 100 {
		t.Errorf("maker = %v, want 100", maker)
	}
	if taker != 56 {
		t.Errorf("taker = %v, want 56", taker)
	}
}

func TestGetOrderRawAmounts_UnknownSide(t *testing.T) {
	rc := RoundingConfig[types.TickSize001]
	if _, _, err := GetOrderRawAmounts(types.Side("HOLD"), 1, 0.5, rc); err == nil {
		t.Fatal("expected error for unknown side")
	}
}

// The derived collateral leg must land within the amount precision for
// every tick size, whatever size and price come in.
func TestGetOrderRawAmounts_PrecisionBound(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for tick, rc := range RoundingConfig {
		property := func() bool {
			size := math.Trunc(r.Float64()*100000) / 100 // up to 2 places
			price := r.Float64()
			for _, side := range []types.Side{types.SideBuy, types.SideSell} {
				maker, taker, err := GetOrderRawAmounts(side, size, price, rc)
				if err != nil {
					return false
				}
				if decimalPlaces(maker) > rc.Amount || decimalPlaces(taker) > rc.Amount {
					return false
				}
			}
			return true
		}
		if err := quick.Check(property, &quick.Config{MaxCount: 1000}); err != nil {
			t.Errorf("tick %s: %v", tick, err)
		}
	}
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		value    float64
		decimals int
		want     string
	}{
		{0.5, 18, "500000000000000000"},
		{1, 18, "1000000000000000000"},
		{0.56, 6, "560000"},
		{0, 18, "0"},
		{100.123456, 6, "100123456"},
	}
	for _, tc := range cases {
		if got := parseUnits(tc.value, tc.decimals).String(); got != tc.want {
			t.Errorf("parseUnits(%v, %d) = %s, want %s", tc.value, tc.decimals, got, tc.want)
		}
	}
}

func TestBuildOrderCreationArgs(t *testing.T) {
	maker := "0x1111111111111111111111111111111111111111"
	rc := RoundingConfig[types.TickSize001]

	data, err := BuildOrderCreationArgs(maker, maker, types.SignatureTypeEOA, &types.UserOrder{
		TokenID: "123",
		Price:   0.5,
		Size:    1,
		Side:    types.SideBuy,
	}, rc, 18)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if data.MakerAmount != "500000000000000000" {
		t.Errorf("MakerAmount = %s", data.MakerAmount)
	}
	if data.TakerAmount != "1000000000000000000" {
		t.Errorf("TakerAmount = %s", data.TakerAmount)
	}
	if data.Taker != ZeroAddress {
		t.Errorf("Taker = %s, want zero address", data.Taker)
	}
	if data.FeeRateBps != "0" || data.Nonce != "0" || data.Expiration != "0" {
		t.Errorf("defaults not applied: fee=%s nonce=%s exp=%s", data.FeeRateBps, data.Nonce, data.Expiration)
	}
}

func TestBuildOrderCreationArgs_ZeroAmounts(t *testing.T) {
	maker := "0x1111111111111111111111111111111111111111"
	rc := RoundingConfig[types.TickSize001]

	// Zero size is not rejected at build time; it yields a zero-amount
	// order for the service to judge.
	data, err := BuildOrderCreationArgs(maker, maker, types.SignatureTypeEOA, &types.UserOrder{
		TokenID: "123",
		Price:   0.5,
		Size:    0,
		Side:    types.SideBuy,
	}, rc, 18)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if data.MakerAmount != "0" || data.TakerAmount != "0" {
		t.Errorf("amounts = %s/%s, want 0/0", data.MakerAmount, data.TakerAmount)
	}
}

// countingSigner records signing attempts without producing signatures.
type countingSigner struct {
	address common.Address
	calls   int
}

func (s *countingSigner) Address() common.Address { return s.address }

func (s *countingSigner) SignTypedData(apitypes.TypedData) ([]byte, error) {
	s.calls++
	return make([]byte, 65), nil
}

func TestOrderBuilder_SignerMismatch(t *testing.T) {
	wallet := &countingSigner{address: common.HexToAddress("0x1111111111111111111111111111111111111111")}
	ob := NewOrderBuilder(wallet, types.ChainBSC, BSCMainnetNetwork.Exchange)

	_, err := ob.BuildSignedOrder(&types.OrderData{
		Maker:  "0x2222222222222222222222222222222222222222",
		Signer: "0x2222222222222222222222222222222222222222",
	})
	if err == nil {
		t.Fatal("expected signer mismatch error")
	}
	if !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.calls != 0 {
		t.Fatalf("signing attempted %d times despite mismatch", wallet.calls)
	}
}

func TestOrderBuilder_SignerDefaultsToMaker(t *testing.T) {
	key := "0x" + strings.Repeat("11", 32)
	signer, err := signing.NewPrivateKeySigner(key)
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	ob := NewOrderBuilder(signer, types.ChainBSC, BSCMainnetNetwork.Exchange)
	ob.generateSalt = func() string { return "42" }

	order, err := ob.BuildOrder(&types.OrderData{
		Maker:         signer.Address().Hex(),
		Taker:         ZeroAddress,
		TokenID:       "123",
		MakerAmount:   "500000000000000000",
		TakerAmount:   "1000000000000000000",
		FeeRateBps:    "0",
		Nonce:         "0",
		Side:          types.SideBuy,
		SignatureType: types.SignatureTypeEOA,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if order.Signer != signer.Address().Hex() {
		t.Errorf("Signer = %s, want maker", order.Signer)
	}
	if order.Salt != "42" {
		t.Errorf("Salt = %s, want pinned value", order.Salt)
	}
	if order.Expiration != "0" {
		t.Errorf("Expiration = %s, want 0", order.Expiration)
	}
}

func TestGenerateOrderSalt_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[generateOrderSalt()] = true
	}
	if len(seen) < 2 {
		t.Fatal("salt does not vary")
	}
}
