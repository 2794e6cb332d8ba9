package client

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/probbet/goprob/clob/signing"
	"github.com/probbet/goprob/clob/types"
)

// RoundConfig gives the decimal precision of price, size and the derived
// maker/taker amounts for one tick size.
type RoundConfig struct {
	Price  int
	Size   int
	Amount int
}

// RoundingConfig maps each canonical tick size to its precision set.
var RoundingConfig = map[types.TickSize]RoundConfig{
	types.TickSize01:    {Price: 1, Size: 2, Amount: 3},
	types.TickSize001:   {Price: 2, Size: 2, Amount: 4},
	types.TickSize0001:  {Price: 3, Size: 2, Amount: 5},
	types.TickSize00001: {Price: 4, Size: 2, Amount: 6},
}

// floatEpsilon is 2^-52, the gap between 1 and the next float64. Added
// before rounding-to-nearest to counter binary representation error
// (0.145*100 is 14.499999... without it).
var floatEpsilon = math.Nextafter(1, 2) - 1

// decimalPlaces returns the number of decimal places of num as formatted
// in shortest round-trip form.
func decimalPlaces(num float64) int {
	if num == math.Trunc(num) {
		return 0
	}
	s := strconv.FormatFloat(num, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// roundNormal rounds half away from zero to the given decimal places.
// Inputs already within the target precision pass through untouched.
func roundNormal(num float64, decimals int) float64 {
	if decimalPlaces(num) <= decimals {
		return num
	}
	multiplier := math.Pow(10, float64(decimals))
	return math.Round((num+floatEpsilon)*multiplier) / multiplier
}

// roundDown floors to the given decimal places. Inputs here are
// non-negative prices and sizes, so floor and truncation agree.
func roundDown(num float64, decimals int) float64 {
	if decimalPlaces(num) <= decimals {
		return num
	}
	multiplier := math.Pow(10, float64(decimals))
	return math.Floor(num*multiplier) / multiplier
}

// roundUp rounds away from zero to the given decimal places.
func roundUp(num float64, decimals int) float64 {
	if decimalPlaces(num) <= decimals {
		return num
	}
	multiplier := math.Pow(10, float64(decimals))
	return math.Ceil(num*multiplier) / multiplier
}

// GetOrderRawAmounts derives the maker and taker amounts from a trade
// intent. The size leg is rounded down to the size precision; the derived
// collateral leg is the product with the rounded price, corrected in two
// stages when the product exceeds the amount precision: round up with four
// guard places first (never silently underpay), then round down to the
// exact budget if still over.
func GetOrderRawAmounts(side types.Side, size, price float64, rc RoundConfig) (rawMakerAmt, rawTakerAmt float64, err error) {
	rawPrice := roundNormal(price, rc.Price)

	switch side {
	case types.SideBuy:
		// BUY: taker leg is the tokens bought, maker leg the collateral paid.
		rawTakerAmt = roundDown(size, rc.Size)
		rawMakerAmt = rawTakerAmt * rawPrice
		if decimalPlaces(rawMakerAmt) > rc.Amount {
			rawMakerAmt = roundUp(rawMakerAmt, rc.Amount+4)
			if decimalPlaces(rawMakerAmt) > rc.Amount {
				rawMakerAmt = roundDown(rawMakerAmt, rc.Amount)
			}
		}
	case types.SideSell:
		// SELL: maker leg is the tokens sold, taker leg the collateral received.
		rawMakerAmt = roundDown(size, rc.Size)
		rawTakerAmt = rawMakerAmt * rawPrice
		if decimalPlaces(rawTakerAmt) > rc.Amount {
			rawTakerAmt = roundUp(rawTakerAmt, rc.Amount+4)
			if decimalPlaces(rawTakerAmt) > rc.Amount {
				rawTakerAmt = roundDown(rawTakerAmt, rc.Amount)
			}
		}
	default:
		return 0, 0, fmt.Errorf("unknown order side: %q", string(side))
	}

	return rawMakerAmt, rawTakerAmt, nil
}

// parseUnits converts a decimal amount to the collateral token's
// fixed-point integer representation, truncating any residual places.
func parseUnits(value float64, decimals int) *big.Int {
	return decimal.NewFromFloat(value).Shift(int32(decimals)).Truncate(0).BigInt()
}

// BuildOrderCreationArgs converts a trade intent into the exact order
// fields submitted for signing. Zero price or size yields a zero-amount
// order; rejecting economically meaningless orders is the caller's call.
func BuildOrderCreationArgs(
	signer string,
	maker string,
	signatureType types.SignatureType,
	userOrder *types.UserOrder,
	rc RoundConfig,
	collateralDecimals int,
) (*types.OrderData, error) {
	rawMakerAmt, rawTakerAmt, err := GetOrderRawAmounts(userOrder.Side, userOrder.Size, userOrder.Price, rc)
	if err != nil {
		return nil, err
	}

	taker := ZeroAddress
	if userOrder.Taker != nil && *userOrder.Taker != "" {
		taker = *userOrder.Taker
	}

	feeRateBps := "0"
	if userOrder.FeeRateBps != nil && *userOrder.FeeRateBps != 0 {
		feeRateBps = strconv.Itoa(*userOrder.FeeRateBps)
	}

	nonce := "0"
	if userOrder.Nonce != nil && *userOrder.Nonce != 0 {
		nonce = strconv.FormatInt(*userOrder.Nonce, 10)
	}

	var expiration int64
	if userOrder.Expiration != nil {
		expiration = *userOrder.Expiration
	}

	return &types.OrderData{
		Maker:         maker,
		Taker:         taker,
		TokenID:       userOrder.TokenID,
		MakerAmount:   parseUnits(rawMakerAmt, collateralDecimals).String(),
		TakerAmount:   parseUnits(rawTakerAmt, collateralDecimals).String(),
		Side:          userOrder.Side,
		FeeRateBps:    feeRateBps,
		Nonce:         nonce,
		Signer:        signer,
		Expiration:    strconv.FormatInt(expiration, 10),
		SignatureType: signatureType,
	}, nil
}

// generateOrderSalt produces the uniqueness salt: a random number scaled
// by the current time. Not cryptographically secure; it only keeps
// identical orders distinct on chain.
func generateOrderSalt() string {
	return strconv.FormatInt(int64(rand.Float64()*float64(time.Now().UnixMilli())), 10)
}

// OrderBuilder assembles and signs exchange orders for one wallet.
type OrderBuilder struct {
	signer          signing.Signer
	chainID         types.Chain
	exchangeAddress string
	generateSalt    func() string
}

// NewOrderBuilder creates a builder signing against the given exchange.
func NewOrderBuilder(signer signing.Signer, chainID types.Chain, exchangeAddress string) *OrderBuilder {
	return &OrderBuilder{
		signer:          signer,
		chainID:         chainID,
		exchangeAddress: exchangeAddress,
		generateSalt:    generateOrderSalt,
	}
}

// BuildOrder attaches the salt and resolves defaults. The signer field
// must match the wallet's own address; a mismatch fails here, before any
// signing attempt.
func (ob *OrderBuilder) BuildOrder(data *types.OrderData) (*types.Order, error) {
	signer := data.Signer
	if signer == "" {
		signer = data.Maker
	}
	if !strings.EqualFold(signer, ob.signer.Address().Hex()) {
		return nil, fmt.Errorf("order signer %s does not match wallet address %s", signer, ob.signer.Address().Hex())
	}

	expiration := data.Expiration
	if expiration == "" {
		expiration = "0"
	}

	return &types.Order{
		Salt:          ob.generateSalt(),
		Maker:         data.Maker,
		Signer:        signer,
		Taker:         data.Taker,
		TokenID:       data.TokenID,
		MakerAmount:   data.MakerAmount,
		TakerAmount:   data.TakerAmount,
		Expiration:    expiration,
		Nonce:         data.Nonce,
		FeeRateBps:    data.FeeRateBps,
		Side:          data.Side,
		SignatureType: data.SignatureType,
	}, nil
}

// BuildSignedOrder builds the order and signs it with the wallet.
func (ob *OrderBuilder) BuildSignedOrder(data *types.OrderData) (*types.SignedOrder, error) {
	order, err := ob.BuildOrder(data)
	if err != nil {
		return nil, err
	}
	signature, err := signing.BuildOrderSignature(ob.signer, ob.chainID, ob.exchangeAddress, order)
	if err != nil {
		return nil, fmt.Errorf("sign order: %w", err)
	}
	return &types.SignedOrder{Order: *order, Signature: signature}, nil
}
