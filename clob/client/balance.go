package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CollateralBalanceOf reads the USDT balance of an address in whole
// token units.
func (cc *ChainClient) CollateralBalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	var raw *big.Int
	err := cc.call(ctx, cc.erc20ABI, common.HexToAddress(cc.network.Collateral), "balanceOf",
		&raw, common.HexToAddress(address))
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(raw, -int32(cc.network.CollateralDecimals)), nil
}

// CollateralDecimals reads the token's decimals from chain. The network
// config carries the expected value; this confirms it against the
// deployed contract.
func (cc *ChainClient) CollateralDecimals(ctx context.Context) (uint8, error) {
	var decimals uint8
	err := cc.call(ctx, cc.erc20ABI, common.HexToAddress(cc.network.Collateral), "decimals", &decimals)
	return decimals, err
}

// OutcomeBalanceOf reads the conditional-token balance of one outcome
// position, in whole units.
func (cc *ChainClient) OutcomeBalanceOf(ctx context.Context, address, tokenID string) (decimal.Decimal, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return decimal.Zero, errors.Errorf("invalid token id: %q", tokenID)
	}
	var raw *big.Int
	err := cc.call(ctx, cc.erc1155ABI, common.HexToAddress(cc.network.ConditionalTokens), "balanceOf",
		&raw, common.HexToAddress(address), id)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(raw, -int32(cc.network.CollateralDecimals)), nil
}

// CollateralBalance reads the collateral balance of the given address
// through the client's chain connection, when one is configured.
func (c *Client) CollateralBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if c.chain == nil {
		return decimal.Zero, errors.New("no chain client configured: balance checks need an rpc connection")
	}
	return c.chain.CollateralBalanceOf(ctx, address)
}
