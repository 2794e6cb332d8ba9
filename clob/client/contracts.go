package client

import (
	"fmt"

	"github.com/probbet/goprob/clob/types"
)

// NetworkConfig describes the contracts and service hosts of a Probable
// deployment.
type NetworkConfig struct {
	Name               string
	RPCURL             string
	EntryService       string
	MarketService      string
	ProxyFactory       string
	Collateral         string // USDT
	ConditionalTokens  string // ERC1155 CTF token
	Exchange           string // CTF exchange, verifying contract of the order schema
	CollateralDecimals int
}

// BSCMainnetNetwork is the production deployment.
var BSCMainnetNetwork = NetworkConfig{
	Name:               "BSC Mainnet",
	RPCURL:             "https://bsc-dataseed1.binance.org/",
	EntryService:       "https://api.probable.markets",
	MarketService:      "https://market-api.probable.markets",
	ProxyFactory:       "0xB99159aBF0bF59a512970586F38292f8b9029924",
	Collateral:         "0x55d398326f99059fF775485246999027B3197955",
	ConditionalTokens:  "0x364d05055614B506e2b9A287E4ac34167204cA83",
	Exchange:           "0xF99F5367ce708c66F0860B77B4331301A5597c86",
	CollateralDecimals: 18,
}

// GetNetworkConfig returns the deployment for a chain id.
func GetNetworkConfig(chainID types.Chain) (*NetworkConfig, error) {
	switch chainID {
	case types.ChainBSC:
		cfg := BSCMainnetNetwork
		return &cfg, nil
	default:
		return nil, fmt.Errorf("unsupported chain id: %d", chainID)
	}
}

// ZeroAddress is the "any taker may fill" sentinel.
const ZeroAddress = "0x0000000000000000000000000000000000000000"
