package client

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/probbet/goprob/clob/types"
)

// ChainClient performs the on-chain reads and transactions around
// trading: collateral balances, token approvals and proxy wallets.
// privateKey may be nil, restricting the client to reads.
type ChainClient struct {
	client     *ethclient.Client
	network    *NetworkConfig
	privateKey *ecdsa.PrivateKey
	chainID    *big.Int

	erc20ABI   abi.ABI
	erc1155ABI abi.ABI
	factoryABI abi.ABI
}

// NewChainClient dials the RPC node of the given chain. rpcURL overrides
// the network default when non-empty.
func NewChainClient(rpcURL string, chainID types.Chain, privateKey *ecdsa.PrivateKey) (*ChainClient, error) {
	network, err := GetNetworkConfig(chainID)
	if err != nil {
		return nil, err
	}
	if rpcURL == "" {
		rpcURL = network.RPCURL
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial rpc node")
	}

	erc20ABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc20 abi")
	}
	erc1155ABI, err := abi.JSON(strings.NewReader(ERC1155ABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc1155 abi")
	}
	factoryABI, err := abi.JSON(strings.NewReader(ProxyFactoryABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse proxy factory abi")
	}

	return &ChainClient{
		client:     client,
		network:    network,
		privateKey: privateKey,
		chainID:    big.NewInt(int64(chainID)),
		erc20ABI:   erc20ABI,
		erc1155ABI: erc1155ABI,
		factoryABI: factoryABI,
	}, nil
}

// Close releases the RPC connection.
func (cc *ChainClient) Close() {
	if cc.client != nil {
		cc.client.Close()
	}
}

// from returns the transaction sender address.
func (cc *ChainClient) from() (common.Address, error) {
	if cc.privateKey == nil {
		return common.Address{}, errors.New("chain client is read-only: no private key")
	}
	return crypto.PubkeyToAddress(cc.privateKey.PublicKey), nil
}

// call runs a view function and unpacks the single result into out.
func (cc *ChainClient) call(ctx context.Context, contractABI abi.ABI, contract common.Address, method string, out any, args ...any) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return errors.Wrapf(err, "pack %s", method)
	}
	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return errors.Wrapf(err, "call %s", method)
	}
	if err := contractABI.UnpackIntoInterface(out, method, result); err != nil {
		return errors.Wrapf(err, "unpack %s result", method)
	}
	return nil
}

// sendTx builds, signs and submits a transaction calling method on the
// contract, returning the transaction hash. It does not wait for mining.
func (cc *ChainClient) sendTx(ctx context.Context, contractABI abi.ABI, contract common.Address, method string, args ...any) (common.Hash, error) {
	from, err := cc.from()
	if err != nil {
		return common.Hash{}, err
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "pack %s", method)
	}

	nonce, err := cc.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "fetch nonce")
	}
	gasPrice, err := cc.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "fetch gas price")
	}
	gasLimit, err := cc.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &contract,
		Data:  data,
		Value: big.NewInt(0),
	})
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "estimate gas for %s", method)
	}
	// Headroom against estimate drift between simulation and inclusion.
	gasLimit = gasLimit * 110 / 100

	tx := ethtypes.NewTransaction(nonce, contract, big.NewInt(0), gasLimit, gasPrice, data)
	signedTx, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(cc.chainID), cc.privateKey)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "sign transaction")
	}
	if err := cc.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, errors.Wrapf(err, "send %s transaction", method)
	}
	return signedTx.Hash(), nil
}

// WaitMined blocks until the transaction is included, then reports
// whether it succeeded.
func (cc *ChainClient) WaitMined(ctx context.Context, txHash common.Hash) (bool, error) {
	for {
		receipt, err := cc.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt.Status == ethtypes.ReceiptStatusSuccessful, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return false, errors.Wrap(err, "fetch receipt")
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}
