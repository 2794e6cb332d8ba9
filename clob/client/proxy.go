package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

const proxyFactoryDomainName = "Probable Contract Proxy Factory"

// ProxyWallet is the state of a user's deterministic proxy wallet.
type ProxyWallet struct {
	Address common.Address
	Exists  bool
	TxHash  common.Hash
}

// ComputeProxyAddress asks the factory for the deterministic proxy
// address of a user. The address exists before the proxy is deployed.
func (cc *ChainClient) ComputeProxyAddress(ctx context.Context, user string) (common.Address, error) {
	var proxy common.Address
	err := cc.call(ctx, cc.factoryABI, common.HexToAddress(cc.network.ProxyFactory), "computeProxyAddress",
		&proxy, common.HexToAddress(user))
	return proxy, err
}

// CheckProxyWallet resolves the proxy address and whether code is
// deployed there yet.
func (cc *ChainClient) CheckProxyWallet(ctx context.Context, user string) (*ProxyWallet, error) {
	proxy, err := cc.ComputeProxyAddress(ctx, user)
	if err != nil {
		return nil, err
	}
	code, err := cc.client.CodeAt(ctx, proxy, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch proxy code")
	}
	return &ProxyWallet{Address: proxy, Exists: len(code) > 0}, nil
}

// createProxySig is the factory's createSig tuple.
type createProxySig struct {
	V uint8    `abi:"v"`
	R [32]byte `abi:"r"`
	S [32]byte `abi:"s"`
}

// signCreateProxy produces the factory's CreateProxy authorization over
// the payment terms, split into v/r/s.
func (cc *ChainClient) signCreateProxy(paymentToken common.Address, payment *big.Int, paymentReceiver common.Address) (createProxySig, error) {
	if cc.privateKey == nil {
		return createProxySig{}, errors.New("chain client is read-only: no private key")
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"CreateProxy": {
				{Name: "paymentToken", Type: "address"},
				{Name: "payment", Type: "uint256"},
				{Name: "paymentReceiver", Type: "address"},
			},
		},
		PrimaryType: "CreateProxy",
		Domain: apitypes.TypedDataDomain{
			Name:              proxyFactoryDomainName,
			ChainId:           math.NewHexOrDecimal256(cc.chainID.Int64()),
			VerifyingContract: cc.network.ProxyFactory,
		},
		Message: apitypes.TypedDataMessage{
			"paymentToken":    paymentToken.Hex(),
			"payment":         payment,
			"paymentReceiver": paymentReceiver.Hex(),
		},
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return createProxySig{}, errors.Wrap(err, "hash CreateProxy typed data")
	}
	sig, err := crypto.Sign(hash, cc.privateKey)
	if err != nil {
		return createProxySig{}, errors.Wrap(err, "sign CreateProxy")
	}

	out := createProxySig{V: sig[64]}
	if out.V < 27 {
		out.V += 27
	}
	copy(out.R[:], sig[0:32])
	copy(out.S[:], sig[32:64])
	return out, nil
}

// CreateProxyWallet deploys the caller's proxy wallet through the
// factory with zero payment terms, waiting for the deployment to mine.
// Idempotent: an already-deployed proxy is returned as-is.
func (cc *ChainClient) CreateProxyWallet(ctx context.Context) (*ProxyWallet, error) {
	from, err := cc.from()
	if err != nil {
		return nil, err
	}

	existing, err := cc.CheckProxyWallet(ctx, from.Hex())
	if err != nil {
		return nil, err
	}
	if existing.Exists {
		return existing, nil
	}

	paymentToken := common.HexToAddress(ZeroAddress)
	payment := big.NewInt(0)
	paymentReceiver := common.HexToAddress(ZeroAddress)

	sig, err := cc.signCreateProxy(paymentToken, payment, paymentReceiver)
	if err != nil {
		return nil, err
	}

	txHash, err := cc.sendTx(ctx, cc.factoryABI, common.HexToAddress(cc.network.ProxyFactory),
		"createProxy", paymentToken, payment, paymentReceiver, sig)
	if err != nil {
		return nil, err
	}
	ok, err := cc.WaitMined(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("createProxy transaction %s reverted", txHash)
	}

	return &ProxyWallet{Address: existing.Address, Exists: true, TxHash: txHash}, nil
}
