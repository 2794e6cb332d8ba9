package signing

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/probbet/goprob/clob/types"
)

// OrderTypedData assembles the exchange order schema for signing. The
// verifying contract is the CTF exchange the order settles against.
func OrderTypedData(order *types.Order, chainID types.Chain, exchangeAddress string) (apitypes.TypedData, error) {
	side, err := order.Side.Uint8()
	if err != nil {
		return apitypes.TypedData{}, err
	}

	msg := map[string]interface{}{
		"maker":         common.HexToAddress(order.Maker).Hex(),
		"signer":        common.HexToAddress(order.Signer).Hex(),
		"taker":         common.HexToAddress(order.Taker).Hex(),
		"side":          big.NewInt(int64(side)),
		"signatureType": big.NewInt(int64(order.SignatureType)),
	}
	for field, raw := range map[string]string{
		"salt":        order.Salt,
		"tokenId":     order.TokenID,
		"makerAmount": order.MakerAmount,
		"takerAmount": order.TakerAmount,
		"expiration":  order.Expiration,
		"nonce":       order.Nonce,
		"feeRateBps":  order.FeeRateBps,
	} {
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return apitypes.TypedData{}, fmt.Errorf("order field %s is not a base-10 integer: %q", field, raw)
		}
		msg[field] = v
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": {
				{Name: "salt", Type: "uint256"},
				{Name: "maker", Type: "address"},
				{Name: "signer", Type: "address"},
				{Name: "taker", Type: "address"},
				{Name: "tokenId", Type: "uint256"},
				{Name: "makerAmount", Type: "uint256"},
				{Name: "takerAmount", Type: "uint256"},
				{Name: "expiration", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "feeRateBps", Type: "uint256"},
				{Name: "side", Type: "uint8"},
				{Name: "signatureType", Type: "uint8"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              ExchangeDomainName,
			Version:           ProtocolVersion,
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: exchangeAddress,
		},
		Message: msg,
	}, nil
}

// BuildOrderSignature signs the order with the wallet and returns the
// 0x-prefixed hex signature.
func BuildOrderSignature(signer Signer, chainID types.Chain, exchangeAddress string, order *types.Order) (string, error) {
	typedData, err := OrderTypedData(order, chainID, exchangeAddress)
	if err != nil {
		return "", fmt.Errorf("assemble order typed data: %w", err)
	}
	sig, err := signer.SignTypedData(typedData)
	if err != nil {
		return "", fmt.Errorf("sign order: %w", err)
	}
	return hexutil.Encode(sig), nil
}
