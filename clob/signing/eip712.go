package signing

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/probbet/goprob/clob/types"
)

// ClobAuthTypedData assembles the auth-challenge message for the given
// wallet address. The domain has no verifying contract; the challenge is
// scoped by chain id, timestamp and nonce.
func ClobAuthTypedData(address string, chainID types.Chain, timestamp int64, nonce int64) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
			},
			"ClobAuth": {
				{Name: "address", Type: "address"},
				{Name: "timestamp", Type: "string"},
				{Name: "nonce", Type: "uint256"},
				{Name: "message", Type: "string"},
			},
		},
		PrimaryType: "ClobAuth",
		Domain: apitypes.TypedDataDomain{
			Name:    ClobDomainName,
			Version: ClobVersion,
			ChainId: math.NewHexOrDecimal256(int64(chainID)),
		},
		Message: map[string]interface{}{
			"address":   address,
			"timestamp": strconv.FormatInt(timestamp, 10),
			"nonce":     big.NewInt(nonce),
			"message":   MsgToSign,
		},
	}
}

// BuildClobEip712Signature signs the canonical auth challenge with the
// wallet and returns the 0x-prefixed hex signature.
func BuildClobEip712Signature(signer Signer, chainID types.Chain, timestamp int64, nonce int64) (string, error) {
	typedData := ClobAuthTypedData(signer.Address().Hex(), chainID, timestamp, nonce)
	sig, err := signer.SignTypedData(typedData)
	if err != nil {
		return "", fmt.Errorf("sign auth challenge: %w", err)
	}
	return hexutil.Encode(sig), nil
}
