package signing

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/probbet/goprob/clob/types"
)

// CreateL1Headers builds the one-time wallet-ownership proof used to mint
// API credentials. Timestamp defaults to now and nonce to 0; both may be
// pinned for deterministic tests.
func CreateL1Headers(signer Signer, chainID types.Chain, nonce *int64, timestamp *int64) (*types.L1ProbHeader, error) {
	ts := time.Now().Unix()
	if timestamp != nil {
		ts = *timestamp
	}
	var n int64
	if nonce != nil {
		n = *nonce
	}

	sig, err := BuildClobEip712Signature(signer, chainID, ts, n)
	if err != nil {
		return nil, fmt.Errorf("build L1 signature: %w", err)
	}

	return &types.L1ProbHeader{
		ProbAddress:   signer.Address().Hex(),
		ProbSignature: sig,
		ProbTimestamp: strconv.FormatInt(ts, 10),
		ProbNonce:     strconv.FormatInt(n, 10),
	}, nil
}

// CreateL2Headers builds the per-request HMAC proof. The account type must
// match the signature type the order was built with: EOA mode resolves the
// trading identity to the signing address, proxy mode to the funder.
func CreateL2Headers(
	address common.Address,
	creds *types.ApiKeyCreds,
	args *types.L2HeaderArgs,
	accountType types.AccountType,
	timestamp *int64,
) (*types.L2ProbHeader, error) {
	if creds == nil {
		return nil, fmt.Errorf("api credentials are not set")
	}

	ts := time.Now().Unix()
	if timestamp != nil {
		ts = *timestamp
	}

	sig, err := BuildHmacSignature(creds.Secret, ts, args.Method, args.RequestPath, args.Body)
	if err != nil {
		return nil, fmt.Errorf("build L2 signature: %w", err)
	}

	return &types.L2ProbHeader{
		ProbAddress:    address.Hex(),
		ProbSignature:  sig,
		ProbTimestamp:  strconv.FormatInt(ts, 10),
		ProbAPIKey:     creds.Key,
		ProbPassphrase: creds.Passphrase,
		AccountType:    accountType,
	}, nil
}
