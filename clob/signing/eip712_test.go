package signing

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/probbet/goprob/clob/types"
)

const testKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func testSigner(t *testing.T) *PrivateKeySigner {
	t.Helper()
	signer, err := NewPrivateKeySigner(testKey)
	if err != nil {
		t.Fatalf("parse test key: %v", err)
	}
	return signer
}

// recoverSigner recovers the address from a 65-byte r||s||v signature
// with v in {27, 28}.
func recoverSigner(t *testing.T, typedData apitypes.TypedData, sigHex string) string {
	t.Helper()
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature length %d, want 65", len(sig))
	}
	if sig[64] != 27 && sig[64] != 28 {
		t.Fatalf("v = %d, want 27 or 28", sig[64])
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		t.Fatalf("hash typed data: %v", err)
	}
	recSig := make([]byte, 65)
	copy(recSig, sig)
	recSig[64] -= 27
	pub, err := crypto.SigToPub(hash, recSig)
	if err != nil {
		t.Fatalf("recover pubkey: %v", err)
	}
	return crypto.PubkeyToAddress(*pub).Hex()
}

func TestBuildClobEip712Signature_RecoversSigner(t *testing.T) {
	signer := testSigner(t)

	sigHex, err := BuildClobEip712Signature(signer, types.ChainBSC, 1700000000, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	typedData := ClobAuthTypedData(signer.Address().Hex(), types.ChainBSC, 1700000000, 0)
	recovered := recoverSigner(t, typedData, sigHex)
	if recovered != signer.Address().Hex() {
		t.Fatalf("recovered %s, want %s", recovered, signer.Address().Hex())
	}
}

func TestBuildClobEip712Signature_Deterministic(t *testing.T) {
	signer := testSigner(t)

	a, err := BuildClobEip712Signature(signer, types.ChainBSC, 1700000000, 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, err := BuildClobEip712Signature(signer, types.ChainBSC, 1700000000, 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a != b {
		t.Fatalf("same challenge signed differently: %s vs %s", a, b)
	}

	// Different nonce, different digest.
	c, err := BuildClobEip712Signature(signer, types.ChainBSC, 1700000000, 8)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a == c {
		t.Fatal("different nonces produced the same signature")
	}
}

func TestSignTypedData_NormalizesV(t *testing.T) {
	signer := testSigner(t)
	typedData := ClobAuthTypedData(signer.Address().Hex(), types.ChainBSC, 1700000000, 0)

	sig, err := signer.SignTypedData(typedData)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sig[64] != 27 && sig[64] != 28 {
		t.Fatalf("v = %d, want 27 or 28", sig[64])
	}

	again, err := signer.SignTypedData(typedData)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !bytes.Equal(sig, again) {
		t.Fatal("signing is not deterministic")
	}
}

func TestCreateL1Headers(t *testing.T) {
	signer := testSigner(t)
	ts := int64(1700000000)
	nonce := int64(3)

	headers, err := CreateL1Headers(signer, types.ChainBSC, &nonce, &ts)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	m := headers.Map()
	if m["PROB_ADDRESS"] != signer.Address().Hex() {
		t.Fatalf("PROB_ADDRESS = %q", m["PROB_ADDRESS"])
	}
	if m["PROB_TIMESTAMP"] != "1700000000" {
		t.Fatalf("PROB_TIMESTAMP = %q", m["PROB_TIMESTAMP"])
	}
	if m["PROB_NONCE"] != "3" {
		t.Fatalf("PROB_NONCE = %q", m["PROB_NONCE"])
	}

	typedData := ClobAuthTypedData(signer.Address().Hex(), types.ChainBSC, ts, nonce)
	recovered := recoverSigner(t, typedData, m["PROB_SIGNATURE"])
	if recovered != signer.Address().Hex() {
		t.Fatalf("recovered %s, want %s", recovered, signer.Address().Hex())
	}
}

func TestCreateL2Headers(t *testing.T) {
	signer := testSigner(t)
	creds := &types.ApiKeyCreds{
		Key:        "key-1",
		Secret:     "c2VjcmV0LXNlY3JldC1zZWNyZXQtc2VjcmV0ISE=",
		Passphrase: "pass-1",
	}
	ts := int64(1700000000)

	headers, err := CreateL2Headers(signer.Address(), creds, &types.L2HeaderArgs{
		Method:      "GET",
		RequestPath: "/public/api/v1/orders/56/open?limit=100&page=1",
	}, types.AccountTypeProxy, &ts)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	m := headers.Map()
	if m["prob_api_key"] != "key-1" || m["prob_passphrase"] != "pass-1" {
		t.Fatalf("credentials not propagated: %v", m)
	}
	if _, ok := m["PROB_ACCOUNT_TYPE"]; ok {
		t.Fatal("proxy mode must not send PROB_ACCOUNT_TYPE")
	}

	eoa, err := CreateL2Headers(signer.Address(), creds, &types.L2HeaderArgs{
		Method:      "GET",
		RequestPath: "/x",
	}, types.AccountTypeEOA, &ts)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if eoa.Map()["PROB_ACCOUNT_TYPE"] != "eoa" {
		t.Fatal("eoa mode must send PROB_ACCOUNT_TYPE=eoa")
	}
}

func TestCreateL2Headers_NilCreds(t *testing.T) {
	signer := testSigner(t)
	_, err := CreateL2Headers(signer.Address(), nil, &types.L2HeaderArgs{Method: "GET", RequestPath: "/x"}, types.AccountTypeProxy, nil)
	if err == nil {
		t.Fatal("expected error for nil credentials")
	}
}
