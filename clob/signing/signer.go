package signing

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Signer is the wallet capability the signing layer depends on: an address
// and the ability to produce EIP-712 signatures. Test doubles implement
// this directly instead of mocking a wallet SDK.
type Signer interface {
	Address() common.Address
	SignTypedData(typedData apitypes.TypedData) ([]byte, error)
}

// PrivateKeySigner signs with a raw secp256k1 key held in memory.
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewPrivateKeySigner parses a hex private key, with or without 0x prefix.
func NewPrivateKeySigner(hexKey string) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewPrivateKeySignerFromKey(key), nil
}

// NewPrivateKeySignerFromKey wraps an already-parsed key.
func NewPrivateKeySignerFromKey(key *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// SignTypedData hashes the typed data per EIP-712 and signs the digest.
// The returned signature is 65 bytes, r||s||v with v in {27, 28}.
func (s *PrivateKeySigner) SignTypedData(typedData apitypes.TypedData) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("hash typed data: %w", err)
	}
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, fmt.Errorf("sign typed data: %w", err)
	}
	if sig[64] < 27 {
		sig[64] += 27
	}
	return sig, nil
}

// Key exposes the underlying key for transaction signing in the on-chain
// helpers. Order signing goes through SignTypedData only.
func (s *PrivateKeySigner) Key() *ecdsa.PrivateKey {
	return s.key
}
