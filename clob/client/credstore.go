package client

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/probbet/goprob/clob/types"
	"github.com/probbet/goprob/pkg/secretstore"
)

// CredentialStore persists L2 API credentials between runs. Load returns
// (nil, nil) when no credentials are stored for the wallet.
type CredentialStore interface {
	Load(address string, chainID types.Chain) (*types.ApiKeyCreds, error)
	Save(address string, chainID types.Chain, creds *types.ApiKeyCreds) error
	Delete(address string, chainID types.Chain) error
}

func credKey(address string, chainID types.Chain) string {
	return "clob/apikey/" + strings.ToLower(address) + "/" + chainID.String()
}

// MemoryCredentialStore keeps credentials in memory only. Useful for
// tests and for callers that manage persistence themselves.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	creds map[string]types.ApiKeyCreds
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{creds: make(map[string]types.ApiKeyCreds)}
}

func (m *MemoryCredentialStore) Load(address string, chainID types.Chain) (*types.ApiKeyCreds, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.creds[credKey(address, chainID)]
	if !ok {
		return nil, nil
	}
	out := c
	return &out, nil
}

func (m *MemoryCredentialStore) Save(address string, chainID types.Chain, creds *types.ApiKeyCreds) error {
	if creds == nil {
		return errors.New("credstore: nil credentials")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[credKey(address, chainID)] = *creds
	return nil
}

func (m *MemoryCredentialStore) Delete(address string, chainID types.Chain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, credKey(address, chainID))
	return nil
}

// SecretCredentialStore persists credentials in an encrypted Badger store.
type SecretCredentialStore struct {
	store *secretstore.Store
}

func NewSecretCredentialStore(store *secretstore.Store) *SecretCredentialStore {
	return &SecretCredentialStore{store: store}
}

// OpenSecretCredentialStore opens the store at path with an optional
// encryption key parsed from hex or base64.
func OpenSecretCredentialStore(path, rawKey string) (*SecretCredentialStore, error) {
	key, err := secretstore.ParseKey(rawKey)
	if err != nil {
		return nil, errors.Wrap(err, "credstore: parse encryption key")
	}
	store, err := secretstore.Open(secretstore.OpenOptions{Path: path, EncryptionKey: key})
	if err != nil {
		return nil, errors.Wrap(err, "credstore: open secret store")
	}
	return &SecretCredentialStore{store: store}, nil
}

func (s *SecretCredentialStore) Load(address string, chainID types.Chain) (*types.ApiKeyCreds, error) {
	raw, found, err := s.store.GetString(credKey(address, chainID))
	if err != nil {
		return nil, errors.Wrap(err, "credstore: load")
	}
	if !found {
		return nil, nil
	}
	var creds types.ApiKeyCreds
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, errors.Wrap(err, "credstore: decode stored credentials")
	}
	return &creds, nil
}

func (s *SecretCredentialStore) Save(address string, chainID types.Chain, creds *types.ApiKeyCreds) error {
	if creds == nil {
		return errors.New("credstore: nil credentials")
	}
	raw, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "credstore: encode credentials")
	}
	return errors.Wrap(s.store.SetString(credKey(address, chainID), string(raw)), "credstore: save")
}

func (s *SecretCredentialStore) Delete(address string, chainID types.Chain) error {
	return errors.Wrap(s.store.Delete(credKey(address, chainID)), "credstore: delete")
}

func (s *SecretCredentialStore) Close() error {
	return s.store.Close()
}
