package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Network.ChainID != 56 {
		t.Fatalf("ChainID = %d, want 56", cfg.Network.ChainID)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_FileAndEnvPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
network:
  chain_id: 97
  rpc_url: https://file.example
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("RPC_URL", "https://env.example")
	t.Setenv("CHAIN_ID", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Network.ChainID != 97 {
		t.Fatalf("ChainID = %d, want file value 97", cfg.Network.ChainID)
	}
	if cfg.Network.RPCURL != "https://env.example" {
		t.Fatalf("RPCURL = %q, want env override", cfg.Network.RPCURL)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_InvalidAccountType(t *testing.T) {
	t.Setenv("WALLET_ACCOUNT_TYPE", "multisig")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid account type")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
