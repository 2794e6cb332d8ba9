package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the trading client. Values come
// from an optional YAML file with environment variables taking priority,
// so secrets can live in the environment (or a .env file) while the rest
// sits in version-controlled YAML.
type Config struct {
	Wallet  WalletConfig  `yaml:"wallet"`
	Network NetworkConfig `yaml:"network"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
}

type WalletConfig struct {
	// PrivateKey is the signing key, hex with or without 0x prefix.
	// Env: WALLET_PRIVATE_KEY. Never put this in the YAML file.
	PrivateKey string `yaml:"-"`
	// Funder is the proxy wallet address holding collateral. Empty
	// defaults to the signing address. Env: WALLET_FUNDER_ADDRESS.
	Funder string `yaml:"funder"`
	// AccountType is "" for proxy mode or "eoa". Env: WALLET_ACCOUNT_TYPE.
	AccountType string `yaml:"account_type"`
}

type NetworkConfig struct {
	// ChainID selects the deployment. Env: CHAIN_ID. Default 56.
	ChainID int `yaml:"chain_id"`
	// RPCURL overrides the default RPC node. Env: RPC_URL.
	RPCURL string `yaml:"rpc_url"`
	// EntryService and MarketService override the service hosts,
	// mainly for testing. Env: ENTRY_SERVICE, MARKET_SERVICE.
	EntryService  string `yaml:"entry_service"`
	MarketService string `yaml:"market_service"`
}

type StoreConfig struct {
	// Path is the credential store directory. Env: CRED_STORE_PATH.
	// Empty keeps credentials in memory only.
	Path string `yaml:"path"`
	// EncryptionKey encrypts the store at rest, 32 bytes hex or base64.
	// Env: CRED_STORE_KEY. Never put this in the YAML file.
	EncryptionKey string `yaml:"-"`
}

type LogConfig struct {
	Level      string `yaml:"level"`       // Env: LOG_LEVEL
	OutputFile string `yaml:"output_file"` // Env: LOG_FILE
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Load reads the YAML file when path is non-empty, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Wallet.PrivateKey = getEnv("WALLET_PRIVATE_KEY", c.Wallet.PrivateKey)
	c.Wallet.Funder = getEnv("WALLET_FUNDER_ADDRESS", c.Wallet.Funder)
	c.Wallet.AccountType = getEnv("WALLET_ACCOUNT_TYPE", c.Wallet.AccountType)

	c.Network.ChainID = parseIntEnv("CHAIN_ID", c.Network.ChainID)
	c.Network.RPCURL = getEnv("RPC_URL", c.Network.RPCURL)
	c.Network.EntryService = getEnv("ENTRY_SERVICE", c.Network.EntryService)
	c.Network.MarketService = getEnv("MARKET_SERVICE", c.Network.MarketService)

	c.Store.Path = getEnv("CRED_STORE_PATH", c.Store.Path)
	c.Store.EncryptionKey = getEnv("CRED_STORE_KEY", c.Store.EncryptionKey)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.OutputFile = getEnv("LOG_FILE", c.Log.OutputFile)
}

func (c *Config) applyDefaults() {
	if c.Network.ChainID == 0 {
		c.Network.ChainID = 56
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Wallet.AccountType) {
	case "", "eoa":
	default:
		return fmt.Errorf("invalid account_type %q: must be empty or \"eoa\"", c.Wallet.AccountType)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
