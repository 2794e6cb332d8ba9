package client

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/probbet/goprob/clob/signing"
	"github.com/probbet/goprob/clob/types"
	"github.com/probbet/goprob/pkg/cache"
	"github.com/probbet/goprob/pkg/logger"
	"github.com/probbet/goprob/pkg/ratelimit"
)

// Client talks to the Probable entry and market services for one wallet.
// L1 operations need a signer; L2 operations additionally need API
// credentials, minted on demand via CreateOrLoadAPIKey.
type Client struct {
	chainID types.Chain
	network *NetworkConfig

	signer      signing.Signer
	accountType types.AccountType
	funder      string // maker address for proxy mode, signer address otherwise

	creds     *types.ApiKeyCreds
	credStore CredentialStore

	entry       *httpClient
	market      *httpClient
	chain       *ChainClient
	limiter     *ratelimit.Manager
	marketCache *cache.InMemoryCache[string, *types.MarketsResponse]

	builder *OrderBuilder
	log     *logrus.Entry
}

// Options tunes optional client behaviour.
type Options struct {
	// AccountType selects EOA or proxy account mode. Default is proxy.
	AccountType types.AccountType
	// Funder is the proxy wallet address holding collateral. Ignored in
	// EOA mode; defaults to the signer address when empty.
	Funder string
	// Creds seeds L2 credentials directly, skipping the bootstrap flow.
	Creds *types.ApiKeyCreds
	// CredStore persists minted credentials. Defaults to in-memory only.
	CredStore CredentialStore
	// EntryService and MarketService override the network's service hosts.
	EntryService  string
	MarketService string
	// Chain enables on-chain reads such as pre-flight balance checks.
	Chain *ChainClient
}

// NewClient builds a client for the given chain. signer may be nil for a
// read-only client limited to public market data.
func NewClient(chainID types.Chain, signer signing.Signer, opts *Options) (*Client, error) {
	network, err := GetNetworkConfig(chainID)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.EntryService != "" {
		network.EntryService = opts.EntryService
	}
	if opts.MarketService != "" {
		network.MarketService = opts.MarketService
	}

	c := &Client{
		chainID:     chainID,
		network:     network,
		signer:      signer,
		accountType: opts.AccountType,
		creds:       opts.Creds,
		credStore:   opts.CredStore,
		entry:       newHTTPClient(network.EntryService),
		market:      newHTTPClient(network.MarketService),
		chain:       opts.Chain,
		limiter:     ratelimit.NewManager(),
		marketCache: cache.NewInMemoryCache[string, *types.MarketsResponse](30 * time.Second),
		log:         logger.WithField("component", "clob"),
	}
	if c.credStore == nil {
		c.credStore = NewMemoryCredentialStore()
	}

	if signer != nil {
		c.funder = signer.Address().Hex()
		if opts.AccountType != types.AccountTypeEOA && opts.Funder != "" {
			c.funder = opts.Funder
		}
		c.builder = NewOrderBuilder(signer, chainID, network.Exchange)
	}
	return c, nil
}

// Network returns the resolved deployment config.
func (c *Client) Network() *NetworkConfig {
	return c.network
}

// Address returns the signing wallet address, or the zero address for a
// read-only client.
func (c *Client) Address() common.Address {
	if c.signer == nil {
		return common.Address{}
	}
	return c.signer.Address()
}

// signatureType derives the order signature type from the account mode.
func (c *Client) signatureType() types.SignatureType {
	if c.accountType == types.AccountTypeEOA {
		return types.SignatureTypeEOA
	}
	return types.SignatureTypeProbProxy
}

// canL1Auth reports whether wallet-signed operations are possible.
func (c *Client) canL1Auth() error {
	if c.signer == nil {
		return errors.New("operation requires a signer: client is read-only")
	}
	return nil
}

// canL2Auth reports whether credentialed operations are possible.
func (c *Client) canL2Auth() error {
	if err := c.canL1Auth(); err != nil {
		return err
	}
	if c.creds == nil {
		return errors.New("operation requires api credentials: call CreateOrLoadAPIKey first")
	}
	return nil
}

// SetApiCreds installs L2 credentials directly.
func (c *Client) SetApiCreds(creds *types.ApiKeyCreds) {
	c.creds = creds
}

// Creds returns the active L2 credentials, nil when not yet minted.
func (c *Client) Creds() *types.ApiKeyCreds {
	return c.creds
}
