package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/probbet/goprob/clob/signing"
	"github.com/probbet/goprob/clob/types"
)

// CreateAPIKey mints fresh L2 credentials with an L1 wallet-ownership
// proof. The service derives the key deterministically per wallet, so
// repeat calls return the same triple.
func (c *Client) CreateAPIKey(ctx context.Context, nonce *int64) (*types.ApiKeyCreds, error) {
	if err := c.canL1Auth(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx, "entry:auth:post"); err != nil {
		return nil, err
	}

	headers, err := signing.CreateL1Headers(c.signer, c.chainID, nonce, nil)
	if err != nil {
		return nil, err
	}

	var raw types.ApiKeyRaw
	path := createAPIKeyPath(c.chainID)
	if err := c.entry.do(ctx, http.MethodPost, path, headers.Map(), nil, &raw); err != nil {
		return nil, errors.Wrap(err, "create api key")
	}
	if raw.ApiKey == "" || raw.Secret == "" || raw.Passphrase == "" {
		return nil, errors.New("create api key: service returned incomplete credentials")
	}

	creds := &types.ApiKeyCreds{
		Key:        raw.ApiKey,
		Secret:     raw.Secret,
		Passphrase: raw.Passphrase,
	}
	c.log.WithField("address", c.Address().Hex()).Info("minted api credentials")
	return creds, nil
}

// CreateOrLoadAPIKey returns working L2 credentials, in order of
// preference: the ones already on the client, the ones in the credential
// store, freshly minted ones. force skips the first two and replaces
// whatever is stored.
func (c *Client) CreateOrLoadAPIKey(ctx context.Context, force bool) (*types.ApiKeyCreds, error) {
	if err := c.canL1Auth(); err != nil {
		return nil, err
	}
	address := c.Address().Hex()

	if !force {
		if c.creds != nil {
			return c.creds, nil
		}
		stored, err := c.credStore.Load(address, c.chainID)
		if err != nil {
			c.log.WithError(err).Warn("credential store load failed, minting fresh credentials")
		} else if stored != nil {
			c.creds = stored
			return stored, nil
		}
	}

	creds, err := c.CreateAPIKey(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := c.credStore.Save(address, c.chainID, creds); err != nil {
		c.log.WithError(err).Warn("credential store save failed")
	}
	c.creds = creds
	return creds, nil
}

// DeleteStoredAPIKey drops persisted credentials for this wallet and
// clears the in-memory copy.
func (c *Client) DeleteStoredAPIKey() error {
	if err := c.canL1Auth(); err != nil {
		return err
	}
	c.creds = nil
	return c.credStore.Delete(c.Address().Hex(), c.chainID)
}

// l2HeadersFor builds the HMAC header set for one request.
func (c *Client) l2HeadersFor(args *types.L2HeaderArgs) (map[string]string, error) {
	headers, err := signing.CreateL2Headers(c.Address(), c.creds, args, c.accountType, nil)
	if err != nil {
		return nil, err
	}
	return headers.Map(), nil
}

// withFreshCredsRetry runs op and, when the service rejects the API key
// as invalid or expired, force-regenerates credentials exactly once and
// retries exactly once. Any other error, and any error from the retry,
// propagates unchanged.
func (c *Client) withFreshCredsRetry(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !IsCredentialExpired(err) {
		return err
	}
	c.log.Info("api credentials rejected, regenerating")
	if _, regenErr := c.CreateOrLoadAPIKey(ctx, true); regenErr != nil {
		return errors.Wrap(regenErr, "regenerate api credentials")
	}
	return op()
}
