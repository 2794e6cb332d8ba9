package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/probbet/goprob/clob/types"
)

// FetchMarkets returns one page of active markets from the public
// listing. No authentication is involved. Pages are cached briefly so
// repeated lookups inside one flow do not hammer the listing endpoint.
func (c *Client) FetchMarkets(ctx context.Context, page, limit int) (*types.MarketsResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("markets/%d/%d", page, limit)
	if cached, ok := c.marketCache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := c.limiter.Wait(ctx, "market:markets:get"); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("active", "true")
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))
	path := marketsPath + "?" + q.Encode()

	var resp types.MarketsResponse
	if err := c.market.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	c.marketCache.Set(cacheKey, &resp, 0)
	return &resp, nil
}

// FetchAllMarkets walks the listing until the service reports no more
// pages.
func (c *Client) FetchAllMarkets(ctx context.Context) ([]types.Market, error) {
	var all []types.Market
	for page := 1; ; page++ {
		resp, err := c.FetchMarkets(ctx, page, 100)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Markets...)
		if resp.Pagination == nil || !resp.Pagination.HasMore || len(resp.Markets) == 0 {
			break
		}
	}
	return all, nil
}

// FilterMarketsByDescription returns markets whose question, slug or
// description contains the query, case-insensitive.
func FilterMarketsByDescription(markets []types.Market, query string) []types.Market {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return markets
	}
	var out []types.Market
	for _, m := range markets {
		if strings.Contains(strings.ToLower(m.Question), query) ||
			strings.Contains(strings.ToLower(m.Slug), query) ||
			strings.Contains(strings.ToLower(m.Description), query) {
			out = append(out, m)
		}
	}
	return out
}

// ParseOutcomes decodes the market's JSON-encoded outcome name array.
// Malformed input yields an empty slice, never an error: listings with
// broken metadata should not break iteration over the rest.
func ParseOutcomes(market *types.Market) []string {
	if market == nil || market.Outcomes == "" {
		return nil
	}
	var outcomes []string
	if err := json.Unmarshal([]byte(market.Outcomes), &outcomes); err != nil {
		return nil
	}
	return outcomes
}

// TokenIDForOutcome resolves the asset id of the named outcome,
// case-insensitive. When the tokens carry no outcome labels it falls
// back to positional mapping against the market's outcome names. Empty
// string when the outcome is unknown.
func TokenIDForOutcome(market *types.Market, outcome string) string {
	for _, t := range market.Tokens {
		if strings.EqualFold(t.Outcome, outcome) {
			return t.TokenID
		}
	}
	outcomes := ParseOutcomes(market)
	if len(outcomes) == len(market.Tokens) {
		for i, name := range outcomes {
			if strings.EqualFold(name, outcome) {
				return market.Tokens[i].TokenID
			}
		}
	}
	return ""
}

// TickSizeOf returns the market's tick size, defaulting to 0.01 when the
// listing omits it.
func TickSizeOf(market *types.Market) types.TickSize {
	switch types.TickSize(market.TickSize) {
	case types.TickSize01, types.TickSize001, types.TickSize0001, types.TickSize00001:
		return types.TickSize(market.TickSize)
	default:
		return types.TickSize001
	}
}
