package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/probbet/goprob/clob/types"
)

func TestParseOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		outcomes string
		want     int
	}{
		{"valid", `["Yes","No"]`, 2},
		{"empty string", "", 0},
		{"malformed", `["Yes",`, 0},
		{"wrong type", `{"a":1}`, 0},
		{"empty array", `[]`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseOutcomes(&types.Market{Outcomes: tc.outcomes})
			if len(got) != tc.want {
				t.Fatalf("got %d outcomes, want %d", len(got), tc.want)
			}
		})
	}

	if got := ParseOutcomes(nil); got != nil {
		t.Fatalf("nil market returned %v", got)
	}
}

func TestFilterMarketsByDescription(t *testing.T) {
	markets := []types.Market{
		{Slug: "btc-100k", Question: "Will BTC reach 100k?"},
		{Slug: "eth-flip", Question: "Will ETH flip BTC?", Description: "Ethereum market cap"},
		{Slug: "election", Question: "Who wins?"},
	}

	got := FilterMarketsByDescription(markets, "btc")
	if len(got) != 2 {
		t.Fatalf("got %d markets, want 2", len(got))
	}
	got = FilterMarketsByDescription(markets, "ETHEREUM")
	if len(got) != 1 || got[0].Slug != "eth-flip" {
		t.Fatalf("got %+v", got)
	}
	if got := FilterMarketsByDescription(markets, ""); len(got) != 3 {
		t.Fatalf("empty query filtered to %d", len(got))
	}
}

func TestTokenIDForOutcome(t *testing.T) {
	market := &types.Market{Tokens: []types.MarketToken{
		{TokenID: "111", Outcome: "Yes"},
		{TokenID: "222", Outcome: "No"},
	}}

	if got := TokenIDForOutcome(market, "yes"); got != "111" {
		t.Fatalf("got %q", got)
	}
	if got := TokenIDForOutcome(market, "Maybe"); got != "" {
		t.Fatalf("unknown outcome returned %q", got)
	}

	// Tokens without outcome labels map positionally against the
	// market's outcome names.
	unlabeled := &types.Market{
		Outcomes: `["Yes", "No"]`,
		Tokens: []types.MarketToken{
			{TokenID: "111"},
			{TokenID: "222"},
		},
	}
	if got := TokenIDForOutcome(unlabeled, "no"); got != "222" {
		t.Fatalf("positional mapping returned %q", got)
	}
}

func TestTickSizeOf(t *testing.T) {
	if got := TickSizeOf(&types.Market{TickSize: "0.001"}); got != types.TickSize0001 {
		t.Fatalf("got %q", got)
	}
	if got := TickSizeOf(&types.Market{TickSize: ""}); got != types.TickSize001 {
		t.Fatalf("missing tick size defaulted to %q", got)
	}
	if got := TickSizeOf(&types.Market{TickSize: "0.5"}); got != types.TickSize001 {
		t.Fatalf("bogus tick size defaulted to %q", got)
	}
}

func TestFetchAllMarkets_Paginates(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		// The listing only ever asks for tradeable markets.
		if got := r.URL.Query().Get("active"); got != "true" {
			t.Errorf("active = %q, want true", got)
		}
		page := r.URL.Query().Get("page")
		resp := types.MarketsResponse{
			Markets:    []types.Market{{Slug: "m-" + page}},
			Pagination: &types.Pagination{Page: pages, HasMore: pages < 3},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewClient(types.ChainBSC, nil, &Options{MarketService: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	markets, err := c.FetchAllMarkets(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(markets) != 3 || pages != 3 {
		t.Fatalf("got %d markets over %d pages, want 3/3", len(markets), pages)
	}
}
