package types

// MarketToken is one tradeable outcome token of a market.
type MarketToken struct {
	TokenID string `json:"token_id"`
	Outcome string `json:"outcome"`
	Price   string `json:"price,omitempty"`
}

// Market is a listing entry from the market service. Outcomes is a
// JSON-encoded string array as stored by the service.
type Market struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Question    string        `json:"question"`
	Description string        `json:"description"`
	Outcomes    string        `json:"outcomes"`
	Active      bool          `json:"active"`
	Closed      bool          `json:"closed"`
	TickSize    string        `json:"tickSize,omitempty"`
	Tokens      []MarketToken `json:"tokens"`
}

// Pagination is the market service's page cursor.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// MarketsResponse is a page of markets.
type MarketsResponse struct {
	Markets    []Market    `json:"markets"`
	Pagination *Pagination `json:"pagination"`
}
