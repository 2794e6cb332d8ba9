package types

import "encoding/json"

// UserOrder is a user's trade intent. Owned by the calling flow and
// discarded after submission.
type UserOrder struct {
	// TokenID is the conditional-token asset id of the market outcome.
	TokenID string

	// Price in collateral per share, 0 < price < 1.
	Price float64

	// Size is the conditional-token quantity.
	Size float64

	// Side is BUY or SELL.
	Side Side

	// FeeRateBps is the maker fee rate in basis points, optional.
	FeeRateBps *int

	// Nonce groups orders for on-chain cancellation, optional.
	Nonce *int64

	// Expiration is a unix-seconds timestamp, optional. 0 = never.
	Expiration *int64

	// Taker restricts who may fill the order. Zero address = any taker.
	Taker *string
}

// OrderData holds the raw order fields prepared for signing. All numeric
// fields are base-10 strings in the collateral token's smallest unit.
type OrderData struct {
	Maker         string
	Taker         string
	TokenID       string
	MakerAmount   string
	TakerAmount   string
	Side          Side
	FeeRateBps    string
	Nonce         string
	Signer        string
	Expiration    string
	SignatureType SignatureType
}

// Order is OrderData plus the uniqueness salt and resolved defaults.
// Immutable once produced.
type Order struct {
	Salt          string        `json:"salt"`
	Maker         string        `json:"maker"`
	Signer        string        `json:"signer"`
	Taker         string        `json:"taker"`
	TokenID       string        `json:"tokenId"`
	MakerAmount   string        `json:"makerAmount"`
	TakerAmount   string        `json:"takerAmount"`
	Expiration    string        `json:"expiration"`
	Nonce         string        `json:"nonce"`
	FeeRateBps    string        `json:"feeRateBps"`
	Side          Side          `json:"side"`
	SignatureType SignatureType `json:"signatureType"`
}

// SignedOrder is an Order plus its EIP-712 signature.
type SignedOrder struct {
	Order
	Signature string `json:"signature"`
}

// NewOrder is the submission payload posted to the entry service.
type NewOrder struct {
	DeferExec bool        `json:"deferExec"`
	Order     SignedOrder `json:"order"`
	Owner     string      `json:"owner"`
	OrderType OrderType   `json:"orderType"`
}

// PlaceOrderResult is the outcome of a submission.
type PlaceOrderResult struct {
	Success bool
	OrderID string
	// Raw keeps the remote order record for inspection.
	Raw json.RawMessage
}

// ApiOrder is an open-order record as returned by the entry service.
type ApiOrder struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TimeInForce   string `json:"timeInForce"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	CumQuote      string `json:"cumQuote"`
	Status        string `json:"status"`
	Time          int64  `json:"time"`
	UpdateTime    int64  `json:"updateTime"`
	AvgPrice      string `json:"avgPrice"`
	OrigType      string `json:"origType"`
	TokenID       string `json:"tokenId"`
	CtfTokenID    string `json:"ctfTokenId"`
	StopPrice     string `json:"stopPrice"`
	OrderListID   int64  `json:"orderListId"`
}

// OrdersResult is a page of open orders.
type OrdersResult struct {
	Orders []ApiOrder
	Total  int
}

// CancelError records a single failed cancellation inside a best-effort
// cancel-all run.
type CancelError struct {
	OrderID int64
	Error   string
}

// CancelAllResult reports the partial-success outcome of cancelling a
// list of orders sequentially.
type CancelAllResult struct {
	Success int
	Failed  int
	Errors  []CancelError
}
