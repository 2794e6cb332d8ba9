package types

// L2HeaderArgs describes the request an L2 HMAC signature covers.
// RequestPath must include the query string exactly as sent.
type L2HeaderArgs struct {
	Method      string
	RequestPath string
	Body        *string
}

// L1ProbHeader carries the EIP-712 wallet-ownership proof used to mint
// API credentials.
type L1ProbHeader struct {
	ProbAddress   string `json:"PROB_ADDRESS"`
	ProbSignature string `json:"PROB_SIGNATURE"`
	ProbTimestamp string `json:"PROB_TIMESTAMP"`
	ProbNonce     string `json:"PROB_NONCE"`
}

// Map returns the header set as sent on the wire.
func (h *L1ProbHeader) Map() map[string]string {
	return map[string]string{
		"PROB_ADDRESS":   h.ProbAddress,
		"PROB_SIGNATURE": h.ProbSignature,
		"PROB_TIMESTAMP": h.ProbTimestamp,
		"PROB_NONCE":     h.ProbNonce,
	}
}

// L2ProbHeader carries the per-request HMAC proof built from long-lived
// API credentials.
type L2ProbHeader struct {
	ProbAddress    string `json:"prob_address"`
	ProbSignature  string `json:"prob_signature"`
	ProbTimestamp  string `json:"prob_timestamp"`
	ProbAPIKey     string `json:"prob_api_key"`
	ProbPassphrase string `json:"prob_passphrase"`

	// AccountType flags EOA account mode. Empty for proxy accounts; the
	// header is omitted entirely in that case.
	AccountType AccountType `json:"-"`
}

// Map returns the header set as sent on the wire. PROB_ACCOUNT_TYPE is
// only present in EOA account mode.
func (h *L2ProbHeader) Map() map[string]string {
	m := map[string]string{
		"prob_address":    h.ProbAddress,
		"prob_signature":  h.ProbSignature,
		"prob_timestamp":  h.ProbTimestamp,
		"prob_api_key":    h.ProbAPIKey,
		"prob_passphrase": h.ProbPassphrase,
		"Content-Type":    "application/json",
	}
	if h.AccountType == AccountTypeEOA {
		m["PROB_ACCOUNT_TYPE"] = string(AccountTypeEOA)
	}
	return m
}
