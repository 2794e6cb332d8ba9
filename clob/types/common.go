package types

import "fmt"

// Side is the order direction. The wire encoding is the string itself;
// the EIP-712 encoding is obtained via Uint8.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Uint8 returns the numeric encoding used in the EIP-712 Order struct.
// The mapping is exhaustive: any value other than BUY/SELL is an error,
// never silently coded as SELL.
func (s Side) Uint8() (uint8, error) {
	switch s {
	case SideBuy:
		return 0, nil
	case SideSell:
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown order side: %q", string(s))
	}
}

// ParseSide validates a user-supplied side string.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("unknown order side: %q", s)
	}
}

// OrderType is the execution type of a submitted order.
type OrderType string

const (
	OrderTypeGTC OrderType = "GTC" // Good Till Cancel
	OrderTypeFOK OrderType = "FOK" // Fill or Kill
	OrderTypeGTD OrderType = "GTD" // Good Till Date
	OrderTypeFAK OrderType = "FAK" // Fill and Kill
)

// Chain is the blockchain network id.
type Chain int

const (
	ChainBSC        Chain = 56
	ChainBSCTestnet Chain = 97
)

func (c Chain) String() string {
	return fmt.Sprintf("%d", int(c))
}

// SignatureType identifies how the remote service verifies an order
// signature against the maker account.
type SignatureType int

const (
	// SignatureTypeEOA - ECDSA EIP-712 signature signed directly by the EOA.
	SignatureTypeEOA SignatureType = 0
	// SignatureTypeProbProxy - signed by an EOA that owns a Probable proxy wallet.
	SignatureTypeProbProxy SignatureType = 1
	// SignatureTypeProbGnosisSafe - signed by an EOA that owns a Gnosis Safe proxy.
	SignatureTypeProbGnosisSafe SignatureType = 2
)

// AccountType selects how the entry service resolves the trading identity
// for an authenticated request. Empty means the default proxy account mode.
type AccountType string

const (
	AccountTypeProxy AccountType = ""
	AccountTypeEOA   AccountType = "eoa"
)

// TickSize is the minimum price increment of a market. It determines the
// rounding precision of price, size and the derived amounts.
type TickSize string

const (
	TickSize01    TickSize = "0.1"
	TickSize001   TickSize = "0.01"
	TickSize0001  TickSize = "0.001"
	TickSize00001 TickSize = "0.0001"
)

// ApiKeyCreds is the key/secret/passphrase triple used for L2 HMAC
// authentication. Created once per wallet via the L1 bootstrap flow.
type ApiKeyCreds struct {
	Key        string `json:"key"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

// ApiKeyRaw is the shape the entry service returns from the bootstrap call.
type ApiKeyRaw struct {
	ApiKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}
