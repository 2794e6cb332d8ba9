package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// codeCredentialExpired is the entry service's expired/invalid API key code.
const codeCredentialExpired = "PAS-4008"

// APIError is a remote rejection from the entry service. It preserves the
// original response body for inspection.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("entry service rejected request: %s (code %s, http %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("entry service rejected request: %s (http %d)", e.Message, e.StatusCode)
}

// remoteErrorBody matches both error envelopes the service uses:
// {"error":{"code","message"}} and the flat {"code","message"}.
type remoteErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    strings.TrimSpace(string(body)),
		Body:       body,
	}
	var parsed remoteErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Error != nil && (parsed.Error.Code != "" || parsed.Error.Message != ""):
			apiErr.Code = parsed.Error.Code
			apiErr.Message = parsed.Error.Message
		case parsed.Code != "" || parsed.Message != "":
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("http %d", statusCode)
	}
	return apiErr
}

// IsCredentialExpired reports whether err is the expired/invalid API key
// rejection that warrants one regenerate-and-retry cycle.
func IsCredentialExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == codeCredentialExpired {
		return true
	}
	for _, marker := range []string{"Invalid API key", "API key has expired", codeCredentialExpired} {
		if strings.Contains(apiErr.Message, marker) {
			return true
		}
	}
	return false
}

// InsufficientBalanceError is the user-actionable form of a failed
// pre-flight balance check: it states what is held and what is needed.
type InsufficientBalanceError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient collateral balance: have %s, need %s", e.Balance, e.Required)
}

// IsInsufficientBalance also classifies the reactive remote rejection.
func IsInsufficientBalance(err error) bool {
	var balErr *InsufficientBalanceError
	if errors.As(err, &balErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strings.Contains(strings.ToLower(apiErr.Message), "insufficient")
	}
	return false
}
