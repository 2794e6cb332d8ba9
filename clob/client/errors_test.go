package client

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestNewAPIError_ParsesBothEnvelopes(t *testing.T) {
	nested := newAPIError(401, []byte(`{"error":{"code":"PAS-4008","message":"API key has expired"}}`))
	if nested.Code != "PAS-4008" || nested.Message != "API key has expired" {
		t.Fatalf("nested envelope: %+v", nested)
	}

	flat := newAPIError(400, []byte(`{"code":"ORD-1001","message":"bad order"}`))
	if flat.Code != "ORD-1001" || flat.Message != "bad order" {
		t.Fatalf("flat envelope: %+v", flat)
	}

	opaque := newAPIError(500, []byte(`gateway timeout`))
	if opaque.Code != "" || opaque.Message != "gateway timeout" {
		t.Fatalf("opaque body: %+v", opaque)
	}

	empty := newAPIError(502, nil)
	if empty.Message == "" {
		t.Fatal("empty body produced empty message")
	}
}

func TestIsCredentialExpired(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"code match", newAPIError(401, []byte(`{"code":"PAS-4008","message":"x"}`)), true},
		{"invalid key message", newAPIError(401, []byte(`{"message":"Invalid API key"}`)), true},
		{"expired message", newAPIError(401, []byte(`{"message":"API key has expired"}`)), true},
		{"code in message", newAPIError(401, []byte(`{"message":"rejected: PAS-4008"}`)), true},
		{"wrapped", errors.Wrap(newAPIError(401, []byte(`{"code":"PAS-4008"}`)), "submit"), true},
		{"other api error", newAPIError(400, []byte(`{"code":"ORD-1001","message":"bad order"}`)), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCredentialExpired(tc.err); got != tc.want {
				t.Fatalf("IsCredentialExpired = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsInsufficientBalance(t *testing.T) {
	direct := &InsufficientBalanceError{
		Balance:  decimal.NewFromFloat(1.5),
		Required: decimal.NewFromFloat(10),
	}
	if !IsInsufficientBalance(direct) {
		t.Fatal("direct error not classified")
	}
	if !IsInsufficientBalance(errors.Wrap(direct, "pre-flight")) {
		t.Fatal("wrapped error not classified")
	}
	remote := newAPIError(400, []byte(`{"message":"Insufficient balance for order"}`))
	if !IsInsufficientBalance(remote) {
		t.Fatal("remote rejection not classified")
	}
	if IsInsufficientBalance(errors.New("boom")) {
		t.Fatal("unrelated error classified")
	}
}
