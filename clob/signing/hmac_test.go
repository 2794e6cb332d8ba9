package signing

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildHmacSignature_IsURLSafe(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

	// Sweep message variants; none of the outputs may contain the
	// standard-alphabet characters the service rejects.
	for i := int64(0); i < 200; i++ {
		sig, err := BuildHmacSignature(secret, 1700000000+i, "GET", "/public/api/v1/orders/56/open?page=1&limit=100", nil)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if strings.ContainsAny(sig, "+/") {
			t.Fatalf("signature contains standard base64 chars: %q", sig)
		}
	}
}

func TestBuildHmacSignature_Deterministic(t *testing.T) {
	secret := base64.URLEncoding.EncodeToString([]byte("another-32-byte-secret-value-xx!"))
	body := `{"deferExec":true}`

	a, err := BuildHmacSignature(secret, 1700000000, "POST", "/public/api/v1/order/56", &body)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, err := BuildHmacSignature(secret, 1700000000, "POST", "/public/api/v1/order/56", &body)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a != b {
		t.Fatalf("same inputs produced different signatures: %q vs %q", a, b)
	}
}

func TestBuildHmacSignature_BodyChangesSignature(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	body1 := `{"a":1}`
	body2 := `{"a":2}`

	a, err := BuildHmacSignature(secret, 1700000000, "POST", "/p", &body1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, err := BuildHmacSignature(secret, 1700000000, "POST", "/p", &body2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a == b {
		t.Fatal("different bodies produced the same signature")
	}

	noBody, err := BuildHmacSignature(secret, 1700000000, "POST", "/p", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if noBody == a {
		t.Fatal("nil body produced the same signature as a non-empty body")
	}
}

func TestDecodeSecret_AcceptsBothAlphabets(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0x01, 0x02, 0x03, 0x04}
	std := base64.StdEncoding.EncodeToString(raw)
	urlSafe := base64.URLEncoding.EncodeToString(raw)

	fromStd, err := decodeSecret(std)
	if err != nil {
		t.Fatalf("decode std: %v", err)
	}
	fromURL, err := decodeSecret(urlSafe)
	if err != nil {
		t.Fatalf("decode url-safe: %v", err)
	}
	if string(fromStd) != string(raw) || string(fromURL) != string(raw) {
		t.Fatalf("decoded secret mismatch: %x / %x, want %x", fromStd, fromURL, raw)
	}
}
