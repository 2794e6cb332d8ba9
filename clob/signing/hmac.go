package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// BuildHmacSignature computes the L2 request signature:
// HMAC-SHA256 over timestamp+method+requestPath[+body], keyed by the
// base64-decoded API secret, re-encoded as URL-safe base64 with the
// '=' padding kept.
func BuildHmacSignature(secret string, timestamp int64, method string, requestPath string, body *string) (string, error) {
	message := strconv.FormatInt(timestamp, 10) + method + requestPath
	if body != nil {
		message += *body
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return "", fmt.Errorf("decode api secret: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))

	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	sig = strings.ReplaceAll(sig, "+", "-")
	sig = strings.ReplaceAll(sig, "/", "_")
	return sig, nil
}

// decodeSecret accepts both standard and URL-safe base64 secrets.
func decodeSecret(secret string) ([]byte, error) {
	s := strings.ReplaceAll(secret, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	s = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') || r == '+' || r == '/' || r == '=' {
			return r
		}
		return -1
	}, s)
	return base64.StdEncoding.DecodeString(s)
}
