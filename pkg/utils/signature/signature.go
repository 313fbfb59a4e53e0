// Package signature implements the request signing scheme of the release
// tracking server.
//
// The signature is HMAC-SHA256 over the nonce immediately followed by the
// request body, keyed with the shared secret and rendered as uppercase hex.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Compute returns the uppercase hex HMAC-SHA256 of nonce+body keyed with secret
func Compute(secret, nonce string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	mac.Write(body)
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// Verify reports whether sig is the signature of nonce+body. Hex case is ignored.
func Verify(secret, nonce string, body []byte, sig string) bool {
	expected := Compute(secret, nonce, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToUpper(sig)))
}

// NewNonce returns a random 128-bit identifier as 32 uppercase hex characters
func NewNonce() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:]))
}
