// Package auth implements the operator-secret gate that guards content writes.
package auth

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"strings"
)

// EncodedPrefix marks a credential carried as base64url of the secret
// rather than as the secret itself.
const EncodedPrefix = "b64."

var ErrUnauthorized = errors.New("unauthorized")

// Gate compares bearer credentials against a single process-wide secret.
// An empty secret rejects every request; the gate never fails open.
type Gate struct {
	secret string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Configured reports whether an operator secret was set at startup.
func (g *Gate) Configured() bool {
	return g.secret != ""
}

// Authorize validates an Authorization header value. The credential may be
// the plain secret or "b64." followed by URL-safe base64 (padded) of it.
func (g *Gate) Authorize(header string) error {
	if g.secret == "" {
		return ErrUnauthorized
	}
	credential := BearerCredential(header)
	if credential == "" {
		return ErrUnauthorized
	}
	if strings.HasPrefix(credential, EncodedPrefix) {
		decoded, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(credential, EncodedPrefix))
		if err != nil {
			return ErrUnauthorized
		}
		credential = string(decoded)
	}
	if !hmac.Equal([]byte(credential), []byte(g.secret)) {
		return ErrUnauthorized
	}
	return nil
}

// BearerCredential extracts the credential from a bearer-style header value.
func BearerCredential(header string) string {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
