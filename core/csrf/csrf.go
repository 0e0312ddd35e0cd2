// Package csrf issues and verifies session-scoped anti-forgery tokens.
//
// Each session holds a random secret. A token is a random salt plus the
// HMAC-SHA256 of the salt under that secret, so every render can hand out a
// fresh token while all of them stay valid for the session.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

const (
	secretSize = 18
	saltSize   = 8

	// separator is outside the base64url alphabet.
	separator = "."

	// FieldName is the form field carrying the token.
	FieldName = "_csrf"
)

// ErrInvalidToken is returned when a token is missing or does not verify.
var ErrInvalidToken = errors.New("invalid csrf token")

// Headers lists the request headers checked for a token, in order.
var Headers = []string{"csrf-token", "xsrf-token", "x-csrf-token", "x-xsrf-token"}

// NewSecret returns a random per-session secret.
func NewSecret() (string, error) {
	b := make([]byte, secretSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Token derives a fresh token from secret.
func Token(secret string) (string, error) {
	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	salt := base64.RawURLEncoding.EncodeToString(b)
	return salt + separator + sign(secret, salt), nil
}

// Verify reports whether token was derived from secret.
func Verify(secret, token string) bool {
	if secret == "" || token == "" {
		return false
	}
	salt, mac, ok := strings.Cut(token, separator)
	if !ok || salt == "" {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(sign(secret, salt)))
}

// Extract returns the token submitted with r: the form field first, then
// the headers in order. The form must already be parsed.
func Extract(r *http.Request) string {
	if r.Form != nil {
		if v := r.Form.Get(FieldName); v != "" {
			return v
		}
	}
	if r.MultipartForm != nil {
		if vs := r.MultipartForm.Value[FieldName]; len(vs) > 0 && vs[0] != "" {
			return vs[0]
		}
	}
	for _, h := range Headers {
		if v := r.Header.Get(h); v != "" {
			return v
		}
	}
	return ""
}

func sign(secret, salt string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(salt))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
