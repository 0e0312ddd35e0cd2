// Package cookie writes and reads HTTP cookies with secure defaults
// (Path=/, HttpOnly, SameSite=Lax) and HMAC-SHA256 signing.
//
//	m, err := cookie.NewFromConfig(cfg.Cookie)
//	err = m.SetSigned(w, "sid", token, cookie.WithMaxAge(86400))
//	token, err := m.GetSigned(r, "sid")
//
// COOKIE_SECRETS takes a comma-separated list. The first secret signs new
// cookies; every secret is accepted when verifying, so keys can be rotated
// without logging everybody out.
package cookie
