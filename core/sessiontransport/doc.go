// Package sessiontransport carries session tokens over HTTP.
//
// The Cookie transport stores Session.Token in a signed cookie. Load never
// fails on a bad client token: a missing, tampered, unknown or expired
// cookie yields a fresh anonymous session that is only persisted once it is
// modified. Store errors other than "not found" are returned.
//
// Save hands the session to the manager, refreshes the cookie when the
// session was written and clears it when the session was logged out.
//
//	transport := sessiontransport.NewCookie(mgr, cookies, "sid")
//	sess, err := transport.Load(r)
//	// ... handler mutates sess ...
//	err = transport.Save(r.Context(), w, sess)
package sessiontransport
