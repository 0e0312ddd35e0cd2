// Package session provides generic server-side sessions.
//
// A Session[Data] carries an opaque token, an optional user binding and
// application data. Manager[Data] coordinates creation, lookup, touching and
// persistence on top of a Store[Data]. MemoryStore is the in-process store;
// Mongo and Redis stores live in the database packages.
//
// Sessions are anonymous until Authenticate binds a user, which also rotates
// the token. Demote removes the binding but keeps the session data. Logout
// marks the session deleted, and Manager.Store removes it and returns
// ErrNotAuthenticated so the transport can clear the client token.
//
// New sessions start unmodified and Manager.Store only writes modified
// sessions, so visitors that never change their session leave no record.
//
//	store := session.NewMemoryStore[AppData]()
//	mgr := session.NewManager(store, session.WithTTL(24*time.Hour))
//	sess, err := mgr.New(session.NewSessionParams{IP: ip})
//	_ = sess.Authenticate(userID)
//	sess, err = mgr.Store(ctx, sess)
package session
