package session

import (
	"context"
	"errors"
	"time"
)

// Manager handles the session lifecycle on top of a Store.
type Manager[Data any] struct {
	store         Store[Data]
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a manager. Without options sessions live 24h and are
// touched at most every 5 minutes.
func NewManager[Data any](store Store[Data], opts ...Option) *Manager[Data] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Manager[Data]{
		store:         store,
		ttl:           cfg.TTL,
		touchInterval: cfg.TouchInterval,
	}
}

// NewFromConfig creates a manager from environment configuration.
func NewFromConfig[Data any](store Store[Data], cfg Config) *Manager[Data] {
	return NewManager(store, WithTTL(cfg.TTL), WithTouchInterval(cfg.TouchInterval))
}

// New creates an anonymous session with the manager's TTL.
func (m *Manager[Data]) New(params NewSessionParams) (Session[Data], error) {
	return New[Data](params, m.ttl)
}

// GetByToken loads a session and rejects expired ones.
func (m *Manager[Data]) GetByToken(ctx context.Context, token string) (Session[Data], error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session[Data]{}, err
	}
	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}
	return *sess, nil
}

// Store persists the session according to its state and returns it as
// stored. IsModified on the result reports whether a write happened. A logged
// out session is deleted and ErrNotAuthenticated tells the transport to drop
// the client token.
func (m *Manager[Data]) Store(ctx context.Context, sess Session[Data]) (Session[Data], error) {
	if sess.IsDeleted() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return sess, errors.Join(ErrDeleteSession, err)
		}
		return sess, ErrNotAuthenticated
	}

	sess.Touch(m.ttl, m.touchInterval)
	if !sess.IsModified() {
		return sess, nil
	}
	if err := m.store.Save(ctx, &sess); err != nil {
		return sess, errors.Join(ErrSaveSession, err)
	}
	return sess, nil
}

// CleanupExpired removes expired sessions and returns how many were deleted.
func (m *Manager[Data]) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the session time-to-live.
func (m *Manager[Data]) TTL() time.Duration {
	return m.ttl
}
