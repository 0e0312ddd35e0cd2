package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/shopfront/core/session"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "session:"

// SessionStore keeps each session as a JSON value under <prefix><id> and a
// token index under <prefix>token:<token>. Both keys expire with the
// session, so DeleteExpired has nothing to do.
type SessionStore[Data any] struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore returns a store using client. An empty prefix selects
// DefaultKeyPrefix.
func NewSessionStore[Data any](client redis.UniversalClient, prefix string) *SessionStore[Data] {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SessionStore[Data]{client: client, prefix: prefix}
}

func (s *SessionStore[Data]) idKey(id uuid.UUID) string {
	return s.prefix + id.String()
}

func (s *SessionStore[Data]) tokenKey(token string) string {
	return s.prefix + "token:" + token
}

func (s *SessionStore[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	val, err := s.client.Get(ctx, s.idKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var sess session.Session[Data]
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, session.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Save writes the session and its token index in one transaction. A
// rotated token has its previous index key removed.
func (s *SessionStore[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	prev, err := s.GetByID(ctx, sess.ID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prev != nil && prev.Token != sess.Token {
			pipe.Del(ctx, s.tokenKey(prev.Token))
		}
		pipe.Set(ctx, s.idKey(sess.ID), data, ttl)
		pipe.Set(ctx, s.tokenKey(sess.Token), sess.ID.String(), ttl)
		return nil
	})
	return err
}

func (s *SessionStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, s.idKey(id), s.tokenKey(sess.Token)).Err()
}

// DeleteExpired is a no-op: Redis expires keys on its own.
func (s *SessionStore[Data]) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
