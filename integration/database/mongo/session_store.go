package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/shopfront/core/session"
)

// SessionCollection is the default collection for session documents.
const SessionCollection = "sessions"

// SessionStore persists sessions as documents keyed by session ID with a
// unique index on the token and a TTL index on expires_at.
type SessionStore[Data any] struct {
	coll *mongo.Collection
}

// NewSessionStore returns a store bound to db.Collection(name) and ensures
// its indexes exist. An empty name selects SessionCollection.
func NewSessionStore[Data any](ctx context.Context, db *mongo.Database, name string) (*SessionStore[Data], error) {
	if name == "" {
		name = SessionCollection
	}
	coll := db.Collection(name)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("token_unique"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
		},
	})
	if err != nil {
		return nil, err
	}

	return &SessionStore[Data]{coll: coll}, nil
}

func (s *SessionStore[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *SessionStore[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	return s.findOne(ctx, bson.D{{Key: "token", Value: token}})
}

func (s *SessionStore[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: sess.ID}},
		sess,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *SessionStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return session.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions the TTL monitor has not reaped yet.
func (s *SessionStore[Data]) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{
		{Key: "expires_at", Value: bson.D{{Key: "$lt", Value: time.Now()}}},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *SessionStore[Data]) findOne(ctx context.Context, filter bson.D) (*session.Session[Data], error) {
	var sess session.Session[Data]
	if err := s.coll.FindOne(ctx, filter).Decode(&sess); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}
