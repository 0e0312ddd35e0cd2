package mongo_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/integration/database/mongo"
)

type testData struct {
	Counter int `bson:"counter"`
}

// Runs against a live server only when MONGODB_TEST_URL is set.
func TestSessionStore(t *testing.T) {
	url := os.Getenv("MONGODB_TEST_URL")
	if url == "" {
		t.Skip("MONGODB_TEST_URL is not set")
	}

	ctx := t.Context()
	db, err := mongo.NewWithDatabase(ctx, mongo.Config{URL: url, Database: "shop_test", ConnectTimeout: 5 * time.Second, MaxPoolSize: 5})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Collection("sessions_test").Drop(ctx)
		_ = db.Client().Disconnect(ctx)
	})

	store, err := mongo.NewSessionStore[testData](ctx, db, "sessions_test")
	require.NoError(t, err)

	sess, err := session.New[testData](session.NewSessionParams{IP: "127.0.0.1"}, time.Hour)
	require.NoError(t, err)
	sess.Data.Counter = 7
	require.NoError(t, store.Save(ctx, &sess))

	byToken, err := store.GetByToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, byToken.ID)
	assert.Equal(t, 7, byToken.Data.Counter)

	byID, err := store.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, byID.Token)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.GetByToken(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, sess.ID), session.ErrNotFound)

	expired, err := session.New[testData](session.NewSessionParams{}, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &expired))
	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(0))
}
