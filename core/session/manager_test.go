package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/session"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[testData], error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*session.Session[testData]); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetByToken(ctx context.Context, token string) (*session.Session[testData], error) {
	args := m.Called(ctx, token)
	if s, ok := args.Get(0).(*session.Session[testData]); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, s *session.Session[testData]) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestManagerGetByToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		stored := &session.Session[testData]{ID: uuid.New(), Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
		store.On("GetByToken", ctx, "tok").Return(stored, nil)

		mgr := session.NewManager[testData](store)
		sess, err := mgr.GetByToken(ctx, "tok")

		require.NoError(t, err)
		assert.Equal(t, stored.ID, sess.ID)
		store.AssertExpectations(t)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		stored := &session.Session[testData]{ID: uuid.New(), Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}
		store.On("GetByToken", ctx, "old").Return(stored, nil)

		_, err := session.NewManager[testData](store).GetByToken(ctx, "old")
		assert.ErrorIs(t, err, session.ErrExpired)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		store.On("GetByToken", ctx, "missing").Return(nil, session.ErrNotFound)

		_, err := session.NewManager[testData](store).GetByToken(ctx, "missing")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestManagerStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("saves modified session", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		store.On("Save", ctx, mock.Anything).Return(nil)

		mgr := session.NewManager[testData](store)
		sess, err := mgr.New(session.NewSessionParams{})
		require.NoError(t, err)
		sess.SetData(testData{Theme: "light"})

		stored, err := mgr.Store(ctx, sess)
		require.NoError(t, err)
		assert.True(t, stored.IsModified())
		store.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("skips fresh session", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		mgr := session.NewManager[testData](store)
		sess, err := mgr.New(session.NewSessionParams{})
		require.NoError(t, err)

		stored, err := mgr.Store(ctx, sess)
		require.NoError(t, err)
		assert.False(t, stored.IsModified())
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips unmodified session", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		mgr := session.NewManager[testData](store)
		sess := session.Session[testData]{ID: uuid.New(), Token: "t", UpdatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}

		_, err := mgr.Store(ctx, sess)
		require.NoError(t, err)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("deletes logged out session", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		sess := session.Session[testData]{ID: uuid.New(), Token: "t"}
		store.On("Delete", ctx, sess.ID).Return(nil)
		sess.Logout()

		_, err := session.NewManager[testData](store).Store(ctx, sess)
		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
		store.AssertExpectations(t)
	})

	t.Run("wraps save failure", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		store.On("Save", ctx, mock.Anything).Return(errors.New("db down"))
		mgr := session.NewManager[testData](store)
		sess, err := mgr.New(session.NewSessionParams{})
		require.NoError(t, err)
		sess.MarkModified()

		_, err = mgr.Store(ctx, sess)
		assert.ErrorIs(t, err, session.ErrSaveSession)
	})
}

func TestManagerCleanupExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &mockStore{}
	store.On("DeleteExpired", ctx).Return(int64(3), nil)

	n, err := session.NewManager[testData](store).CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestManagerOptions(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager[testData](&mockStore{}, session.WithTTL(2*time.Hour), session.WithTTL(0))
	assert.Equal(t, 2*time.Hour, mgr.TTL())

	fromCfg := session.NewFromConfig[testData](&mockStore{}, session.Config{TTL: time.Minute, TouchInterval: time.Second})
	assert.Equal(t, time.Minute, fromCfg.TTL())
}
