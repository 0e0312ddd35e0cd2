package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side session record. Data carries application state
// such as flash messages and the CSRF secret.
type Session[Data any] struct {
	// ID never changes for the lifetime of the session.
	ID uuid.UUID `bson:"_id" json:"id"`

	// Token is the opaque value handed to the client (32 random bytes,
	// base64url). It rotates on login.
	Token string `bson:"token" json:"token"`

	// UserID is uuid.Nil for anonymous sessions.
	UserID uuid.UUID `bson:"user_id" json:"user_id"`

	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	Data Data `bson:"data" json:"data"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	DeletedAt time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`

	isModified bool
}

// NewSessionParams describes the client a session is created for.
type NewSessionParams struct {
	IP        string
	UserAgent string
}

// New creates an anonymous session. It starts unmodified, so the manager
// skips persisting it until something changes it.
func New[Data any](params NewSessionParams, ttl time.Duration) (Session[Data], error) {
	token, err := generateToken()
	if err != nil {
		return Session[Data]{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session[Data]{
		ID:        uuid.New(),
		Token:     token,
		UserID:    uuid.Nil,
		IP:        params.IP,
		UserAgent: params.UserAgent,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Authenticate binds the session to userID and rotates the token.
func (s *Session[Data]) Authenticate(userID uuid.UUID) error {
	if err := s.rotateToken(); err != nil {
		return err
	}
	s.UserID = userID
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Demote turns the session anonymous without destroying it, keeping data
// such as pending flash messages.
func (s *Session[Data]) Demote() {
	if s.UserID == uuid.Nil {
		return
	}
	s.UserID = uuid.Nil
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Logout marks the session for deletion.
func (s *Session[Data]) Logout() {
	s.DeletedAt = time.Now()
	s.isModified = true
}

// SetData replaces the session data.
func (s *Session[Data]) SetData(data Data) {
	s.Data = data
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// MarkModified flags the session for saving after Data was changed in place.
func (s *Session[Data]) MarkModified() {
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Touch extends the expiration once touchInterval has passed since the last update.
func (s *Session[Data]) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		now := time.Now()
		s.ExpiresAt = now.Add(ttl)
		s.UpdatedAt = now
		s.isModified = true
	}
}

// IsAuthenticated reports whether a user is bound to the session.
func (s Session[Data]) IsAuthenticated() bool {
	return s.UserID != uuid.Nil && s.Token != ""
}

// IsDeleted reports whether the session was logged out.
func (s Session[Data]) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsModified reports whether the session needs saving.
func (s Session[Data]) IsModified() bool {
	return s.isModified
}

// IsExpired reports whether the session outlived its expiration.
func (s Session[Data]) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session[Data]) rotateToken() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.isModified = true
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
