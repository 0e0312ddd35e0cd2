package shop

import "github.com/dmitrymomot/shopfront/core/flash"

// Flash kinds.
const (
	FlashError = "error"
	FlashInfo  = "info"
)

// SessionData is the application state kept in every session.
type SessionData struct {
	CSRFSecret string         `bson:"csrf_secret,omitempty" json:"csrf_secret,omitempty"`
	Flash      flash.Messages `bson:"flash,omitempty" json:"flash,omitempty"`
}

func csrfSecret(d *SessionData) *string { return &d.CSRFSecret }
func flashMessages(d *SessionData) *flash.Messages { return &d.Flash }
