package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// EmailSender delivers a rendered email.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams describes one outgoing email.
type SendEmailParams struct {
	SendTo   string
	Subject  string
	BodyHTML string
	Tag      string // optional, used for provider analytics
}

// Validate checks the required fields.
func (p SendEmailParams) Validate() error {
	var errs []error
	if strings.TrimSpace(p.SendTo) == "" {
		errs = append(errs, errors.New("recipient is required"))
	} else if _, err := mail.ParseAddress(p.SendTo); err != nil {
		errs = append(errs, fmt.Errorf("recipient %q is not a valid address", p.SendTo))
	}
	if strings.TrimSpace(p.Subject) == "" {
		errs = append(errs, errors.New("subject is required"))
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		errs = append(errs, errors.New("body is required"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidParams}, errs...)...)
	}
	return nil
}
