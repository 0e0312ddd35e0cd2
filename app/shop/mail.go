package shop

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/shopfront/core/email"
	"github.com/dmitrymomot/shopfront/core/email/templates"
	"github.com/dmitrymomot/shopfront/core/email/templates/components"
	"github.com/dmitrymomot/shopfront/core/logger"
)

type message struct {
	to      string
	subject string
	tag     string
	body    templ.Component
}

func (a *App) welcomeEmail(to string) message {
	return message{
		to:      to,
		subject: "Signup succeeded!",
		tag:     "welcome",
		body: components.Layout(
			components.Header("You successfully signed up!", ""),
			components.Text("Your account is ready. Happy shopping!"),
			components.ButtonGroup(components.PrimaryButton("Visit the shop", a.link("/"))),
			components.Footer(a.config.AppName),
		),
	}
}

func (a *App) resetEmail(to, token string) message {
	return message{
		to:      to,
		subject: "Password reset",
		tag:     "password-reset",
		body: components.Layout(
			components.Header("Password reset", ""),
			components.Text("You requested a password reset."),
			components.ButtonGroup(components.PrimaryButton("Set new password", a.link("/reset/"+token))),
			components.TextSecondary("The link is valid for one hour. Ignore this email if you did not ask for it."),
			components.Footer(a.config.AppName),
		),
	}
}

// sendMail delivers m. Failures are logged and never fail the request.
func (a *App) sendMail(ctx context.Context, m message) {
	body, err := templates.Render(ctx, m.body)
	if err == nil {
		err = a.mailer.SendEmail(ctx, email.SendEmailParams{
			SendTo:   m.to,
			Subject:  m.subject,
			BodyHTML: body,
			Tag:      m.tag,
		})
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "email not sent",
			logger.Component("mail"),
			logger.Key("tag", m.tag),
			logger.Error(err),
		)
	}
}

func (a *App) link(path string) string {
	return strings.TrimRight(a.config.AppURL, "/") + path
}
