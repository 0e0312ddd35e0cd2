// Package email defines the EmailSender contract and a development sender
// that writes emails to disk.
//
// Provider implementations live in integration/email (Postmark, SMTP).
// Bodies are rendered from templ components with the templates subpackage:
//
//	body, err := templates.Render(ctx, templates.Layout(
//		templates.Header("Signup succeeded!", ""),
//		templates.Text("You successfully signed up!"),
//	))
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "user@example.com",
//		Subject:  "Signup succeeded!",
//		BodyHTML: body,
//		Tag:      "signup",
//	})
//
// Failures wrap ErrInvalidParams, ErrInvalidConfig or ErrFailedToSendEmail.
package email
