// Package smtp implements email.EmailSender over SMTP with PLAIN auth.
//
// TLSMode selects the transport: "starttls" upgrades a plain connection,
// "tls" dials TLS directly and "plain" sends unencrypted (only accepted by
// net/smtp for localhost servers). Header values are stripped of line breaks
// and the subject is Q-encoded.
//
//	sender, err := smtp.New(smtp.Config{
//		Host:         "smtp.example.com",
//		Port:         587,
//		Username:     "apikey",
//		Password:     "secret",
//		TLSMode:      "starttls",
//		SenderEmail:  "shop@example.com",
//		SupportEmail: "support@example.com",
//	})
package smtp
