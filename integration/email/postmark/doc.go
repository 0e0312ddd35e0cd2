// Package postmark implements email.EmailSender on the Postmark
// transactional API.
//
//	sender, err := postmark.New(postmark.Config{
//		PostmarkServerToken:  os.Getenv("POSTMARK_SERVER_TOKEN"),
//		PostmarkAccountToken: os.Getenv("POSTMARK_ACCOUNT_TOKEN"),
//		SenderEmail:          "shop@example.com",
//		SupportEmail:         "support@example.com",
//	})
//
// Every message tracks opens and HTML link clicks and sets Reply-To to the
// support address. Postmark API errors (non-zero ErrorCode) are returned
// joined with email.ErrFailedToSendEmail.
package postmark
