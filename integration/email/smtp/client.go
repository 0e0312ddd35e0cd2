package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/shopfront/core/email"
)

// Client sends email over SMTP in starttls, tls or plain mode.
// It is safe for concurrent use; every message uses its own connection.
type Client struct {
	config Config
	auth   smtp.Auth
	dialer *net.Dialer
}

// New creates an SMTP-backed email sender.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: Host is required", email.ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: Port must be between 1 and 65535", email.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: Username is required", email.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: Password is required", email.ErrInvalidConfig)
	}
	if cfg.TLSMode != "starttls" && cfg.TLSMode != "tls" && cfg.TLSMode != "plain" {
		return nil, fmt.Errorf("%w: TLSMode must be starttls, tls, or plain", email.ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !isValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", email.ErrInvalidConfig)
	}
	if cfg.SupportEmail == "" || !isValidEmail(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", email.ErrInvalidConfig)
	}

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		config: cfg,
		auth:   auth,
		dialer: &net.Dialer{Timeout: timeout},
	}, nil
}

// MustNewClient creates an SMTP client that panics on invalid config.
func MustNewClient(cfg Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail delivers params. The context bounds dialing and the whole
// SMTP transaction.
func (c *Client) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}

	if err := params.Validate(); err != nil {
		return err
	}

	message := c.buildMessage(params)
	serverAddr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	conn, err := c.dial(ctx, serverAddr)
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	defer func() { _ = conn.Close() }()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, fmt.Errorf("failed to create SMTP client: %w", err))
	}
	defer func() { _ = client.Close() }()

	if c.config.TLSMode == "starttls" {
		if err := client.StartTLS(&tls.Config{ServerName: c.config.Host}); err != nil {
			return errors.Join(email.ErrFailedToSendEmail, fmt.Errorf("failed to start TLS: %w", err))
		}
	}

	if err := c.performSMTPTransaction(client, params.SendTo, message); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	return nil
}

func (c *Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	if c.config.TLSMode == "tls" {
		td := &tls.Dialer{NetDialer: c.dialer, Config: &tls.Config{ServerName: c.config.Host}}
		conn, err := td.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SMTP server with TLS: %w", err)
		}
		return conn, nil
	}
	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	return conn, nil
}

// buildMessage creates the MIME message. Header values are stripped of
// line breaks.
func (c *Client) buildMessage(params email.SendEmailParams) []byte {
	headers := [][2]string{
		{"From", c.config.SenderEmail},
		{"To", params.SendTo},
		{"Reply-To", c.config.SupportEmail},
		{"Subject", mime.QEncoding.Encode("utf-8", params.Subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="UTF-8"`},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"Message-ID", fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), strings.ReplaceAll(params.Tag, " ", "_"), c.config.Host)},
	}

	var message strings.Builder
	for _, h := range headers {
		message.WriteString(h[0])
		message.WriteString(": ")
		message.WriteString(headerReplacer.Replace(h[1]))
		message.WriteString("\r\n")
	}
	message.WriteString("\r\n")
	message.WriteString(params.BodyHTML)

	return []byte(message.String())
}

var headerReplacer = strings.NewReplacer("\r", "", "\n", "")

func (c *Client) performSMTPTransaction(client *smtp.Client, to string, message []byte) error {
	if err := client.Auth(c.auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(c.config.SenderEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// Some servers hang up right after DATA; the message is already accepted.
	_ = client.Quit()
	return nil
}

// emailRegex is a simple regex for validating email addresses.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail checks if the provided string is a valid email address.
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
