package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"
)

// DevSender writes every message to a directory instead of delivering it.
// Each message is one HTML file that opens in a browser; the envelope sits
// in a comment above the body.
type DevSender struct {
	dir string
	now func() time.Time

	mu  sync.Mutex
	seq int
}

// NewDevSender creates a sender writing into dir, created on first use.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

// SendEmail writes params to <dir>/<time>-<seq>-<tag or subject>.html.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}

	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	now := d.now().UTC()
	label := params.Tag
	if label == "" {
		label = params.Subject
	}
	name := fmt.Sprintf("%s-%03d-%s.html", now.Format("20060102T150405"), seq, slug(label))

	var b bytes.Buffer
	b.WriteString("<!--\n")
	fmt.Fprintf(&b, "To: %s\n", envelope(params.SendTo))
	fmt.Fprintf(&b, "Subject: %s\n", envelope(params.Subject))
	if params.Tag != "" {
		fmt.Fprintf(&b, "Tag: %s\n", envelope(params.Tag))
	}
	fmt.Fprintf(&b, "Date: %s\n", now.Format(time.RFC1123Z))
	b.WriteString("-->\n")
	b.WriteString(params.BodyHTML)

	if err := os.WriteFile(filepath.Join(d.dir, name), b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

var envelopeReplacer = strings.NewReplacer("\r", " ", "\n", " ", "--", "- -")

// envelope keeps a header value on one line and inside the comment.
func envelope(s string) string {
	return envelopeReplacer.Replace(s)
}

// slug lowercases s and joins its letter and digit runs with '-'.
func slug(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	out := strings.Join(words, "-")
	if len(out) > 60 {
		out = strings.TrimRight(out[:60], "-")
	}
	if out == "" {
		return "email"
	}
	return out
}
