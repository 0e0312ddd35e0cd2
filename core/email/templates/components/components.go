package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

func write(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func renderAll(ctx context.Context, w io.Writer, children []templ.Component) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func wrap(open, close string, children []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if err := renderAll(ctx, w, children); err != nil {
			return err
		}
		_, err := io.WriteString(w, close)
		return err
	})
}

// Layout is the document shell every email starts with.
func Layout(children ...templ.Component) templ.Component {
	return wrap(
		`<!DOCTYPE html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"></head>`+
			`<body style="margin:0;padding:0;background:#f4f4f5;font-family:Helvetica,Arial,sans-serif;">`+
			`<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:24px;">`+
			`<table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:6px;padding:32px;">`+
			`<tr><td>`,
		`</td></tr></table></td></tr></table></body></html>`,
		children,
	)
}

// Header renders the title and an optional subtitle.
func Header(title, subtitle string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<h1 style="margin:0 0 8px;font-size:22px;color:#111827;">%s</h1>`, templ.EscapeString(title)); err != nil {
			return err
		}
		if subtitle == "" {
			return nil
		}
		return write(w, `<p style="margin:0 0 24px;font-size:14px;color:#6b7280;">%s</p>`, templ.EscapeString(subtitle))
	})
}

// Text renders a paragraph.
func Text(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<p style="margin:0 0 16px;font-size:15px;line-height:22px;color:#374151;">%s</p>`, templ.EscapeString(text))
	})
}

// TextSecondary renders a muted paragraph.
func TextSecondary(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<p style="margin:0 0 16px;font-size:13px;line-height:20px;color:#6b7280;">%s</p>`, templ.EscapeString(text))
	})
}

// ButtonGroup lays out buttons in a row.
func ButtonGroup(buttons ...templ.Component) templ.Component {
	return wrap(`<div style="margin:24px 0;">`, `</div>`, buttons)
}

// PrimaryButton renders a call-to-action link styled as a button.
func PrimaryButton(label, href string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w,
			`<a href="%s" style="display:inline-block;padding:12px 20px;background:#2563eb;color:#ffffff;text-decoration:none;border-radius:4px;font-size:15px;">%s</a>`,
			templ.EscapeString(string(templ.URL(href))), templ.EscapeString(label))
	})
}

// Footer renders the sender line.
func Footer(sender string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<p style="margin:32px 0 0;font-size:12px;color:#9ca3af;">%s</p>`, templ.EscapeString(sender))
	})
}
