package templates

import (
	"context"
	"errors"
	"strings"

	"github.com/a-h/templ"
)

// ErrNilComponent is returned when Render gets no component.
var ErrNilComponent = errors.New("templates: component is nil")

// Render renders c to a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	if c == nil {
		return "", ErrNilComponent
	}
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
