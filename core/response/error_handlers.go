package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// statusCode is implemented by errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// AsHTTPError classifies any error. HTTPErrors pass through, errors exposing
// StatusCode() map to the matching predefined error, everything else is a 500
// with the original error attached as cause.
func AsHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler writes the error as plain text. Internal errors never leak their message.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := AsHTTPError(err)
	msg := httpErr.Message
	if httpErr.Status >= http.StatusInternalServerError {
		msg = http.StatusText(httpErr.Status)
	}
	render(ctx, StringWithStatus(msg, httpErr.Status))
}
