package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/shopfront/core/response"
)

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) StatusCode() int { return http.StatusForbidden }

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error passes through", response.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped http error", fmt.Errorf("wrap: %w", response.ErrForbidden.WithCode("invalid_csrf_token")), http.StatusForbidden, "invalid_csrf_token"},
		{"status code interface", teapotError{}, http.StatusForbidden, "forbidden"},
		{"plain error is internal", errors.New("db down"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := response.AsHTTPError(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestWithErrorDoesNotMutatePredefined(t *testing.T) {
	t.Parallel()

	_ = response.ErrInternalServerError.WithError(errors.New("secret"))
	assert.Nil(t, response.ErrInternalServerError.Details)
}
