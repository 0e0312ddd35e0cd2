package health_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/health"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/router"
)

func serve(t *testing.T, h handler.HandlerFunc[*router.Context]) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	ctx := router.NewContext(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	resp := h(ctx)
	if err := resp(w, ctx.Request()); err != nil {
		response.ErrorHandler(ctx, err)
	}
	return w
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	w := serve(t, health.Liveness[*router.Context])
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()
		w := serve(t, health.Readiness[*router.Context](log,
			health.Check{Name: "mongo", Fn: ok},
			health.Check{Name: "redis"},
		))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "READY", w.Body.String())
	})

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()
		calls := 0
		counted := func(context.Context) error { calls++; return nil }
		w := serve(t, health.Readiness[*router.Context](log,
			health.Check{Name: "mongo", Fn: down},
			health.Check{Name: "redis", Fn: counted},
		))
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.Zero(t, calls)
	})
}
