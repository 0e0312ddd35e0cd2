package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/shopfront/core/handler"
)

type testContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(string) string                 { return "" }
func (c *testContext) SetValue(key, val any)               { c.Context = context.WithValue(c.Context, key, val) }

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mw := func(name string) handler.Middleware[*testContext] {
		return func(next handler.HandlerFunc[*testContext]) handler.HandlerFunc[*testContext] {
			return func(ctx *testContext) handler.Response {
				calls = append(calls, name)
				return next(ctx)
			}
		}
	}

	h := handler.Chain(func(ctx *testContext) handler.Response {
		calls = append(calls, "handler")
		return nil
	}, mw("first"), mw("second"))

	ctx := &testContext{
		Context: context.Background(),
		w:       httptest.NewRecorder(),
		r:       httptest.NewRequest(http.MethodGet, "/", nil),
	}
	h(ctx)

	assert.Equal(t, []string{"first", "second", "handler"}, calls)
}

func TestValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	ctx := &testContext{Context: context.Background()}
	ctx.SetValue(key{}, 42)

	v, ok := handler.Value[int](ctx, key{})
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = handler.Value[string](ctx, key{})
	assert.False(t, ok)
}
