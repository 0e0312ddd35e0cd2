package middleware

import (
	"strings"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
)

// Exempt answers method+path with h, behind guards, before any stage
// registered after it. The stage is named after the path, so
// Exempt(http.MethodPost, "/create-order", ...) is "create-order".
func Exempt[C handler.Context](method, path string, h handler.HandlerFunc[C], guards ...handler.Middleware[C]) pipeline.Stage[C] {
	if h == nil {
		panic("exempt stage: handler is required")
	}
	name := strings.Trim(path, "/")
	if name == "" {
		name = "root"
	}
	h = handler.Chain(h, guards...)

	return pipeline.Stage[C]{
		Name: name,
		Enter: func(ctx C) pipeline.Outcome {
			r := ctx.Request()
			if r.Method != method || r.URL.Path != path {
				return pipeline.Continue()
			}
			return pipeline.Respond(h(ctx))
		},
	}
}
