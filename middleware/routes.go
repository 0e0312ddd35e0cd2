package middleware

import (
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/router"
)

// Routes dispatches to the feature routers. A miss continues.
func Routes[C handler.Context](r router.Router[C]) pipeline.Stage[C] {
	return pipeline.Stage[C]{
		Name: StageRoutes,
		Enter: func(ctx C) pipeline.Outcome {
			resp, ok := r.Dispatch(ctx)
			if !ok {
				return pipeline.Continue()
			}
			return pipeline.Respond(resp)
		},
	}
}

// NotFound answers every request that reaches it with h.
func NotFound[C handler.Context](h handler.HandlerFunc[C]) pipeline.Stage[C] {
	return pipeline.Stage[C]{
		Name: StageNotFound,
		Enter: func(ctx C) pipeline.Outcome {
			return pipeline.Respond(h(ctx))
		},
	}
}
