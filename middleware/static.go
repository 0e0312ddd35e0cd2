package middleware

import (
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/static"
)

// Static answers GET and HEAD requests for files in dirs, tried in order.
// A miss continues down the pipeline.
func Static[C handler.Context](dirs ...*static.Dir) pipeline.Stage[C] {
	return pipeline.Stage[C]{
		Name: StageStatic,
		Enter: func(ctx C) pipeline.Outcome {
			for _, d := range dirs {
				if name, ok := d.Lookup(ctx.Request()); ok {
					return pipeline.Respond(d.Serve(name))
				}
			}
			return pipeline.Continue()
		},
	}
}

// Favicon answers GET /favicon.ico with 204 so browsers stop asking.
func Favicon[C handler.Context]() pipeline.Stage[C] {
	return pipeline.Stage[C]{
		Name: StageFavicon,
		Enter: func(ctx C) pipeline.Outcome {
			r := ctx.Request()
			if r.URL.Path != "/favicon.ico" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
				return pipeline.Continue()
			}
			return pipeline.Respond(response.NoContent())
		},
	}
}
