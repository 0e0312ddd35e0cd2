package pipeline

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// Option configures a Pipeline.
type Option[C handler.Context] func(*Pipeline[C])

// WithContextFactory sets how the request context is built. Required.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request) C) Option[C] {
	return func(p *Pipeline[C]) {
		p.newContext = f
	}
}

// WithFailureHandler sets the sink that turns a failed stage into a response.
// Its response still passes back through the Leave step of outer stages.
func WithFailureHandler[C handler.Context](f func(ctx C, err error) handler.Response) Option[C] {
	return func(p *Pipeline[C]) {
		if f != nil {
			p.onFailure = f
		}
	}
}

// WithErrorHandler sets the fallback for errors raised while rendering.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(p *Pipeline[C]) {
		if h != nil {
			p.errorHandler = h
		}
	}
}

// WithLogger sets the logger used for failures that cannot reach the client.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(p *Pipeline[C]) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStages registers stages at construction time.
func WithStages[C handler.Context](stages ...Stage[C]) Option[C] {
	return func(p *Pipeline[C]) {
		p.stages = append(p.stages, stages...)
	}
}
