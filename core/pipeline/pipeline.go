package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/response"
)

// Stage is one step of the request pipeline.
//
// Enter runs on the way in, in registration order, and decides whether the
// request continues. Leave is optional and runs on the way out, in reverse
// order, for every stage whose Enter let the request through or answered it.
// Leave may wrap the response or persist request state; an error from Leave
// replaces the response with the failure handler's output.
type Stage[C handler.Context] struct {
	Name  string
	Enter func(ctx C) Outcome
	Leave func(ctx C, resp handler.Response) (handler.Response, error)
}

// Pipeline drives a request through an ordered list of stages.
type Pipeline[C handler.Context] struct {
	stages       []Stage[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	onFailure    func(ctx C, err error) handler.Response
	errorHandler handler.ErrorHandler[C]
	logger       *slog.Logger
}

// New creates a pipeline. It panics without a context factory, since no
// request could be served.
func New[C handler.Context](opts ...Option[C]) *Pipeline[C] {
	p := &Pipeline[C]{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	p.onFailure = defaultFailure[C]
	for _, opt := range opts {
		opt(p)
	}
	if p.newContext == nil {
		panic(ErrNoContextFactory)
	}
	if p.errorHandler == nil {
		p.errorHandler = p.renderFailure
	}
	return p
}

// Use appends stages. Registration order is execution order.
// Stage names must be unique so the order can be inspected.
func (p *Pipeline[C]) Use(stages ...Stage[C]) {
	for _, st := range stages {
		for _, existing := range p.stages {
			if existing.Name == st.Name {
				panic(fmt.Errorf("%w: %s", ErrDuplicateStage, st.Name))
			}
		}
		p.stages = append(p.stages, st)
	}
}

// Names returns stage names in execution order.
func (p *Pipeline[C]) Names() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.Name
	}
	return names
}

// Run executes the stages and returns the response to render. It never
// writes to the client itself.
func (p *Pipeline[C]) Run(ctx C) handler.Response {
	var resp handler.Response
	entered := len(p.stages)

loop:
	for i, st := range p.stages {
		if st.Enter == nil {
			continue
		}
		out := p.enter(ctx, st)
		switch out.Kind() {
		case KindContinue:
			continue
		case KindRespond:
			entered = i + 1
			resp = out.Response()
			if resp == nil {
				resp = p.fail(ctx, st.Name, ErrNilResponse)
			}
			break loop
		case KindFail:
			entered = i
			resp = p.fail(ctx, st.Name, out.Err())
			break loop
		}
	}

	if resp == nil {
		resp = p.fail(ctx, "", response.ErrNotFound.WithError(ErrNotFound))
	}

	for i := entered - 1; i >= 0; i-- {
		st := p.stages[i]
		if st.Leave == nil {
			continue
		}
		next, err := p.leave(ctx, st, resp)
		if err != nil {
			resp = p.fail(ctx, st.Name, err)
			continue
		}
		if next != nil {
			resp = next
		}
	}

	return resp
}

// enter runs st.Enter. A panic becomes a failed outcome, so the failure
// page still travels back through the stages already entered.
func (p *Pipeline[C]) enter(ctx C, st Stage[C]) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = p.recovered(ctx, st.Name, rec)
		}
	}()
	return st.Enter(ctx)
}

func (p *Pipeline[C]) leave(ctx C, st Stage[C], resp handler.Response) (next handler.Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			next, err = nil, p.recovered(ctx, st.Name, rec).Err()
		}
	}()
	return st.Leave(ctx, resp)
}

func (p *Pipeline[C]) recovered(ctx C, stage string, rec any) Outcome {
	perr := &panicError{value: rec, stack: debug.Stack()}
	if Written(ctx.ResponseWriter()) {
		// The client already has part of a response; keep it.
		p.logger.Error("panic after response written",
			logger.Error(perr),
			slog.String("stage", stage),
			slog.String("stack", string(perr.stack)),
		)
		return Respond(func(http.ResponseWriter, *http.Request) error { return nil })
	}
	return Fail(perr)
}

// ServeHTTP implements http.Handler.
func (p *Pipeline[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)
	ctx := p.newContext(ww, r)

	defer func() {
		if rec := recover(); rec != nil {
			perr := &panicError{value: rec, stack: debug.Stack()}
			if ww.Written() {
				p.logger.Error("panic after response written",
					logger.Error(perr),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(ww.Status()),
					slog.String("stack", string(perr.stack)),
				)
				return
			}
			p.errorHandler(ctx, perr)
		}
	}()

	resp := p.Run(ctx)
	if err := resp(ww, ctx.Request()); err != nil {
		if ww.Written() {
			p.logger.Error("response failed after headers were sent",
				logger.Error(err),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(ww.Status()),
			)
			return
		}
		p.errorHandler(ctx, err)
	}
}

func (p *Pipeline[C]) fail(ctx C, stage string, err error) handler.Response {
	if stage != "" {
		err = &StageError{Stage: stage, Err: err}
	}
	resp := p.onFailure(ctx, err)
	if resp == nil {
		return defaultFailure(ctx, err)
	}
	return resp
}

// renderFailure is the default render-time error handler: it renders the
// failure handler's page directly, then falls back to plain text.
func (p *Pipeline[C]) renderFailure(ctx C, err error) {
	resp := p.onFailure(ctx, err)
	if resp == nil {
		response.ErrorHandler(ctx, err)
		return
	}
	if rerr := resp(ctx.ResponseWriter(), ctx.Request()); rerr != nil {
		p.logger.Error("failure page could not be rendered", logger.Error(rerr), logger.Errors(err))
		if !Written(ctx.ResponseWriter()) {
			response.ErrorHandler(ctx, err)
		}
	}
}

func defaultFailure[C handler.Context](_ C, err error) handler.Response {
	httpErr := response.AsHTTPError(err)
	msg := httpErr.Message
	if httpErr.Status >= http.StatusInternalServerError {
		msg = http.StatusText(httpErr.Status)
	}
	return response.StringWithStatus(msg, httpErr.Status)
}
