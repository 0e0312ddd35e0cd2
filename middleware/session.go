package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/session"
)

type sessionKey struct{}

// ErrNoSession is returned by stages that need the session stage before them.
var ErrNoSession = errors.New("session is not loaded")

// SessionTransport loads the session of a request and writes it back.
type SessionTransport[Data any] interface {
	Load(r *http.Request) (session.Session[Data], error)
	Save(ctx context.Context, w http.ResponseWriter, sess session.Session[Data]) error
}

// SessionConfig configures the session stage.
type SessionConfig[Data any] struct {
	// Transport is required.
	Transport SessionTransport[Data]
	// Logger for store failures (default: discard).
	Logger *slog.Logger
}

// Session loads the request session on the way in and persists it on the
// way out. Handlers mutate it in place through SessionFrom.
//
// Unknown or expired client tokens yield a new anonymous session, which is
// only written once something modifies it. Any other load error fails the
// request, and so does a failed save: the client never sees a page whose
// session changes were lost.
func Session[C handler.Context, Data any](cfg SessionConfig[Data]) pipeline.Stage[C] {
	if cfg.Transport == nil {
		panic("session stage: transport is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return pipeline.Stage[C]{
		Name: StageSession,
		Enter: func(ctx C) pipeline.Outcome {
			sess, err := cfg.Transport.Load(ctx.Request())
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return pipeline.Fail(ctxErr)
				}
				cfg.Logger.ErrorContext(ctx, "session could not be loaded",
					logger.Component("session"),
					logger.Error(err),
				)
				return pipeline.Fail(err)
			}
			ctx.SetValue(sessionKey{}, &sess)
			return pipeline.Continue()
		},
		Leave: func(ctx C, resp handler.Response) (handler.Response, error) {
			sess, ok := SessionFrom[Data](ctx)
			if !ok {
				return resp, nil
			}

			rec := headerRecorder{h: http.Header{}}
			if err := cfg.Transport.Save(ctx, rec, *sess); err != nil {
				cfg.Logger.ErrorContext(ctx, "session could not be saved",
					logger.Component("session"),
					logger.Error(err),
				)
				return nil, err
			}

			cookies := rec.h.Values("Set-Cookie")
			if len(cookies) == 0 {
				return resp, nil
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				for _, c := range cookies {
					w.Header().Add("Set-Cookie", c)
				}
				return resp(w, r)
			}, nil
		},
	}
}

// SessionFrom returns the request session. Changes made through the pointer
// are persisted when the session stage unwinds.
func SessionFrom[Data any](ctx context.Context) (*session.Session[Data], bool) {
	sess, ok := handler.Value[*session.Session[Data]](ctx, sessionKey{})
	return sess, ok && sess != nil
}

// MustSession is SessionFrom for handlers mounted behind the session stage.
func MustSession[Data any](ctx context.Context) *session.Session[Data] {
	sess, ok := SessionFrom[Data](ctx)
	if !ok {
		panic(ErrNoSession)
	}
	return sess
}

// RequireAuth redirects anonymous sessions to redirectTo.
func RequireAuth[C handler.Context, Data any](redirectTo string) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			sess, ok := SessionFrom[Data](ctx)
			if !ok || !sess.IsAuthenticated() {
				return response.Redirect(redirectTo)
			}
			return next(ctx)
		}
	}
}

// headerRecorder collects headers written by the transport before the
// response exists.
type headerRecorder struct {
	h http.Header
}

func (r headerRecorder) Header() http.Header         { return r.h }
func (r headerRecorder) Write(b []byte) (int, error) { return len(b), nil }
func (r headerRecorder) WriteHeader(int)             {}
