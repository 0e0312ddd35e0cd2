package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/router"
	"github.com/dmitrymomot/shopfront/pkg/clientip"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestObserver receives one call per finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration, bytes int64)
}

// AccessLogConfig configures the access log stage.
type AccessLogConfig struct {
	// Writer is the append-only sink. Required.
	Writer io.Writer
	// Observer optionally records request metrics.
	Observer RequestObserver
	// ClientIP resolves the logged client address (default: clientip.GetIP).
	ClientIP func(r *http.Request) string
	// OnWriteError is called when a line cannot be written. The request is
	// never affected.
	OnWriteError func(err error)
}

type requestIDKey struct{}
type accessStartKey struct{}

// OpenAccessLog opens path for appending, creating it and its directory
// when missing.
func OpenAccessLog(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// AccessLog writes one JSON line per request to cfg.Writer once the
// response has been rendered.
func AccessLog[C handler.Context](cfg AccessLogConfig) pipeline.Stage[C] {
	if cfg.Writer == nil {
		panic("access log: writer is required")
	}
	if cfg.ClientIP == nil {
		cfg.ClientIP = clientip.GetIP
	}
	sink := &errorWriter{w: cfg.Writer, onError: cfg.OnWriteError}
	log := slog.New(slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return pipeline.Stage[C]{
		Name: StageAccessLog,
		Enter: func(ctx C) pipeline.Outcome {
			id := ctx.Request().Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.New().String()
			}
			ctx.SetValue(requestIDKey{}, id)
			ctx.SetValue(accessStartKey{}, time.Now())
			return pipeline.Continue()
		},
		Leave: func(ctx C, resp handler.Response) (handler.Response, error) {
			id, _ := GetRequestID(ctx)
			start, ok := handler.Value[time.Time](ctx, accessStartKey{})
			if !ok {
				start = time.Now()
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(RequestIDHeader, id)
				sw := &statusWriter{ResponseWriter: w}
				err := resp(sw, r)

				status := sw.status
				if status == 0 {
					status = http.StatusOK
					if err != nil {
						status = response.AsHTTPError(err).Status
					}
				}
				d := time.Since(start)

				log.LogAttrs(context.Background(), slog.LevelInfo, "request",
					logger.RequestID(id),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(status),
					logger.BytesOut(sw.bytes),
					logger.Duration(d),
					logger.ClientIP(cfg.ClientIP(r)),
					logger.UserAgent(r.UserAgent()),
				)

				if cfg.Observer != nil {
					cfg.Observer.ObserveRequest(r.Method, router.RoutePattern(r), status, d, sw.bytes)
				}
				return err
			}, nil
		},
	}
}

// GetRequestID returns the id assigned by the access log stage.
func GetRequestID(ctx context.Context) (string, bool) {
	return handler.Value[string](ctx, requestIDKey{})
}

// errorWriter reports write failures instead of propagating them.
type errorWriter struct {
	mu      sync.Mutex
	w       io.Writer
	onError func(error)
}

func (e *errorWriter) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.w.Write(p)
	if err != nil && e.onError != nil {
		e.onError(err)
	}
	return n, err
}

// statusWriter records the status and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
