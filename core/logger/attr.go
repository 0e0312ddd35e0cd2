package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Helpers that take an error or an identifier return the zero Attr when
// there is nothing to log; slog drops it from the record.

// Error logs err under "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	var as []slog.Attr
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component names the part of the shop that logged the record.
func Component(name string) slog.Attr { return slog.String("component", name) }

// Key logs an arbitrary value; nil is dropped.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// RequestID tags a record with the access-log request id.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// UserID tags a record with the signed-in user; anonymous requests get nothing.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// Access log fields.

func Method(method string) slog.Attr { return slog.String("method", method) }
func Path(path string) slog.Attr { return slog.String("path", path) }
func StatusCode(code int) slog.Attr { return slog.Int("status_code", code) }
func ClientIP(ip string) slog.Attr { return slog.String("client_ip", ip) }
func UserAgent(ua string) slog.Attr { return slog.String("user_agent", ua) }
func BytesOut(n int64) slog.Attr { return slog.Int64("bytes_out", n) }
func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }
