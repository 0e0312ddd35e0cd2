package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// WithCache sets caching headers before resp renders. A maxAge of zero or
// less forbids any caching, which suits per-user documents.
func WithCache(resp handler.Response, maxAge time.Duration) handler.Response {
	if resp == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		if maxAge > 0 {
			w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
		} else {
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("Pragma", "no-cache")
		}
		return resp(w, r)
	}
}
