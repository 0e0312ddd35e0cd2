package metrics

import (
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// Handler adapts the exposition endpoint to a typed route handler.
func Handler[C handler.Context](m *Metrics) handler.HandlerFunc[C] {
	return func(C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			m.Handler().ServeHTTP(w, r)
			return nil
		}
	}
}
