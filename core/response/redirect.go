package response

import (
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// Redirect creates a 302 Found response, the status every shop form and
// guard redirects with.
func Redirect(url string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, http.StatusFound)
		return nil
	}
}
