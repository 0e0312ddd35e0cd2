package response

import (
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// Error returns a response that fails at render time with err, handing it to
// the pipeline's error handling instead of writing anything.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
