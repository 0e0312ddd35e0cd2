package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/response"
)

func TestRedirect(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(method, "/login", nil)
			require.NoError(t, response.Redirect("/admin/products")(w, r))
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/admin/products", w.Header().Get("Location"))
		})
	}
}
