package response_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/response"
)

func TestTemplateName(t *testing.T) {
	t.Parallel()

	tmpl := template.Must(template.New("root").Parse(
		`{{define "page"}}<h1>{{.Title}}</h1>{{end}}{{define "broken"}}{{.Missing.Field}}{{end}}`,
	))

	t.Run("renders named template", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := response.TemplateName(tmpl, "page", map[string]string{"Title": "<Shop>"})(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<h1>&lt;Shop&gt;</h1>", w.Body.String())
	})

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := response.TemplateNameWithStatus(tmpl, "page", map[string]string{"Title": "x"}, http.StatusNotFound)(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("failing template writes nothing", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := response.TemplateName(tmpl, "broken", struct{}{})(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Error(t, err)
		assert.Empty(t, w.Body.String())
		assert.Empty(t, w.Header().Get("Content-Type"))
	})

	t.Run("nil template", func(t *testing.T) {
		t.Parallel()
		err := response.TemplateName(nil, "page", nil)(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, response.ErrNilTemplate)
	})
}
