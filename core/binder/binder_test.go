package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/binder"
)

type productForm struct {
	Title       string `form:"title"`
	Price       string `form:"price"`
	Description string `form:"description"`
	Quantity    int    `form:"quantity"`
	Edit        bool   `form:"edit"`
	Ignored     string `form:"-"`
	Untagged    string
}

func urlencoded(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("urlencoded", func(t *testing.T) {
		t.Parallel()
		r := urlencoded(t, url.Values{
			"title":    {"Book\r\nSet-Cookie: x"},
			"price":    {"12.99"},
			"quantity": {"3"},
			"edit":     {"on"},
			"Ignored":  {"x"},
			"untagged": {"x"},
		})

		var in productForm
		require.NoError(t, binder.Form()(r, &in))

		assert.Equal(t, "BookSet-Cookie: x", in.Title)
		assert.Equal(t, "12.99", in.Price)
		assert.Equal(t, 3, in.Quantity)
		assert.True(t, in.Edit)
		assert.Empty(t, in.Ignored)
		assert.Empty(t, in.Untagged)
	})

	t.Run("already parsed multipart", func(t *testing.T) {
		t.Parallel()
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("title", "Lamp"))
		fw, err := mw.CreateFormFile("image", "lamp.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("png"))
		require.NoError(t, mw.Close())

		r := httptest.NewRequest(http.MethodPost, "/", &body)
		r.Header.Set("Content-Type", mw.FormDataContentType())
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var in productForm
		require.NoError(t, binder.Form()(r, &in))
		assert.Equal(t, "Lamp", in.Title)
	})

	t.Run("query does not shadow body", func(t *testing.T) {
		t.Parallel()
		r := urlencoded(t, url.Values{"title": {"Body"}})
		r.URL.RawQuery = "title=Query"

		var in productForm
		require.NoError(t, binder.Form()(r, &in))
		assert.Equal(t, "Body", in.Title)
	})
}

func TestFormErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		target      any
		want        error
	}{
		{"missing content type", "", "title=x", &productForm{}, binder.ErrMissingContentType},
		{"unsupported media type", "application/json", "{}", &productForm{}, binder.ErrUnsupportedMediaType},
		{"bad int", "application/x-www-form-urlencoded", "quantity=two", &productForm{}, binder.ErrFailedToParseForm},
		{"bad bool", "application/x-www-form-urlencoded", "edit=maybe", &productForm{}, binder.ErrFailedToParseForm},
		{"unsupported field", "application/x-www-form-urlencoded", "price=1", &struct {
			Price float64 `form:"price"`
		}{}, binder.ErrFailedToParseForm},
		{"not a pointer", "application/x-www-form-urlencoded", "title=x", productForm{}, binder.ErrFailedToParseForm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			assert.ErrorIs(t, binder.Form()(r, tt.target), tt.want)
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type pageQuery struct {
		Page     int  `query:"page"`
		Download bool `query:"download"`
	}

	tests := []struct {
		query string
		want  pageQuery
		err   bool
	}{
		{"page=3&download=true", pageQuery{Page: 3, Download: true}, false},
		{"download=yes", pageQuery{Download: true}, false},
		{"", pageQuery{}, false},
		{"page=abc", pageQuery{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/products?"+tt.query, nil)
			var q pageQuery
			err := binder.Query()(r, &q)
			if tt.err {
				assert.ErrorIs(t, err, binder.ErrFailedToParseQuery)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	type invoicePath struct {
		OrderID  string `path:"orderId"`
		Download bool   `query:"download"`
	}

	params := map[string]string{"orderId": "abc123", "download": "true"}
	extract := func(_ *http.Request, key string) string { return params[key] }
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	var p invoicePath
	require.NoError(t, binder.Path(extract)(r, &p))
	assert.Equal(t, "abc123", p.OrderID)
	assert.False(t, p.Download)

	assert.ErrorIs(t, binder.Path(nil)(r, &p), binder.ErrFailedToParsePath)
}
