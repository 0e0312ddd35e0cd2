package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// maxMemory caps the in-memory part of a multipart body parsed here.
const maxMemory = 10 << 20

// Form binds `form:"name"` fields from the request body. A body already
// parsed by an upstream stage is read from r.PostForm; otherwise
// url-encoded and multipart bodies are parsed on demand.
func Form() Binder {
	return func(r *http.Request, v any) error {
		if r.PostForm == nil {
			if err := parseBody(r); err != nil {
				return err
			}
		}
		return bind(v, "form", fromValues(r.PostForm), ErrFailedToParseForm)
	}
}

func parseBody(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ErrMissingContentType
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		err = r.ParseForm()
	case "multipart/form-data":
		err = r.ParseMultipartForm(maxMemory)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
	}
	return nil
}

// Query binds `query:"name"` fields from the URL query string.
func Query() Binder {
	return func(r *http.Request, v any) error {
		return bind(v, "query", fromValues(r.URL.Query()), ErrFailedToParseQuery)
	}
}

// Path binds `path:"name"` fields through extractor, usually
// router.URLParam. Empty params leave the field untouched.
func Path(extractor func(r *http.Request, name string) string) Binder {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: nil extractor", ErrFailedToParsePath)
		}
		return bind(v, "path", func(name string) (string, bool) {
			s := extractor(r, name)
			return s, s != ""
		}, ErrFailedToParsePath)
	}
}
