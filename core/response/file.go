package response

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// Inline sends in-memory data the browser should display, such as a
// generated invoice. If contentType is empty it is derived from filename.
func Inline(data []byte, filename, contentType string) handler.Response {
	return document("inline", data, filename, contentType)
}

// Attachment sends in-memory data the browser should save as filename.
func Attachment(data []byte, filename, contentType string) handler.Response {
	return document("attachment", data, filename, contentType)
}

func document(disposition string, data []byte, filename, contentType string) handler.Response {
	// Newlines and quotes would break out of the header value.
	filename = strings.NewReplacer("\n", "", "\r", "", `"`, "'").Replace(filename)
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(data)
		return err
	}
}
