// Package upload turns a multipart image field into a stored file.
//
// Parsing never fails the request. A file with a content type outside the
// allow-list is dropped without being written, and the outcome is reported
// as a Result: Accepted, Rejected or None.
package upload

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/shopfront/core/storage"
)

// DefaultAllowed lists the image content types accepted by default.
var DefaultAllowed = []string{"image/png", "image/jpg", "image/jpeg"}

// Config configures Parse.
type Config struct {
	Field    string   `env:"UPLOAD_FIELD" envDefault:"image"`
	MaxBytes int64    `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	Allowed  []string `env:"UPLOAD_ALLOWED_TYPES" envSeparator:","`
	// Now is the clock used for file names; time.Now when nil.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Field == "" {
		c.Field = "image"
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	if len(c.Allowed) == 0 {
		c.Allowed = DefaultAllowed
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Result is the outcome of processing the upload field.
type Result interface {
	isResult()
}

// Accepted holds a stored file.
type Accepted struct {
	File *storage.File
	URL  string
}

// Rejected reports a file that was dropped.
type Rejected struct {
	Reason string
}

// None means the request carried no file.
type None struct{}

func (Accepted) isResult() {}
func (Rejected) isResult() {}
func (None) isResult()     {}

// Allowed reports whether contentType is in allowed.
func Allowed(contentType string, allowed []string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return slices.Contains(allowed, ct)
}

// Filename builds the stored name: the UTC ISO-8601 timestamp with ':'
// replaced by '-', then '-' and the sanitized original name. The client's
// extension is replaced by one derived from contentType, so files are
// always served as the type they were accepted as.
func Filename(now time.Time, original, contentType string) string {
	stamp := strings.ReplaceAll(now.UTC().Format("2006-01-02T15:04:05.000Z"), ":", "-")
	name := storage.SanitizeFilename(original)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return stamp + "-" + name + Extension(contentType)
}

// Extension returns the file extension for an image content type, or an
// empty string when the type has none registered.
func Extension(contentType string) string {
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if ext, ok := imageExtensions[ct]; ok {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
		return exts[0]
	}
	return ""
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// Parse reads the multipart body of r and stores the first file of the
// configured field. Form values end up in r.Form and r.PostForm as with
// ParseForm. Only storage failures are returned as errors.
func Parse(ctx context.Context, r *http.Request, store storage.Storage, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if !IsMultipart(r) {
		return None{}, nil
	}

	if r.MultipartForm == nil {
		r.Body = http.MaxBytesReader(nil, r.Body, cfg.MaxBytes)
		if err := r.ParseMultipartForm(cfg.MaxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return Rejected{Reason: "file too large"}, nil
			}
			return Rejected{Reason: "malformed multipart body"}, nil
		}
	}

	fh := first(r.MultipartForm, cfg.Field)
	if fh == nil {
		return None{}, nil
	}

	if !Allowed(fh.Header.Get("Content-Type"), cfg.Allowed) {
		return Rejected{Reason: fmt.Sprintf("content type %q is not allowed", fh.Header.Get("Content-Type"))}, nil
	}

	file, err := store.Save(ctx, fh, Filename(cfg.Now(), fh.Filename, fh.Header.Get("Content-Type")))
	if err != nil {
		return nil, err
	}
	return Accepted{File: file, URL: store.URL(file.RelativePath)}, nil
}

func first(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := form.File[field]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}
