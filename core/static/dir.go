package static

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// Dir serves files from a directory mounted under a URL prefix.
// Directory listing is disabled; a directory is only served through its
// index.html.
type Dir struct {
	prefix string
	root   string
	fs     http.FileSystem
}

// NewDir mounts root under prefix. The directory must exist.
func NewDir(prefix, root string) (*Dir, error) {
	root = filepath.Clean(root)
	if err := validateStartup(root, true); err != nil {
		return nil, err
	}
	prefix = "/" + strings.Trim(prefix, "/")
	return &Dir{
		prefix: prefix,
		root:   root,
		fs:     neuteredFileSystem{fs: http.Dir(root)},
	}, nil
}

// MustDir is NewDir that panics, for wiring at startup.
func MustDir(prefix, root string) *Dir {
	d, err := NewDir(prefix, root)
	if err != nil {
		panic("static.Dir: " + err.Error())
	}
	return d
}

// Prefix returns the URL prefix the directory is mounted under.
func (d *Dir) Prefix() string {
	return d.prefix
}

// Lookup maps a request to a file name inside the directory. It reports
// false for other methods, other prefixes and missing files, so callers can
// fall through to the next handler.
func (d *Dir) Lookup(r *http.Request) (string, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return "", false
	}

	p := path.Clean("/" + r.URL.Path)
	var name string
	switch {
	case d.prefix == "/":
		name = p
	case p == d.prefix:
		name = "/"
	case strings.HasPrefix(p, d.prefix+"/"):
		name = strings.TrimPrefix(p, d.prefix)
	default:
		return "", false
	}

	if err := validatePathSecurity(d.root, filepath.Join(d.root, filepath.FromSlash(name))); err != nil {
		return "", false
	}

	f, err := d.fs.Open(name)
	if err != nil {
		return "", false
	}
	_ = f.Close()
	return name, true
}

// Serve renders the file found by Lookup.
func (d *Dir) Serve(name string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		f, err := d.fs.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return nil
			}
			return err
		}
		defer func() { _ = f.Close() }()

		info, err := f.Stat()
		if err != nil {
			return err
		}
		if info.IsDir() {
			index, err := d.fs.Open(strings.TrimSuffix(name, "/") + "/index.html")
			if err != nil {
				http.NotFound(w, r)
				return nil
			}
			defer func() { _ = index.Close() }()
			if info, err = index.Stat(); err != nil {
				return err
			}
			f = index
		}

		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
		return nil
	}
}

// Handler serves the directory as a route handler; misses render 404.
func Handler[C handler.Context](d *Dir) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		name, ok := d.Lookup(ctx.Request())
		if !ok {
			return func(w http.ResponseWriter, r *http.Request) error {
				http.NotFound(w, r)
				return nil
			}
		}
		return d.Serve(name)
	}
}
