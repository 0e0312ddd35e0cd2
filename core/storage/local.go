package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

var _ Storage = (*Local)(nil)

// Local stores files under a root directory on disk.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates the root directory when missing. urlPrefix is the path
// the directory is served under.
func NewLocal(root, urlPrefix string) (*Local, error) {
	if root == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Local{root: abs, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Save copies the uploaded file to root/path.
func (l *Local) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	rel, err := cleanPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	dst := filepath.Join(l.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToSaveFile, err)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToSaveFile, err)
	}
	size, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("%w: %w", ErrFailedToSaveFile, err)
	}

	return &File{
		Filename:     SanitizeFilename(fh.Filename),
		Size:         size,
		MIMEType:     GetMIMEType(fh),
		Extension:    GetExtension(fh),
		AbsolutePath: dst,
		RelativePath: rel,
	}, nil
}

// Delete removes root/path.
func (l *Local) Delete(_ context.Context, path string) error {
	rel, err := cleanPath(path)
	if err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}
	if err := os.Remove(filepath.Join(l.root, filepath.FromSlash(rel))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, rel)
		}
		return fmt.Errorf("%w: %w", ErrFailedToDelete, err)
	}
	return nil
}

// URL joins the URL prefix and path.
func (l *Local) URL(path string) string {
	return strings.TrimSuffix(l.urlPrefix, "/") + "/" + strings.TrimPrefix(path, "/")
}

// Root returns the absolute root directory.
func (l *Local) Root() string {
	return l.root
}
