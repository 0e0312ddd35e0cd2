package storage

import (
	"context"
	"mime/multipart"
)

// Storage saves and removes files addressed by a relative path.
type Storage interface {
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error)
	Delete(ctx context.Context, path string) error
	// URL returns the public URL clients use to fetch path.
	URL(path string) string
}

// File describes a stored file.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	AbsolutePath string // empty for remote backends
	RelativePath string
}
