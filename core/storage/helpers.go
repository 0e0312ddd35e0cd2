package storage

import (
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// SanitizeFilename strips directories and characters that are unsafe in
// file names or object keys.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)
}

// GetMIMEType returns the declared content type of an uploaded file.
func GetMIMEType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		return "application/octet-stream"
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}

// GetExtension returns the lowercased extension of the uploaded file name.
func GetExtension(fh *multipart.FileHeader) string {
	return strings.ToLower(filepath.Ext(fh.Filename))
}

// cleanPath rejects traversal and absolute keys.
func cleanPath(path string) (string, error) {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	if path == "" || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}
	return path, nil
}
