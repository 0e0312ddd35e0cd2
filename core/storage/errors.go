package storage

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid storage configuration")
	ErrNilFileHeader      = errors.New("file header is nil")
	ErrInvalidPath        = errors.New("invalid path")
	ErrFileNotFound       = errors.New("file not found")
	ErrFailedToOpenFile   = errors.New("failed to open file")
	ErrFailedToSaveFile   = errors.New("failed to save file")
	ErrFailedToDelete     = errors.New("failed to delete file")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
	ErrRequestTimeout     = errors.New("request timeout")
	ErrServiceUnavailable = errors.New("storage service unavailable")
)
