package upload

import "errors"

var (
	// Security and validation errors
	ErrNilFileHeader         = errors.New("file header is nil")
	ErrFileTooLarge          = errors.New("file size exceeds maximum allowed size")
	ErrContentTypeNotAllowed = errors.New("content type is not allowed")

	// I/O operation errors - wrapped with context for debugging
	ErrFailedToOpenFile = errors.New("failed to open file")
	ErrFailedToReadFile = errors.New("failed to read file")
	ErrFailedToSeekFile = errors.New("failed to seek file")
)
