package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// fallbackName replaces filenames that sanitize down to nothing.
const fallbackName = "unnamed_file"

// maxFilenameLen caps sanitized filenames in bytes.
const maxFilenameLen = 255

// allowedNameChars keeps word characters, whitespace, hyphens and dots.
var allowedNameChars = regexp.MustCompile(`[^\w\s.-]`)

// ValidateContentType checks the detected content type against an allow-list.
// Detection uses magic bytes, so a JPEG renamed to "photo.pdf" still fails
// a PDF-only allow-list. The read position is restored after the peek.
func ValidateContentType(fh *multipart.FileHeader, allowed ...string) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if len(allowed) == 0 {
		return nil
	}

	detected, err := ContentType(fh)
	if err != nil {
		return err
	}

	if slices.Contains(allowed, detected) {
		return nil
	}

	return fmt.Errorf("detected type %s not in allowed types %v: %w", detected, allowed, ErrContentTypeNotAllowed)
}

// ValidateSize checks the actual byte size of an uploaded file against a
// ceiling. The size is measured by seeking the opened part to its end, not
// by trusting fh.Size or any client-supplied length header.
func ValidateSize(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSeekFile, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSeekFile, err)
	}

	if size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", size, maxBytes, ErrFileTooLarge)
	}

	return nil
}

// SanitizeFilename derives a name safe for response headers from an
// untrusted client filename. Path components are stripped, only word
// characters, whitespace, hyphens and dots survive, boundary dots and
// spaces are trimmed, ".." sequences are removed, and the result is capped
// at 255 bytes preserving the extension. The function is idempotent and
// never returns an empty string.
//
// Example:
//
//	upload.SanitizeFilename("../../../etc/passwd")  // "passwd"
//	upload.SanitizeFilename("###")                  // "unnamed_file"
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\x00", "")
	name = allowedNameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, ". ")
	name = strings.ReplaceAll(name, "..", "")

	if name == "" {
		return fallbackName
	}

	if len(name) > maxFilenameLen {
		ext := filepath.Ext(name)
		if len(ext) >= maxFilenameLen {
			return name[:maxFilenameLen]
		}
		name = name[:maxFilenameLen-len(ext)] + ext
	}

	return name
}

// ValidateAndSanitize is the single validation entry point for handlers:
// it checks the detected content type against the allow-list, enforces the
// size ceiling and returns the sanitized filename. File content is only
// safe to consume after this call succeeds.
func ValidateAndSanitize(fh *multipart.FileHeader, maxBytes int64, allowed ...string) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	if err := ValidateContentType(fh, allowed...); err != nil {
		return "", err
	}
	if err := ValidateSize(fh, maxBytes); err != nil {
		return "", err
	}

	return SanitizeFilename(fh.Filename), nil
}
