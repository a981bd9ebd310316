package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// MIME types recognized by the signature table.
const (
	TypePDF         = "application/pdf"
	TypeJPEG        = "image/jpeg"
	TypePNG         = "image/png"
	TypeZIP         = "application/zip"
	TypeDOCX        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	TypeOctetStream = "application/octet-stream"
)

// sniffLen is how many leading bytes participate in detection. ZIP-based
// office formats need more than the 512 bytes http.DetectContentType reads
// because the discriminating entry names sit inside the archive directory.
const sniffLen = 2048

var (
	sigPDF  = []byte("%PDF-")
	sigJPEG = []byte{0xFF, 0xD8, 0xFF}
	sigPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	sigZIP  = []byte{0x50, 0x4B, 0x03, 0x04}
)

// DetectContentType identifies a file format from its leading bytes.
// It is a pure function of at most the first 2048 bytes: the same prefix
// always yields the same result. Unknown content maps to
// application/octet-stream, which no allow-list should contain.
func DetectContentType(prefix []byte) string {
	if len(prefix) > sniffLen {
		prefix = prefix[:sniffLen]
	}

	switch {
	case bytes.HasPrefix(prefix, sigPDF):
		return TypePDF
	case bytes.HasPrefix(prefix, sigJPEG):
		return TypeJPEG
	case bytes.HasPrefix(prefix, sigPNG):
		return TypePNG
	case bytes.HasPrefix(prefix, sigZIP):
		// OOXML containers are ZIP archives; the first entry names
		// reveal the flavor.
		if bytes.Contains(prefix, []byte("word/")) {
			return TypeDOCX
		}
		if bytes.Contains(prefix, []byte("xl/")) {
			return TypeXLSX
		}
		return TypeZIP
	default:
		return TypeOctetStream
	}
}

// ContentType detects the MIME type of an uploaded file by reading its
// leading bytes. The client-declared Content-Type is ignored entirely.
// The read position is restored so the file can be consumed afterwards.
func ContentType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToSeekFile, err)
	}

	return DetectContentType(buf[:n]), nil
}
