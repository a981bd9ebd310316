// Package archive packages multi-file transform outputs into a single
// compressed container for download.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// File is one named entry destined for the archive.
type File struct {
	Name string
	Data []byte
}

// Zip builds an in-memory ZIP archive from the given files, preserving
// order. Entry names are used as-is; callers are expected to pass
// sanitized names.
func Zip(files []File) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for _, f := range files {
		w, err := zw.Create(f.Name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create zip entry %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write zip entry %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zip writer: %w", err)
	}

	return buf.Bytes(), nil
}
