package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

// multipartMemory caps how much of a parsed form stays in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// namedFile is one validated upload with its sanitized filename.
type namedFile struct {
	Name string
	Data []byte
}

// base returns the filename without its extension, the stem every output
// filename is derived from.
func (f namedFile) base() string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

func (s *Service) parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return httperr.InvalidParameter("invalid multipart form: %v", err)
	}
	return nil
}

// readUpload validates and loads a single required upload field.
func (s *Service) readUpload(r *http.Request, field string, allowed ...string) (namedFile, error) {
	if err := s.parseForm(r); err != nil {
		return namedFile{}, err
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return namedFile{}, httperr.InvalidParameter("missing file field %q", field)
	}
	return s.loadFile(r.MultipartForm.File[field][0], allowed...)
}

// readUploads validates and loads a repeated upload field, at least one
// file required.
func (s *Service) readUploads(r *http.Request, field string, allowed ...string) ([]namedFile, error) {
	if err := s.parseForm(r); err != nil {
		return nil, err
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, httperr.InvalidParameter("missing file field %q", field)
	}

	files := make([]namedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := s.loadFile(fh, allowed...)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// optionalUpload loads an upload field that may be absent.
func (s *Service) optionalUpload(r *http.Request, field string, allowed ...string) (namedFile, bool, error) {
	if err := s.parseForm(r); err != nil {
		return namedFile{}, false, err
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return namedFile{}, false, nil
	}
	f, err := s.loadFile(r.MultipartForm.File[field][0], allowed...)
	if err != nil {
		return namedFile{}, false, err
	}
	return f, true, nil
}

func (s *Service) loadFile(fh *multipart.FileHeader, allowed ...string) (namedFile, error) {
	name, err := upload.ValidateAndSanitize(fh, s.cfg.MaxFileSize, allowed...)
	if err != nil {
		return namedFile{}, uploadError(err)
	}

	f, err := fh.Open()
	if err != nil {
		return namedFile{}, httperr.Wrap(http.StatusInternalServerError, "failed to open upload", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return namedFile{}, httperr.Wrap(http.StatusInternalServerError, "failed to read upload", err)
	}
	return namedFile{Name: name, Data: data}, nil
}

// Form value parsing. Absent fields fall back to their defaults, malformed
// values are client errors.

// formOptional distinguishes an absent field from an empty one: absent
// yields nil, present yields the value even when empty.
func formOptional(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

func formString(r *http.Request, key, def string) string {
	v := r.FormValue(key)
	if v == "" {
		return def
	}
	return v
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := r.FormValue(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, httperr.InvalidParameter("%s must be an integer", key)
	}
	return n, nil
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	v := r.FormValue(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, httperr.InvalidParameter("%s must be a number", key)
	}
	return f, nil
}

func formBool(r *http.Request, key string, def bool) (bool, error) {
	v := r.FormValue(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(v)))
	if err != nil {
		return false, httperr.InvalidParameter("%s must be a boolean", key)
	}
	return b, nil
}
