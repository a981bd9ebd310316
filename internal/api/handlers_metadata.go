package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/pdfkit/internal/engine"
	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

func (s *Service) handleFlatten(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.Flatten(file.Data)
	if err != nil {
		s.writeError(w, r, engineError("flattening PDF", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfflattened.pdf", contentTypePDF, out)
}

func (s *Service) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	md, err := s.pdf.ReadMetadata(file.Data)
	if err != nil {
		s.writeError(w, r, engineError("reading PDF metadata", err))
		return
	}
	s.writeJSON(w, http.StatusOK, md)
}

func (s *Service) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	upd := engine.MetadataUpdate{
		Title:    formOptional(r, "title"),
		Author:   formOptional(r, "author"),
		Subject:  formOptional(r, "subject"),
		Keywords: formOptional(r, "keywords"),
		Creator:  formOptional(r, "creator"),
	}

	out, err := s.pdf.UpdateMetadata(file.Data, upd)
	if err != nil {
		s.writeError(w, r, engineError("updating PDF metadata", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfmetadata_updated.pdf", contentTypePDF, out)
}

func (s *Service) handleDetectBlankPages(w http.ResponseWriter, r *http.Request) {
	file, threshold, err := s.blankPageRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	blank, err := s.pdf.DetectBlankPages(file.Data, threshold)
	if err != nil {
		s.writeError(w, r, engineError("detecting blank pages", err))
		return
	}
	if blank == nil {
		blank = []int{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"blank_pages": blank,
		"count":       len(blank),
	})
}

func (s *Service) handleRemoveBlankPages(w http.ResponseWriter, r *http.Request) {
	file, threshold, err := s.blankPageRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, removed, err := s.pdf.RemoveBlankPages(file.Data, threshold)
	if err != nil {
		s.writeError(w, r, engineError("removing blank pages", err))
		return
	}

	pages := make([]string, len(removed))
	for i, p := range removed {
		pages[i] = strconv.Itoa(p)
	}
	w.Header().Set("X-Removed-Pages", strings.Join(pages, ","))
	w.Header().Set("X-Removed-Count", strconv.Itoa(len(removed)))
	s.streamAttachment(w, file.base()+"Dpdfcleaned.pdf", contentTypePDF, out)
}

func (s *Service) blankPageRequest(r *http.Request) (namedFile, float64, error) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		return namedFile{}, 0, err
	}

	threshold, err := formFloat(r, "threshold", 0.99)
	if err != nil {
		return namedFile{}, 0, err
	}
	if threshold < 0.5 || threshold > 1.0 {
		return namedFile{}, 0, httperr.InvalidParameter("threshold must be between 0.5 and 1.0")
	}
	return file, threshold, nil
}
