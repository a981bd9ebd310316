package api

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/internal/pagespec"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

func (s *Service) handleRemovePages(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pages, err := pagespec.ParseList(r.FormValue("pages_to_remove"))
	if err != nil {
		s.writeError(w, r, httperr.InvalidParameter("invalid pages_to_remove: %v", err))
		return
	}

	out, err := s.pdf.RemovePages(file.Data, pages)
	if err != nil {
		s.writeError(w, r, engineError("removing pages", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfremoved_pages.pdf", contentTypePDF, out)
}

func (s *Service) handleExtractPages(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pages, err := parsePageSpec(r.FormValue("pages_to_extract"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.ExtractPages(file.Data, pages)
	if err != nil {
		s.writeError(w, r, engineError("extracting pages", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfextracted.pdf", contentTypePDF, out)
}

func (s *Service) handleOrganizePages(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pages, err := pagespec.ParseList(r.FormValue("pages_to_organize"))
	if err != nil {
		s.writeError(w, r, httperr.InvalidParameter("invalid pages_to_organize: %v", err))
		return
	}

	out, err := s.pdf.ExtractPages(file.Data, pages)
	if err != nil {
		s.writeError(w, r, engineError("organizing pages", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdforganized.pdf", contentTypePDF, out)
}

func (s *Service) handleRepair(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.Repair(file.Data)
	if err != nil {
		s.writeError(w, r, engineError("repairing PDF", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfrepaired.pdf", contentTypePDF, out)
}

func (s *Service) handleRotate(w http.ResponseWriter, r *http.Request) {
	files, err := s.readUploads(r, "files", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var pages []int
	if raw := r.FormValue("pages"); raw != "" {
		pages, err = pagespec.ParseList(raw)
		if err != nil {
			s.writeError(w, r, httperr.InvalidParameter("invalid pages: %v", err))
			return
		}
	}

	// Rotation angles arrive as one indexed field per file.
	rotated := make([][]byte, len(files))
	for i, f := range files {
		degrees, err := formInt(r, fmt.Sprintf("rotation_%d", i), 0)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if degrees%360 == 0 {
			rotated[i] = f.Data
			continue
		}

		out, err := s.pdf.Rotate(f.Data, degrees, pages)
		if err != nil {
			s.writeError(w, r, engineError("rotating PDF", err))
			return
		}
		rotated[i] = out
	}

	out := rotated[0]
	if len(rotated) > 1 {
		out, err = s.pdf.Merge(rotated)
		if err != nil {
			s.writeError(w, r, engineError("rotating PDF", err))
			return
		}
	}
	s.streamAttachment(w, files[0].base()+"Dpdfrotated.pdf", contentTypePDF, out)
}
