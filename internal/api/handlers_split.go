package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/pdfkit/internal/archive"
	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/internal/pagespec"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

const (
	contentTypePDF = "application/pdf"
	contentTypeZip = "application/zip"

	// maxTargetSizeMB bounds /split_by_file_size requests.
	maxTargetSizeMB = 100
)

func (s *Service) handleMergePDFs(w http.ResponseWriter, r *http.Request) {
	files, err := s.readUploads(r, "files", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	docs := make([][]byte, len(files))
	for i, f := range files {
		docs[i] = f.Data
	}

	out, err := s.pdf.Merge(docs)
	if err != nil {
		s.writeError(w, r, engineError("merging PDFs", err))
		return
	}
	s.streamAttachment(w, files[0].base()+"Dpdfmerged.pdf", contentTypePDF, out)
}

func (s *Service) handleSplitPDFs(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ranges, err := parseRangesModel(r.FormValue("ranges_model"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	parts, err := s.pdf.SplitByRanges(file.Data, ranges)
	if err != nil {
		s.writeError(w, r, engineError("splitting PDF", err))
		return
	}
	s.streamZip(w, file.base()+"Dpdfsplit.zip", parts)
}

func (s *Service) handleSplitByPageCount(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	perPart, err := formInt(r, "pages_per_split", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if perPart < 1 {
		s.writeError(w, r, httperr.InvalidParameter("pages_per_split must be at least 1"))
		return
	}

	parts, err := s.pdf.SplitByPageCount(file.Data, perPart)
	if err != nil {
		s.writeError(w, r, engineError("splitting PDF", err))
		return
	}
	s.streamZip(w, file.base()+"Dpdfsplit_by_count.zip", parts)
}

func (s *Service) handleSplitByFileSize(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	targetMB, err := formFloat(r, "target_size_mb", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if targetMB <= 0 || targetMB > maxTargetSizeMB {
		s.writeError(w, r, httperr.InvalidParameter("target_size_mb must be between 0 and %d", maxTargetSizeMB))
		return
	}

	parts, err := s.pdf.SplitBySize(file.Data, int64(targetMB*1024*1024))
	if err != nil {
		s.writeError(w, r, engineError("splitting PDF", err))
		return
	}
	s.streamZip(w, file.base()+"Dpdfsplit_by_size.zip", parts)
}

func (s *Service) handleExtractPagesSeparate(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pages, err := parsePageSpec(r.FormValue("pages"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	parts, err := s.pdf.ExtractPagesSeparate(file.Data, pages)
	if err != nil {
		s.writeError(w, r, engineError("extracting pages", err))
		return
	}

	entries := make([]archive.File, len(parts))
	for i, p := range parts {
		entries[i] = archive.File{Name: fmt.Sprintf("page_%d.pdf", pages[i]), Data: p}
	}
	data, err := archive.Zip(entries)
	if err != nil {
		s.writeError(w, r, engineError("packaging pages", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfextracted_pages.zip", contentTypeZip, data)
}

// streamZip packages sequentially numbered split parts and streams the
// archive.
func (s *Service) streamZip(w http.ResponseWriter, filename string, parts [][]byte) {
	entries := make([]archive.File, len(parts))
	for i, p := range parts {
		entries[i] = archive.File{Name: fmt.Sprintf("split_%d.pdf", i+1), Data: p}
	}
	data, err := archive.Zip(entries)
	if err != nil {
		s.log.Error("failed to build zip archive", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "an unexpected error occurred"})
		return
	}
	s.streamAttachment(w, filename, contentTypeZip, data)
}

// parseRangesModel decodes the split request payload, a JSON object with a
// "ranges" list of [start, end] page pairs, 1-based and inclusive.
func parseRangesModel(raw string) ([]pagespec.Range, error) {
	if raw == "" {
		return nil, httperr.InvalidParameter("ranges_model is required")
	}

	var payload struct {
		Ranges [][]int `json:"ranges"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, httperr.InvalidParameter("ranges_model must be JSON: %v", err)
	}
	if len(payload.Ranges) == 0 {
		return nil, httperr.InvalidParameter("ranges_model must contain at least one range")
	}

	ranges := make([]pagespec.Range, len(payload.Ranges))
	for i, pair := range payload.Ranges {
		if len(pair) != 2 {
			return nil, httperr.InvalidParameter("range %d must be a [start, end] pair", i+1)
		}
		rng := pagespec.Range{Start: pair[0], End: pair[1]}
		if rng.Start < 1 || rng.End < rng.Start {
			return nil, httperr.InvalidParameter("range %d is not a valid page interval", i+1)
		}
		ranges[i] = rng
	}
	return ranges, nil
}

// parsePageSpec parses a page selection like "1,3-5,8" into page numbers,
// preserving order.
func parsePageSpec(raw string) ([]int, error) {
	if raw == "" {
		return nil, httperr.InvalidParameter("pages is required")
	}
	ranges, err := pagespec.ParseRanges(raw)
	if err != nil {
		return nil, httperr.InvalidParameter("invalid page selection: %v", err)
	}
	return pagespec.Expand(ranges), nil
}
