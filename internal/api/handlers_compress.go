package api

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/pdfkit/internal/archive"
	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

// compressionParams validates the shared /compress knobs. The optimizer
// does not consume them, but out-of-range requests still fail fast so
// clients notice bad values.
func compressionParams(r *http.Request) error {
	level, err := formInt(r, "compression_level", 50)
	if err != nil {
		return err
	}
	if level < 1 || level > 100 {
		return httperr.InvalidParameter("compression_level must be between 1 and 100")
	}

	dpi, err := formInt(r, "target_dpi", 150)
	if err != nil {
		return err
	}
	if dpi < 72 || dpi > 300 {
		return httperr.InvalidParameter("target_dpi must be between 72 and 300")
	}
	return nil
}

func (s *Service) handleCompress(w http.ResponseWriter, r *http.Request) {
	files, err := s.readUploads(r, "files", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := compressionParams(r); err != nil {
		s.writeError(w, r, err)
		return
	}

	compressed := make([][]byte, len(files))
	for i, f := range files {
		out, err := s.pdf.Compress(f.Data)
		if err != nil {
			s.writeError(w, r, engineError("compressing PDF", err))
			return
		}
		compressed[i] = out
	}

	if len(compressed) == 1 {
		s.streamAttachment(w, files[0].base()+"Dpdfcompressed.pdf", contentTypePDF, compressed[0])
		return
	}

	entries := make([]archive.File, len(compressed))
	for i, data := range compressed {
		entries[i] = archive.File{Name: fmt.Sprintf("%s_compressed.pdf", files[i].base()), Data: data}
	}
	data, err := archive.Zip(entries)
	if err != nil {
		s.writeError(w, r, engineError("packaging compressed PDFs", err))
		return
	}
	s.streamAttachment(w, files[0].base()+"Dpdfcompressed.zip", contentTypeZip, data)
}

func (s *Service) handleEstimateCompression(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := compressionParams(r); err != nil {
		s.writeError(w, r, err)
		return
	}

	est, err := s.pdf.EstimateCompression(file.Data)
	if err != nil {
		s.writeError(w, r, engineError("estimating compression", err))
		return
	}
	s.writeJSON(w, http.StatusOK, est)
}
