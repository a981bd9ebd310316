package api

import (
	"net/http"

	"github.com/dmitrymomot/pdfkit/internal/engine"
	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/internal/pagespec"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

func (s *Service) handleAddWatermark(w http.ResponseWriter, r *http.Request) {
	files, err := s.readUploads(r, "files", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	image, hasImage, err := s.optionalUpload(r, "watermark_image", upload.TypeJPEG, upload.TypePNG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	text := r.FormValue("watermark_text")
	if text == "" && !hasImage {
		s.writeError(w, r, httperr.InvalidParameter("either watermark_text or watermark_image is required"))
		return
	}

	opacity, err := formFloat(r, "opacity", 1.0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rotation, err := formFloat(r, "rotation", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fontSize, err := formInt(r, "font_size", 48)
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

	opts := engine.WatermarkOptions{
		Text:     text,
		Position: formString(r, "position", "top-left"),
		Opacity:  opacity,
		Rotation: rotation,
		FontSize: fontSize,
		Pages:    pages,
	}
	if hasImage {
		opts.Image = image.Data
		opts.Text = ""
	}

	marked := make([][]byte, len(files))
	for i, f := range files {
		out, err := s.pdf.Watermark(f.Data, opts)
		if err != nil {
			s.writeError(w, r, engineError("applying watermark", err))
			return
		}
		marked[i] = out
	}

	out := marked[0]
	if len(marked) > 1 {
		out, err = s.pdf.Merge(marked)
		if err != nil {
			s.writeError(w, r, engineError("applying watermark", err))
			return
		}
	}
	s.streamAttachment(w, files[0].base()+"Dpdfwatermarked.pdf", contentTypePDF, out)
}

func (s *Service) handleAddPageNumbers(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	startPage, err := formInt(r, "start_page", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	skipFirst, err := formBool(r, "skip_first", false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fontSize, err := formInt(r, "font_size", 10)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.AddPageNumbers(file.Data, engine.PageNumberOptions{
		Position:  formString(r, "position", "bottom-center"),
		Format:    formString(r, "format_string", "{page}"),
		StartPage: startPage,
		SkipFirst: skipFirst,
		FontSize:  fontSize,
	})
	if err != nil {
		s.writeError(w, r, engineError("adding page numbers", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfnumbered.pdf", contentTypePDF, out)
}
