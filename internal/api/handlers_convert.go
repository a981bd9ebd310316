package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/pdfkit/internal/archive"
	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

func (s *Service) handleWordToPDF(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", upload.TypeDOCX)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.DocxToPDF(file.Data)
	if err != nil {
		s.writeError(w, r, engineError("converting Word document", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfword_to_pdf.pdf", contentTypePDF, out)
}

func (s *Service) handleImageToPDF(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", upload.TypeJPEG, upload.TypePNG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.ImagesToPDF([][]byte{file.Data})
	if err != nil {
		s.writeError(w, r, engineError("converting image", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfimage_to_pdf.pdf", contentTypePDF, out)
}

func (s *Service) handleExcelToPDF(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", upload.TypeXLSX)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.XlsxToPDF(file.Data)
	if err != nil {
		s.writeError(w, r, engineError("converting Excel workbook", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfexcel_to_pdf.pdf", contentTypePDF, out)
}

func (s *Service) handlePDFToImages(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dpi, err := formInt(r, "dpi", 150)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if dpi < 72 || dpi > 300 {
		s.writeError(w, r, httperr.InvalidParameter("dpi must be between 72 and 300"))
		return
	}

	format := strings.ToLower(formString(r, "image_format", "png"))
	if format == "jpeg" {
		format = "jpg"
	}
	if format != "png" && format != "jpg" {
		s.writeError(w, r, httperr.InvalidParameter("image_format must be png or jpg"))
		return
	}

	var pages []int
	if raw := r.FormValue("pages"); raw != "" {
		pages, err = parsePageSpec(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	imgs, err := s.pdf.ExtractImages(file.Data, format, pages)
	if err != nil {
		s.writeError(w, r, engineError("converting PDF to images", err))
		return
	}

	if len(imgs) == 1 {
		name := fmt.Sprintf("page_%d.%s", imgs[0].PageNr, imgs[0].Format)
		s.streamAttachment(w, file.base()+"Dpdf"+name, imageContentType(imgs[0].Format), imgs[0].Data)
		return
	}

	entries := make([]archive.File, len(imgs))
	for i, img := range imgs {
		entries[i] = archive.File{
			Name: fmt.Sprintf("page_%d_%d.%s", img.PageNr, i+1, img.Format),
			Data: img.Data,
		}
	}
	data, err := archive.Zip(entries)
	if err != nil {
		s.writeError(w, r, engineError("packaging images", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfimages.zip", contentTypeZip, data)
}

func imageContentType(format string) string {
	if format == "jpg" || format == "jpeg" {
		return "image/jpeg"
	}
	return "image/png"
}
