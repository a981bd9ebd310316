package api

import (
	"net/http"

	"github.com/dmitrymomot/pdfkit/internal/engine"
	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

func (s *Service) handleAddPassword(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	userPW := r.FormValue("user_password")
	if userPW == "" {
		s.writeError(w, r, httperr.InvalidParameter("user_password is required"))
		return
	}

	perms := engine.Permissions{}
	if perms.Print, err = formBool(r, "allow_printing", true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if perms.Copy, err = formBool(r, "allow_copying", true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if perms.Modify, err = formBool(r, "allow_modification", false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if perms.Annotate, err = formBool(r, "allow_annotation", false); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.pdf.Protect(file.Data, userPW, r.FormValue("owner_password"), perms)
	if err != nil {
		s.writeError(w, r, engineError("protecting PDF", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfprotected.pdf", contentTypePDF, out)
}

func (s *Service) handleRemovePassword(w http.ResponseWriter, r *http.Request) {
	file, err := s.readUpload(r, "file", s.allowed(upload.TypePDF)...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	password := r.FormValue("password")
	if password == "" {
		s.writeError(w, r, httperr.InvalidParameter("password is required"))
		return
	}

	out, err := s.pdf.Unlock(file.Data, password)
	if err != nil {
		s.writeError(w, r, engineError("unlocking PDF", err))
		return
	}
	s.streamAttachment(w, file.base()+"Dpdfunlocked.pdf", contentTypePDF, out)
}
