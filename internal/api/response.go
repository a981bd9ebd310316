package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/pkg/logger"
)

// errorResponse is the JSON envelope every failed request returns.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", logger.Error(err))
	}
}

// writeError maps err onto its HTTP representation. Internal detail is
// logged, never sent.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	he := httperr.FromError(err)
	if he.Code >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, logger.Error(err))
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "status", he.Code, logger.Error(err))
	}
	s.writeJSON(w, he.Code, errorResponse{Error: he.Message})
}

// streamAttachment sends data as a file download.
func (s *Service) streamAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error("failed to stream attachment", "filename", filename, logger.Error(err))
	}
}
