package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/pdfkit/internal/engine"
	"github.com/dmitrymomot/pdfkit/internal/httperr"
	"github.com/dmitrymomot/pdfkit/internal/pagespec"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

// uploadError maps validation failures onto their HTTP status. The upload
// error messages are client-safe: detected type, allow-list, size limit.
func uploadError(err error) error {
	switch {
	case errors.Is(err, upload.ErrContentTypeNotAllowed):
		return httperr.Wrap(http.StatusUnsupportedMediaType, err.Error(), err)
	case errors.Is(err, upload.ErrFileTooLarge):
		return httperr.Wrap(http.StatusRequestEntityTooLarge, err.Error(), err)
	default:
		return httperr.Wrap(http.StatusBadRequest, "invalid upload", err)
	}
}

// engineError maps transform failures onto their HTTP status. Parameter
// and document problems belong to the client, anything unclassified is an
// internal failure with the detail kept server-side.
func engineError(operation string, err error) error {
	switch {
	case errors.Is(err, engine.ErrWrongPassword):
		return httperr.AuthenticationFailure()
	case errors.Is(err, engine.ErrInvalidArgument),
		errors.Is(err, engine.ErrPageOutOfRange),
		errors.Is(err, engine.ErrEmptyResult),
		errors.Is(err, engine.ErrNoInput),
		errors.Is(err, engine.ErrNoImages),
		errors.Is(err, engine.ErrInvalidPDF),
		errors.Is(err, engine.ErrUnsupportedFormat),
		errors.Is(err, pagespec.ErrInvalidSpec):
		return httperr.Wrap(http.StatusBadRequest, err.Error(), err)
	default:
		return httperr.EngineFailure(operation, err)
	}
}
