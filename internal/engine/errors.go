package engine

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidPDF indicates the input could not be parsed as a PDF document.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")
	// ErrWrongPassword indicates decryption was attempted with an incorrect password.
	ErrWrongPassword = errors.New("incorrect password")
	// ErrPageOutOfRange indicates a requested page number exceeds the document length.
	ErrPageOutOfRange = errors.New("page number out of range")
	// ErrNoInput indicates an operation received no documents to work on.
	ErrNoInput = errors.New("no input documents provided")
	// ErrNoImages indicates the document contains no extractable images.
	ErrNoImages = errors.New("document contains no images")
	// ErrEmptyResult indicates a transform would produce a document with no pages.
	ErrEmptyResult = errors.New("operation would produce an empty document")
	// ErrUnsupportedFormat indicates the input is not in the format the operation expects.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrInvalidArgument indicates an operation parameter is out of its valid domain.
	ErrInvalidArgument = errors.New("invalid argument")
)

// classify maps raw pdfcpu errors onto the package sentinels. pdfcpu does
// not export a password sentinel for the ReadSeeker API, so password
// failures are recognized by message.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "not authorized") {
		return errors.Join(ErrWrongPassword, err)
	}
	return err
}
