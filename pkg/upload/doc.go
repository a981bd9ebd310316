// Package upload validates untrusted multipart file uploads before any
// processing touches their content.
//
// Content types are detected from leading magic bytes, never from the
// client-declared Content-Type header or the filename extension, which
// prevents spoofing attacks using renamed files. Sizes are measured by
// seeking the opened part, never by trusting a client-supplied length.
// Filenames are sanitized for safe use in response headers.
//
// # Usage
//
//	fh := r.MultipartForm.File["file"][0]
//
//	name, err := upload.ValidateAndSanitize(fh, 100<<20, upload.TypePDF)
//	if err != nil {
//	    // upload.ErrContentTypeNotAllowed or upload.ErrFileTooLarge
//	}
//
// All checks restore the stream position, so the same file header can be
// opened and read from offset 0 afterwards.
package upload
