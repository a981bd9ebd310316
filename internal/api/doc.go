// Package api exposes the PDF transform operations over HTTP.
//
// Each route accepts a multipart form, validates the uploads through
// pkg/upload, runs the transform in internal/engine and streams the result
// back as an attachment. Multi-file results are packaged into a single zip
// archive. Errors leave as a JSON envelope with a stable shape.
package api
