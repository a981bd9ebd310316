// Package engine adapts github.com/pdfcpu/pdfcpu for the transform API.
//
// Every operation is stateless and fully in-memory: inputs arrive as byte
// slices, outputs are rendered into buffers and returned. Nothing touches
// disk. Failures surface as wrapped sentinel errors so the HTTP layer can
// map them to status codes without string inspection.
package engine
