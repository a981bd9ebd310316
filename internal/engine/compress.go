package engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// CompressionEstimate reports the predicted outcome of compressing a
// document without returning the compressed bytes.
type CompressionEstimate struct {
	OriginalSize     int64   `json:"original_size"`
	EstimatedSize    int64   `json:"estimated_size"`
	CompressionRatio float64 `json:"compression_ratio"`
	SizeReduction    int64   `json:"size_reduction"`
}

// Compress rewrites the document through the optimizer, deduplicating
// resources and dropping unreferenced objects. The level and DPI knobs are
// accepted for API compatibility; the optimizer does not downsample
// images, so they only gate validation upstream.
func (e *Engine) Compress(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(doc), &buf, e.conf()); err != nil {
		return nil, classify(fmt.Errorf("failed to optimize document: %w", err))
	}
	// Optimization occasionally grows small documents; keep the original
	// when it is already the smaller artifact.
	if buf.Len() >= len(doc) {
		return doc, nil
	}
	return buf.Bytes(), nil
}

// EstimateCompression runs the optimizer and reports sizes without
// returning the output.
func (e *Engine) EstimateCompression(doc []byte) (CompressionEstimate, error) {
	out, err := e.Compress(doc)
	if err != nil {
		return CompressionEstimate{}, err
	}

	est := CompressionEstimate{
		OriginalSize:  int64(len(doc)),
		EstimatedSize: int64(len(out)),
	}
	est.SizeReduction = est.OriginalSize - est.EstimatedSize
	if est.OriginalSize > 0 {
		est.CompressionRatio = float64(est.EstimatedSize) / float64(est.OriginalSize)
	}
	return est, nil
}

// Repair re-reads the document under relaxed validation and writes a clean
// copy, recovering from broken xref tables and damaged trailers where
// pdfcpu can still make sense of the object stream.
func (e *Engine) Repair(doc []byte) ([]byte, error) {
	ctx, err := api.ReadContext(bytes.NewReader(doc), e.conf())
	if err != nil {
		return nil, classify(fmt.Errorf("%w: %w", ErrInvalidPDF, err))
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, classify(fmt.Errorf("%w: %w", ErrInvalidPDF, err))
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, classify(fmt.Errorf("failed to rewrite document: %w", err))
	}
	return buf.Bytes(), nil
}
