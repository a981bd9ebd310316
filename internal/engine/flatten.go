package engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Flatten strips interactive annotations, including form widgets, leaving
// only the static page content. Documents without annotations pass through
// unchanged.
func (e *Engine) Flatten(doc []byte) ([]byte, error) {
	conf := e.conf()
	conf.Cmd = model.REMOVEANNOTATIONS
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc), conf)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to remove annotations: %w", err))
	}
	removed, err := pdfcpu.RemoveAnnotations(ctx, nil, nil, nil, false)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to remove annotations: %w", err))
	}
	if !removed {
		return doc, nil
	}
	var buf bytes.Buffer
	if err := api.Write(ctx, &buf, conf); err != nil {
		return nil, classify(fmt.Errorf("failed to remove annotations: %w", err))
	}
	return buf.Bytes(), nil
}
