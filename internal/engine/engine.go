package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Engine performs PDF transforms in memory. The zero value is not usable;
// construct with New.
type Engine struct {
	log *slog.Logger
}

// New returns an Engine that logs operational detail to log.
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{log: log}
}

// conf returns a fresh pdfcpu configuration for a single operation.
// Configurations are mutated per call (passwords, permissions, validation
// mode) so they are never shared.
func (e *Engine) conf() *model.Configuration {
	c := model.NewDefaultConfiguration()
	c.ValidationMode = model.ValidationRelaxed
	return c
}

// PageCount reports the number of pages in the document.
func (e *Engine) PageCount(doc []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(doc), e.conf())
	if err != nil {
		return 0, classify(fmt.Errorf("failed to read page count: %w", err))
	}
	return n, nil
}

// Validate checks that the document parses as a well-formed PDF.
func (e *Engine) Validate(doc []byte) error {
	if err := api.Validate(bytes.NewReader(doc), e.conf()); err != nil {
		return classify(fmt.Errorf("%w: %w", ErrInvalidPDF, err))
	}
	return nil
}

// pageStrings renders page numbers as the string selectors pdfcpu expects.
func pageStrings(pages []int) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strconv.Itoa(p)
	}
	return out
}

// rangeString renders a contiguous page interval as a pdfcpu selector.
func rangeString(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}
