package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Text layout for office document rendering, matching the original Letter
// page export: one text column, fixed leading, fresh page when full.
const (
	convertFontSize     = 11
	convertMarginLeft   = 72.0
	convertMarginTop    = 72.0
	convertPageHeight   = 792.0 // Letter, points
	convertPageWidth    = 612.0
	convertLinesPerPage = 46
)

// DocxToPDF renders the paragraph text of a Word document onto PDF pages.
// Formatting beyond paragraph breaks is not preserved.
func (e *Engine) DocxToPDF(doc []byte) ([]byte, error) {
	lines, err := docxParagraphs(doc)
	if err != nil {
		return nil, err
	}
	return e.renderTextPages(lines)
}

// XlsxToPDF renders the first worksheet of an Excel workbook as delimited
// text rows on PDF pages.
func (e *Engine) XlsxToPDF(doc []byte) ([]byte, error) {
	lines, err := xlsxRows(doc)
	if err != nil {
		return nil, err
	}
	return e.renderTextPages(lines)
}

// renderTextPages lays the lines out on Letter pages through the pdfcpu
// page generator. An empty input still yields a single blank page so the
// conversion always returns a valid document.
func (e *Engine) renderTextPages(lines []string) ([]byte, error) {
	pages := map[string]any{}
	for i := 0; i < len(lines) || i == 0; i += convertLinesPerPage {
		chunk := lines[i:min(i+convertLinesPerPage, len(lines))]
		pageNr := strconv.Itoa(i/convertLinesPerPage + 1)

		content := map[string]any{}
		if text := strings.Join(chunk, "\n"); strings.TrimSpace(text) != "" {
			content["text"] = []any{map[string]any{
				"value": text,
				"pos":   []float64{convertMarginLeft, convertPageHeight - convertMarginTop},
				"width": convertPageWidth - 2*convertMarginLeft,
				"font": map[string]any{
					"name": "Helvetica",
					"size": convertFontSize,
				},
			}}
		}
		pages[pageNr] = map[string]any{"content": content}
	}

	spec, err := json.Marshal(map[string]any{
		"paper": "Letter",
		"pages": pages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build page description: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(spec), &buf, e.conf()); err != nil {
		return nil, fmt.Errorf("failed to render pages: %w", err)
	}
	return buf.Bytes(), nil
}
