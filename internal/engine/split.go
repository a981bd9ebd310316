package engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/dmitrymomot/pdfkit/internal/pagespec"
)

// trim renders the pages selected by sel into a new document.
func (e *Engine) trim(doc []byte, sel []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(doc), &buf, sel, e.conf()); err != nil {
		return nil, classify(fmt.Errorf("failed to extract pages %v: %w", sel, err))
	}
	return buf.Bytes(), nil
}

// SplitByRanges produces one document per range, in range order. Every
// range must fit within the document.
func (e *Engine) SplitByRanges(doc []byte, ranges []pagespec.Range) ([][]byte, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: no ranges given", ErrInvalidArgument)
	}

	total, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}
	if err := pagespec.CheckRangeBounds(ranges, total); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageOutOfRange, err)
	}

	parts := make([][]byte, 0, len(ranges))
	for _, r := range ranges {
		part, err := e.trim(doc, []string{r.String()})
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// SplitByPageCount chunks the document into consecutive pieces of at most
// perPart pages. The final piece holds the remainder.
func (e *Engine) SplitByPageCount(doc []byte, perPart int) ([][]byte, error) {
	if perPart < 1 {
		return nil, fmt.Errorf("%w: pages per split must be at least 1", ErrInvalidArgument)
	}

	total, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}

	var parts [][]byte
	for start := 1; start <= total; start += perPart {
		end := min(start+perPart-1, total)
		part, err := e.trim(doc, []string{rangeString(start, end)})
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// SplitBySize greedily accumulates consecutive pages into parts whose
// rendered size stays at or below targetBytes. A single page larger than
// the target becomes a part of its own so the split always terminates.
func (e *Engine) SplitBySize(doc []byte, targetBytes int64) ([][]byte, error) {
	if targetBytes < 1 {
		return nil, fmt.Errorf("%w: target size must be positive", ErrInvalidArgument)
	}

	total, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}

	var parts [][]byte
	start := 1
	for start <= total {
		end := start
		best, err := e.trim(doc, []string{rangeString(start, end)})
		if err != nil {
			return nil, err
		}
		for end < total {
			candidate, err := e.trim(doc, []string{rangeString(start, end+1)})
			if err != nil {
				return nil, err
			}
			if int64(len(candidate)) > targetBytes {
				break
			}
			best = candidate
			end++
		}
		parts = append(parts, best)
		start = end + 1
	}
	return parts, nil
}

// ExtractPagesSeparate produces one single-page document per selected page.
func (e *Engine) ExtractPagesSeparate(doc []byte, pages []int) ([][]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages selected", ErrInvalidArgument)
	}

	total, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}
	if err := pagespec.CheckBounds(pages, total); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageOutOfRange, err)
	}

	parts := make([][]byte, 0, len(pages))
	for _, p := range pages {
		part, err := e.trim(doc, pageStrings([]int{p}))
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}
