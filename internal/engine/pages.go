package engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/dmitrymomot/pdfkit/internal/pagespec"
)

// RemovePages deletes the listed pages. Removing every page is rejected.
func (e *Engine) RemovePages(doc []byte, pages []int) ([]byte, error) {
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
	if len(uniquePages(pages)) >= total {
		return nil, fmt.Errorf("%w: cannot remove all pages", ErrEmptyResult)
	}

	var buf bytes.Buffer
	if err := api.RemovePages(bytes.NewReader(doc), &buf, pageStrings(pages), e.conf()); err != nil {
		return nil, classify(fmt.Errorf("failed to remove pages: %w", err))
	}
	return buf.Bytes(), nil
}

// ExtractPages keeps only the selected pages, reordered as given. Duplicate
// selections duplicate pages in the output, which is what Collect does and
// what page reordering relies on.
func (e *Engine) ExtractPages(doc []byte, pages []int) ([]byte, error) {
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

	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(doc), &buf, pageStrings(pages), e.conf()); err != nil {
		return nil, classify(fmt.Errorf("failed to collect pages: %w", err))
	}
	return buf.Bytes(), nil
}

// Rotate turns the selected pages clockwise by degrees (90, 180 or 270).
// A nil selection rotates every page.
func (e *Engine) Rotate(doc []byte, degrees int, pages []int) ([]byte, error) {
	if degrees%90 != 0 || degrees%360 == 0 {
		return nil, fmt.Errorf("%w: rotation must be a multiple of 90 between 90 and 270", ErrInvalidArgument)
	}

	var sel []string
	if len(pages) > 0 {
		total, err := e.PageCount(doc)
		if err != nil {
			return nil, err
		}
		if err := pagespec.CheckBounds(pages, total); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPageOutOfRange, err)
		}
		sel = pageStrings(pages)
	}

	var buf bytes.Buffer
	if err := api.Rotate(bytes.NewReader(doc), &buf, degrees, sel, e.conf()); err != nil {
		return nil, classify(fmt.Errorf("failed to rotate pages: %w", err))
	}
	return buf.Bytes(), nil
}

func uniquePages(pages []int) []int {
	seen := make(map[int]struct{}, len(pages))
	out := pages[:0:0]
	for _, p := range pages {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
