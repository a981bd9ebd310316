package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// blankContentBudget is the content stream size, in bytes, below which a
// page without images counts as blank at threshold 1.0. Pages carrying
// only a background rectangle or stray whitespace operators stay under
// it, real text pages exceed it by an order of magnitude.
const blankContentBudget = 1024

// DetectBlankPages reports the 1-based numbers of pages considered blank.
// A page is blank when it embeds no image and its content stream is
// smaller than the threshold-scaled budget. Threshold ranges 0.5 to 1.0;
// lower values flag fewer pages.
func (e *Engine) DetectBlankPages(doc []byte, threshold float64) ([]int, error) {
	if threshold < 0.5 || threshold > 1.0 {
		return nil, fmt.Errorf("%w: threshold must be between 0.5 and 1.0", ErrInvalidArgument)
	}

	total, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}

	withImages, err := e.pagesWithImages(doc)
	if err != nil {
		return nil, err
	}

	budget := int(threshold * blankContentBudget)
	var blank []int
	for page := 1; page <= total; page++ {
		if withImages[page] {
			continue
		}
		size, err := e.pageContentSize(doc, page)
		if err != nil {
			return nil, err
		}
		if size < budget {
			blank = append(blank, page)
		}
	}
	return blank, nil
}

// RemoveBlankPages drops the pages DetectBlankPages flags and returns the
// trimmed document alongside the removed page numbers. When nothing is
// flagged the input is returned unchanged.
func (e *Engine) RemoveBlankPages(doc []byte, threshold float64) ([]byte, []int, error) {
	blank, err := e.DetectBlankPages(doc, threshold)
	if err != nil {
		return nil, nil, err
	}
	if len(blank) == 0 {
		return doc, nil, nil
	}

	out, err := e.RemovePages(doc, blank)
	if err != nil {
		return nil, nil, err
	}
	return out, blank, nil
}

// pagesWithImages returns the set of page numbers embedding at least one
// image resource.
func (e *Engine) pagesWithImages(doc []byte) (map[int]bool, error) {
	imgs, err := api.ExtractImagesRaw(bytes.NewReader(doc), nil, e.conf())
	if err != nil {
		return nil, classify(fmt.Errorf("failed to inspect page images: %w", err))
	}

	pages := make(map[int]bool)
	for _, pageImgs := range imgs {
		for _, img := range pageImgs {
			pages[img.PageNr] = true
		}
	}
	return pages, nil
}

// pageContentSize measures the decoded content stream of one page. Pages
// without any content stream measure zero.
func (e *Engine) pageContentSize(doc []byte, page int) (int, error) {
	conf := e.conf()
	conf.Cmd = model.EXTRACTCONTENT
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc), conf)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to read content of page %d: %w", page, err))
	}
	r, err := pdfcpu.ExtractPageContent(ctx, page)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to read content of page %d: %w", page, err))
	}
	if r == nil {
		return 0, nil
	}

	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return 0, fmt.Errorf("failed to measure content of page %d: %w", page, err)
	}
	return int(n), nil
}
