package engine

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/dmitrymomot/pdfkit/internal/pagespec"
)

// positions maps the API position names onto pdfcpu anchor codes.
// "center" is accepted as an alias of "middle-center".
var positions = map[string]string{
	"top-left":      "tl",
	"top-center":    "tc",
	"top-right":     "tr",
	"middle-left":   "l",
	"middle-center": "c",
	"center":        "c",
	"middle-right":  "r",
	"bottom-left":   "bl",
	"bottom-center": "bc",
	"bottom-right":  "br",
}

// WatermarkOptions controls Watermark. Exactly one of Text and Image must
// be set; when both are present the image wins.
type WatermarkOptions struct {
	Text     string
	Image    []byte
	Position string
	Opacity  float64
	Rotation float64
	FontSize int
	Pages    []int
}

// Watermark stamps text or an image onto the selected pages (all pages
// when no selection is given).
func (e *Engine) Watermark(doc []byte, opts WatermarkOptions) ([]byte, error) {
	if opts.Text == "" && len(opts.Image) == 0 {
		return nil, fmt.Errorf("%w: either watermark text or image is required", ErrInvalidArgument)
	}
	if opts.Position == "" {
		opts.Position = "top-left"
	}
	anchor, ok := positions[opts.Position]
	if !ok {
		return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidArgument, opts.Position)
	}
	if opts.Opacity < 0 || opts.Opacity > 1 {
		return nil, fmt.Errorf("%w: opacity must be between 0 and 1", ErrInvalidArgument)
	}
	if opts.FontSize == 0 {
		opts.FontSize = 48
	}

	var sel []string
	if len(opts.Pages) > 0 {
		total, err := e.PageCount(doc)
		if err != nil {
			return nil, err
		}
		if err := pagespec.CheckBounds(opts.Pages, total); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPageOutOfRange, err)
		}
		sel = pageStrings(opts.Pages)
	}

	wm, err := e.buildWatermark(opts, anchor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(doc), &buf, sel, wm, e.conf()); err != nil {
		return nil, classify(fmt.Errorf("failed to apply watermark: %w", err))
	}
	return buf.Bytes(), nil
}

func (e *Engine) buildWatermark(opts WatermarkOptions, anchor string) (*model.Watermark, error) {
	opacity := strconv.FormatFloat(opts.Opacity, 'f', -1, 64)
	rotation := strconv.FormatFloat(opts.Rotation, 'f', -1, 64)

	if len(opts.Image) > 0 {
		desc := fmt.Sprintf("pos:%s, rot:%s, op:%s, scale:0.5 rel", anchor, rotation, opacity)
		wm, err := api.ImageWatermarkForReader(bytes.NewReader(opts.Image), desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to build image watermark: %w", ErrInvalidArgument, err)
		}
		return wm, nil
	}

	desc := fmt.Sprintf("points:%d, pos:%s, rot:%s, op:%s, scale:1 abs, fillcolor:#808080",
		opts.FontSize, anchor, rotation, opacity)
	wm, err := api.TextWatermark(opts.Text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build text watermark: %w", ErrInvalidArgument, err)
	}
	return wm, nil
}

// PageNumberOptions controls AddPageNumbers. Format supports the {page}
// and {total} placeholders. StartPage offsets the printed number of the
// first stamped page.
type PageNumberOptions struct {
	Position  string
	Format    string
	StartPage int
	SkipFirst bool
	FontSize  int
}

// edgePositions is the subset of anchors page numbering accepts.
var edgePositions = map[string]bool{
	"top-left": true, "top-center": true, "top-right": true,
	"bottom-left": true, "bottom-center": true, "bottom-right": true,
}

// AddPageNumbers stamps a formatted page label onto every page. Each page
// gets its own stamp because the label text differs per page.
func (e *Engine) AddPageNumbers(doc []byte, opts PageNumberOptions) ([]byte, error) {
	if opts.Position == "" {
		opts.Position = "bottom-center"
	}
	if !edgePositions[opts.Position] {
		return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidArgument, opts.Position)
	}
	if opts.Format == "" {
		opts.Format = "{page}"
	}
	if opts.FontSize == 0 {
		opts.FontSize = 10
	}
	if opts.FontSize < 6 || opts.FontSize > 72 {
		return nil, fmt.Errorf("%w: font size must be between 6 and 72", ErrInvalidArgument)
	}
	if opts.StartPage < 1 {
		opts.StartPage = 1
	}

	total, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}

	anchor := positions[opts.Position]
	out := doc
	for page := 1; page <= total; page++ {
		if opts.SkipFirst && page == 1 {
			continue
		}

		label := strings.ReplaceAll(opts.Format, "{page}", strconv.Itoa(page+opts.StartPage-1))
		label = strings.ReplaceAll(label, "{total}", strconv.Itoa(total))

		desc := fmt.Sprintf("points:%d, pos:%s, rot:0, op:1, scale:1 abs", opts.FontSize, anchor)
		wm, err := api.TextWatermark(label, desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to build page number stamp: %w", ErrInvalidArgument, err)
		}

		var buf bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(out), &buf, []string{strconv.Itoa(page)}, wm, e.conf()); err != nil {
			return nil, classify(fmt.Errorf("failed to stamp page %d: %w", page, err))
		}
		out = buf.Bytes()
	}
	return out, nil
}
