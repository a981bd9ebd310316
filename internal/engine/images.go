package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/dmitrymomot/pdfkit/internal/pagespec"
)

// Image is one image extracted from a document, re-encoded to the
// requested format when possible.
type Image struct {
	PageNr int
	Name   string
	Format string
	Data   []byte
}

// ExtractImages pulls the embedded images out of the selected pages (all
// pages when no selection is given) and re-encodes them to format, "png"
// or "jpg". Images whose source codec the re-encoder cannot decode keep
// their native format.
func (e *Engine) ExtractImages(doc []byte, format string, pages []int) ([]Image, error) {
	if format != "png" && format != "jpg" {
		return nil, fmt.Errorf("%w: image format must be png or jpg", ErrInvalidArgument)
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

	raw, err := api.ExtractImagesRaw(bytes.NewReader(doc), sel, e.conf())
	if err != nil {
		return nil, classify(fmt.Errorf("failed to extract images: %w", err))
	}

	var out []Image
	for _, pageImgs := range raw {
		for _, img := range pageImgs {
			data, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("failed to read image %s: %w", img.Name, err)
			}
			converted, gotFormat := reencode(data, img.FileType, format)
			out = append(out, Image{
				PageNr: img.PageNr,
				Name:   img.Name,
				Format: gotFormat,
				Data:   converted,
			})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoImages
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PageNr < out[j].PageNr })
	return out, nil
}

// reencode converts image bytes to the requested format. On any decode or
// encode failure the original bytes and format are kept; extraction should
// not fail because one embedded image uses an exotic codec.
func reencode(data []byte, srcFormat, dstFormat string) ([]byte, string) {
	if srcFormat == dstFormat || (srcFormat == "jpeg" && dstFormat == "jpg") {
		return data, dstFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, srcFormat
	}

	var buf bytes.Buffer
	switch dstFormat {
	case "png":
		err = png.Encode(&buf, img)
	case "jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return data, srcFormat
	}
	return buf.Bytes(), dstFormat
}

// ImagesToPDF renders each image onto its own page of a new document,
// centered on A4. Inputs may be JPEG or PNG.
func (e *Engine) ImagesToPDF(images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, ErrNoInput
	}

	imp, err := api.Import("form:A4, pos:c, scale:1.0 rel", types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build import settings: %w", err)
	}

	readers := make([]io.Reader, len(images))
	for i, img := range images {
		readers[i] = bytes.NewReader(img)
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, readers, imp, e.conf()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return buf.Bytes(), nil
}
