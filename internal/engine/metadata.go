package engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Metadata carries the document information dictionary fields.
type Metadata struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Subject      string `json:"subject"`
	Keywords     string `json:"keywords"`
	Creator      string `json:"creator"`
	Producer     string `json:"producer"`
	CreationDate string `json:"creationDate"`
	ModDate      string `json:"modDate"`
	PageCount    int    `json:"page_count"`
	Encrypted    bool   `json:"is_encrypted"`
}

// MetadataUpdate lists the fields to change. Nil fields keep their current
// value, empty strings clear them.
type MetadataUpdate struct {
	Title    *string
	Author   *string
	Subject  *string
	Keywords *string
	Creator  *string
}

// ReadMetadata extracts the information dictionary of the document.
func (e *Engine) ReadMetadata(doc []byte) (Metadata, error) {
	ctx, err := api.ReadContext(bytes.NewReader(doc), e.conf())
	if err != nil {
		return Metadata{}, classify(fmt.Errorf("%w: %w", ErrInvalidPDF, err))
	}

	md := Metadata{
		PageCount: ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}

	info, err := infoDict(ctx)
	if err != nil {
		return Metadata{}, err
	}
	if info == nil {
		return md, nil
	}

	md.Title = infoString(info, "Title")
	md.Author = infoString(info, "Author")
	md.Subject = infoString(info, "Subject")
	md.Keywords = infoString(info, "Keywords")
	md.Creator = infoString(info, "Creator")
	md.Producer = infoString(info, "Producer")
	md.CreationDate = infoString(info, "CreationDate")
	md.ModDate = infoString(info, "ModDate")
	return md, nil
}

// UpdateMetadata rewrites the document with the given information
// dictionary changes applied. Untouched fields survive.
func (e *Engine) UpdateMetadata(doc []byte, upd MetadataUpdate) ([]byte, error) {
	ctx, err := api.ReadContext(bytes.NewReader(doc), e.conf())
	if err != nil {
		return nil, classify(fmt.Errorf("%w: %w", ErrInvalidPDF, err))
	}

	info, err := infoDict(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		info = types.NewDict()
		ir, err := ctx.XRefTable.IndRefForNewObject(info)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate info dictionary: %w", err)
		}
		ctx.Info = ir
	}

	setInfo(info, "Title", upd.Title)
	setInfo(info, "Author", upd.Author)
	setInfo(info, "Subject", upd.Subject)
	setInfo(info, "Keywords", upd.Keywords)
	setInfo(info, "Creator", upd.Creator)

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, classify(fmt.Errorf("failed to rewrite document: %w", err))
	}
	return buf.Bytes(), nil
}

// infoDict dereferences the document information dictionary, nil when the
// document has none.
func infoDict(ctx *model.Context) (types.Dict, error) {
	if ctx.Info == nil {
		return nil, nil
	}
	d, err := ctx.XRefTable.DereferenceDict(*ctx.Info)
	if err != nil {
		return nil, fmt.Errorf("%w: broken info dictionary: %w", ErrInvalidPDF, err)
	}
	return d, nil
}

func infoString(d types.Dict, key string) string {
	obj, ok := d[key]
	if !ok {
		return ""
	}
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

func setInfo(d types.Dict, key string, val *string) {
	if val == nil {
		return
	}
	if *val == "" {
		delete(d, key)
		return
	}
	d[key] = types.StringLiteral(*val)
}
