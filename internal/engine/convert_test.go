package engine_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmitrymomot/pdfkit/internal/engine"
)

// buildZip assembles an in-memory zip with the given members.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func minimalDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	return buildZip(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   body.String(),
	})
}

func minimalXlsx(t *testing.T) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	require.NoError(t, wb.SetCellValue("Sheet1", "A1", "Name"))
	require.NoError(t, wb.SetCellValue("Sheet1", "B1", "Amount"))
	require.NoError(t, wb.SetCellValue("Sheet1", "A2", "Widget"))
	require.NoError(t, wb.SetCellValue("Sheet1", "B2", 41.5))

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDocxToPDF(t *testing.T) {
	t.Parallel()
	e := engine.New(nil)

	t.Run("renders paragraphs to a valid document", func(t *testing.T) {
		t.Parallel()

		doc := minimalDocx(t, "Hello world", "Second paragraph")
		out, err := e.DocxToPDF(doc)
		require.NoError(t, err)

		n, err := e.PageCount(out)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("long documents paginate", func(t *testing.T) {
		t.Parallel()

		paras := make([]string, 100)
		for i := range paras {
			paras[i] = "line of text"
		}
		out, err := e.DocxToPDF(minimalDocx(t, paras...))
		require.NoError(t, err)

		n, err := e.PageCount(out)
		require.NoError(t, err)
		require.Greater(t, n, 1)
	})

	t.Run("empty document still yields one page", func(t *testing.T) {
		t.Parallel()

		out, err := e.DocxToPDF(minimalDocx(t))
		require.NoError(t, err)

		n, err := e.PageCount(out)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("non-zip input fails", func(t *testing.T) {
		t.Parallel()

		_, err := e.DocxToPDF([]byte("not a docx"))
		require.ErrorIs(t, err, engine.ErrUnsupportedFormat)
	})

	t.Run("zip without document part fails", func(t *testing.T) {
		t.Parallel()

		_, err := e.DocxToPDF(buildZip(t, map[string]string{"other.txt": "x"}))
		require.ErrorIs(t, err, engine.ErrUnsupportedFormat)
	})
}

func TestXlsxToPDF(t *testing.T) {
	t.Parallel()
	e := engine.New(nil)

	t.Run("renders worksheet rows", func(t *testing.T) {
		t.Parallel()

		out, err := e.XlsxToPDF(minimalXlsx(t))
		require.NoError(t, err)

		n, err := e.PageCount(out)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("non-zip input fails", func(t *testing.T) {
		t.Parallel()

		_, err := e.XlsxToPDF([]byte{0x00, 0x01})
		require.ErrorIs(t, err, engine.ErrUnsupportedFormat)
	})

	t.Run("zip that is not a workbook fails", func(t *testing.T) {
		t.Parallel()

		_, err := e.XlsxToPDF(buildZip(t, map[string]string{"xl/sharedStrings.xml": "<sst/>"}))
		require.ErrorIs(t, err, engine.ErrUnsupportedFormat)
	})
}
