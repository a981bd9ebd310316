package api_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pdfkit/internal/api"
	"github.com/dmitrymomot/pdfkit/internal/config"
	"github.com/dmitrymomot/pdfkit/internal/engine"
	"github.com/dmitrymomot/pdfkit/pkg/upload"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:             "127.0.0.1",
		Port:             8000,
		AllowedOrigins:   []string{"http://localhost:3000"},
		MaxFileSize:      50 << 20,
		AllowedFileTypes: []string{upload.TypePDF, upload.TypeJPEG, upload.TypePNG, upload.TypeDOCX, upload.TypeXLSX},
		RateLimitEnabled: false,
	}
}

func newHandler(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	svc := api.New(cfg, nil, engine.New(nil))
	h, store, err := svc.Handle()
	require.NoError(t, err)
	if store != nil {
		t.Cleanup(func() { _ = store.Close() })
	}
	return h
}

type formFile struct {
	field string
	name  string
	data  []byte
}

// postMultipart builds and sends a multipart POST through the handler.
func postMultipart(t *testing.T, h http.Handler, path string, files []formFile, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 80, 80))
	for y := range 80 {
		for x := range 80 {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func makePDF(t *testing.T, pages int) []byte {
	t.Helper()

	e := engine.New(nil)
	imgs := make([][]byte, pages)
	for i := range imgs {
		imgs[i] = testPNG(t)
	}
	doc, err := e.ImagesToPDF(imgs)
	require.NoError(t, err)
	return doc
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ALIVE")
}

func TestMergePDFs(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	t.Run("merges uploads in order", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/merge_pdfs", []formFile{
			{field: "files", name: "a.pdf", data: makePDF(t, 2)},
			{field: "files", name: "b.pdf", data: makePDF(t, 3)},
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Header().Get("Content-Disposition"), "aDpdfmerged.pdf")

		n, err := engine.New(nil).PageCount(rec.Body.Bytes())
		require.NoError(t, err)
		require.Equal(t, 5, n)
	})

	t.Run("jpeg disguised as pdf is rejected by signature", func(t *testing.T) {
		t.Parallel()

		jpegBytes := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("fake photo payload")...)
		rec := postMultipart(t, h, "/merge_pdfs", []formFile{
			{field: "files", name: "photo.pdf", data: jpegBytes},
		}, nil)

		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		require.Contains(t, errMessage(t, rec), "image/jpeg")
	})

	t.Run("missing files field", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/merge_pdfs", nil, map[string]string{"noop": "1"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSplitRoutes(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	t.Run("split_by_page_count yields 2-2-1 for five pages in twos", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/split_by_page_count", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 5)},
		}, map[string]string{"pages_per_split": "2"})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

		zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 3)

		e := engine.New(nil)
		for i, want := range []int{2, 2, 1} {
			rc, err := zr.File[i].Open()
			require.NoError(t, err)
			part, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())

			n, err := e.PageCount(part)
			require.NoError(t, err)
			require.Equal(t, want, n, "part %d", i+1)
		}
	})

	t.Run("split_pdfs honors explicit ranges", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/split_pdfs", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 5)},
		}, map[string]string{"ranges_model": `{"ranges": [[1,2],[3,5]]}`})

		require.Equal(t, http.StatusOK, rec.Code)

		zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 2)
	})

	t.Run("malformed ranges_model", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/split_pdfs", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 2)},
		}, map[string]string{"ranges_model": `{"ranges": [[5,1]]}`})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pages_per_split below one", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/split_by_page_count", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 2)},
		}, map[string]string{"pages_per_split": "0"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("extract_pages_separate names entries by page", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/extract_pages_separate", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 4)},
		}, map[string]string{"pages": "1,3-4"})

		require.Equal(t, http.StatusOK, rec.Code)

		zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 3)
		require.Equal(t, "page_1.pdf", zr.File[0].Name)
		require.Equal(t, "page_3.pdf", zr.File[1].Name)
		require.Equal(t, "page_4.pdf", zr.File[2].Name)
	})
}

func TestCompressRoutes(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	t.Run("single file returns a pdf", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/compress", []formFile{
			{field: "files", name: "doc.pdf", data: makePDF(t, 2)},
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	})

	t.Run("multiple files return a zip", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/compress", []formFile{
			{field: "files", name: "a.pdf", data: makePDF(t, 1)},
			{field: "files", name: "b.pdf", data: makePDF(t, 1)},
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	})

	t.Run("compression_level out of range", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/compress", []formFile{
			{field: "files", name: "doc.pdf", data: makePDF(t, 1)},
		}, map[string]string{"compression_level": "150"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("estimate reports consistent sizes", func(t *testing.T) {
		t.Parallel()

		doc := makePDF(t, 3)
		rec := postMultipart(t, h, "/estimate_compression", []formFile{
			{field: "file", name: "doc.pdf", data: doc},
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var est struct {
			OriginalSize     int64   `json:"original_size"`
			EstimatedSize    int64   `json:"estimated_size"`
			CompressionRatio float64 `json:"compression_ratio"`
			SizeReduction    int64   `json:"size_reduction"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &est))
		require.Equal(t, int64(len(doc)), est.OriginalSize)
		require.Equal(t, est.OriginalSize-est.EstimatedSize, est.SizeReduction)
	})
}

func TestPasswordRoutes(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	t.Run("protect then unlock round trip", func(t *testing.T) {
		t.Parallel()

		protectRec := postMultipart(t, h, "/add_password", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 2)},
		}, map[string]string{"user_password": "hunter2"})
		require.Equal(t, http.StatusOK, protectRec.Code)

		unlockRec := postMultipart(t, h, "/remove_password", []formFile{
			{field: "file", name: "doc.pdf", data: protectRec.Body.Bytes()},
		}, map[string]string{"password": "hunter2"})
		require.Equal(t, http.StatusOK, unlockRec.Code)

		n, err := engine.New(nil).PageCount(unlockRec.Body.Bytes())
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		t.Parallel()

		protectRec := postMultipart(t, h, "/add_password", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 1)},
		}, map[string]string{"user_password": "hunter2"})
		require.Equal(t, http.StatusOK, protectRec.Code)

		rec := postMultipart(t, h, "/remove_password", []formFile{
			{field: "file", name: "doc.pdf", data: protectRec.Body.Bytes()},
		}, map[string]string{"password": "nope"})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "incorrect password", errMessage(t, rec))
	})

	t.Run("missing user_password", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/add_password", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 1)},
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWatermarkRoutes(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	t.Run("text watermark", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/add_watermark", []formFile{
			{field: "files", name: "doc.pdf", data: makePDF(t, 2)},
		}, map[string]string{
			"watermark_text": "DRAFT",
			"position":       "center",
			"opacity":        "0.4",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Disposition"), "docDpdfwatermarked.pdf")
	})

	t.Run("neither text nor image", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/add_watermark", []formFile{
			{field: "files", name: "doc.pdf", data: makePDF(t, 1)},
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("page numbers", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/add_page_numbers", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 3)},
		}, map[string]string{"format_string": "Page {page} of {total}"})

		require.Equal(t, http.StatusOK, rec.Code)

		n, err := engine.New(nil).PageCount(rec.Body.Bytes())
		require.NoError(t, err)
		require.Equal(t, 3, n)
	})
}

func TestMetadataRoutes(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	updateRec := postMultipart(t, h, "/update_pdf_metadata", []formFile{
		{field: "file", name: "doc.pdf", data: makePDF(t, 2)},
	}, map[string]string{"title": "Annual Review", "author": "Pat Doe"})
	require.Equal(t, http.StatusOK, updateRec.Code)

	getRec := postMultipart(t, h, "/get_pdf_metadata", []formFile{
		{field: "file", name: "doc.pdf", data: updateRec.Body.Bytes()},
	}, nil)
	require.Equal(t, http.StatusOK, getRec.Code)

	var md struct {
		Title     string `json:"title"`
		Author    string `json:"author"`
		PageCount int    `json:"page_count"`
	}
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &md))
	require.Equal(t, "Annual Review", md.Title)
	require.Equal(t, "Pat Doe", md.Author)
	require.Equal(t, 2, md.PageCount)
}

func TestBlankPageRoutes(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	t.Run("detect reports none for image pages", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/detect_blank_pages", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 2)},
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			BlankPages []int `json:"blank_pages"`
			Count      int   `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Zero(t, resp.Count)
		require.Empty(t, resp.BlankPages)
	})

	t.Run("remove reports removals in headers", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/remove_blank_pages", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 2)},
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "0", rec.Header().Get("X-Removed-Count"))
	})

	t.Run("threshold out of bounds", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/detect_blank_pages", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 1)},
		}, map[string]string{"threshold": "0.1"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConvertRoutes(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	t.Run("image to pdf", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/jpegtopdf", []formFile{
			{field: "file", name: "photo.png", data: testPNG(t)},
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)

		n, err := engine.New(nil).PageCount(rec.Body.Bytes())
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("wordtopdf rejects a pdf upload", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/wordtopdf", []formFile{
			{field: "file", name: "doc.docx", data: makePDF(t, 1)},
		}, nil)
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("rotate single file", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/rotatepdf", []formFile{
			{field: "files", name: "doc.pdf", data: makePDF(t, 2)},
		}, map[string]string{"rotation_0": "90"})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Disposition"), "docDpdfrotated.pdf")
	})

	t.Run("pdf_to_images extracts page images", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/pdf_to_images", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 2)},
		}, map[string]string{"image_format": "png"})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	})

	t.Run("pdf_to_images bad dpi", func(t *testing.T) {
		t.Parallel()

		rec := postMultipart(t, h, "/pdf_to_images", []formFile{
			{field: "file", name: "doc.pdf", data: makePDF(t, 1)},
		}, map[string]string{"dpi": "1200"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUploadLimits(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxFileSize = 64
	h := newHandler(t, cfg)

	rec := postMultipart(t, h, "/repair", []formFile{
		{field: "file", name: "doc.pdf", data: makePDF(t, 1)},
	}, nil)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, errMessage(t, rec), "exceeds")
}

func TestRateLimiting(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitPerMinute = 2
	h := newHandler(t, cfg)

	for i := range 2 {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// A different client is unaffected.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "198.51.100.9:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/merge_pdfs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOutputFilenameSanitization(t *testing.T) {
	t.Parallel()
	h := newHandler(t, testConfig())

	rec := postMultipart(t, h, "/repair", []formFile{
		{field: "file", name: "../../etc/passwd evil.pdf", data: makePDF(t, 1)},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cd := rec.Header().Get("Content-Disposition")
	require.NotContains(t, cd, "..")
	require.NotContains(t, cd, "/")
	require.Contains(t, cd, "Dpdfrepaired.pdf")
}

