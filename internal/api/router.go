package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/pdfkit/internal/config"
	"github.com/dmitrymomot/pdfkit/internal/engine"
	"github.com/dmitrymomot/pdfkit/pkg/clientip"
	"github.com/dmitrymomot/pdfkit/pkg/httpserver"
	"github.com/dmitrymomot/pdfkit/pkg/logger"
	"github.com/dmitrymomot/pdfkit/pkg/ratelimit"
)

// Service holds the dependencies of the HTTP layer.
type Service struct {
	cfg *config.Config
	log *slog.Logger
	pdf *engine.Engine
}

// New assembles the HTTP layer.
func New(cfg *config.Config, log *slog.Logger, pdf *engine.Engine) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{cfg: cfg, log: log.With(logger.Component("api")), pdf: pdf}
}

// Handle builds the route tree. The returned limiter store, if any, should
// be closed on shutdown; it is nil when rate limiting is disabled.
func (s *Service) Handle() (http.Handler, *ratelimit.MemoryStore, error) {
	r := chi.NewRouter()

	r.Use(s.recoverPanics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	var store *ratelimit.MemoryStore
	if s.cfg.RateLimitEnabled {
		store = ratelimit.NewMemoryStore()
		limiter, err := ratelimit.NewFixedWindow(store, s.cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		r.Use(ratelimit.Middleware(limiter, func(req *http.Request) string {
			return clientip.GetIP(req)
		}))
	}

	r.Get("/health", httpserver.HealthCheckHandler())

	r.Post("/merge_pdfs", s.handleMergePDFs)
	r.Post("/split_pdfs", s.handleSplitPDFs)
	r.Post("/split_by_page_count", s.handleSplitByPageCount)
	r.Post("/split_by_file_size", s.handleSplitByFileSize)
	r.Post("/extract_pages_separate", s.handleExtractPagesSeparate)

	r.Post("/compress", s.handleCompress)
	r.Post("/estimate_compression", s.handleEstimateCompression)

	r.Post("/split", s.handleRemovePages)
	r.Post("/extract", s.handleExtractPages)
	r.Post("/organize", s.handleOrganizePages)
	r.Post("/repair", s.handleRepair)
	r.Post("/rotatepdf", s.handleRotate)

	r.Post("/wordtopdf", s.handleWordToPDF)
	r.Post("/jpegtopdf", s.handleImageToPDF)
	r.Post("/exceltopdf", s.handleExcelToPDF)
	r.Post("/pdf_to_images", s.handlePDFToImages)

	r.Post("/add_watermark", s.handleAddWatermark)
	r.Post("/add_page_numbers", s.handleAddPageNumbers)

	r.Post("/add_password", s.handleAddPassword)
	r.Post("/remove_password", s.handleRemovePassword)

	r.Post("/detect_blank_pages", s.handleDetectBlankPages)
	r.Post("/remove_blank_pages", s.handleRemoveBlankPages)

	r.Post("/flatten_pdf", s.handleFlatten)
	r.Post("/get_pdf_metadata", s.handleGetMetadata)
	r.Post("/update_pdf_metadata", s.handleUpdateMetadata)

	return r, store, nil
}

// recoverPanics turns handler panics into the standard 500 envelope.
func (s *Service) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", "path", r.URL.Path, "panic", rec)
				s.writeJSON(w, http.StatusInternalServerError,
					errorResponse{Error: "an unexpected error occurred"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// allowed intersects the route's expected content types with the
// configured allow-list, so operators can narrow what the API accepts
// without touching routes.
func (s *Service) allowed(types ...string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if s.cfg.AllowsType(t) {
			out = append(out, t)
		}
	}
	return out
}
