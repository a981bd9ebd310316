package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pdfkit/pkg/ratelimit"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	keyByHeader := func(r *http.Request) string {
		return r.Header.Get("X-Test-Key")
	}

	t.Run("allows under limit and sets headers", func(t *testing.T) {
		t.Parallel()
		limiter := newLimiter(t, 5, time.Minute)
		handler := ratelimit.Middleware(limiter, keyByHeader)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Test-Key", "client-a")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("rejects over limit with 429", func(t *testing.T) {
		t.Parallel()
		limiter := newLimiter(t, 2, time.Minute)
		handler := ratelimit.Middleware(limiter, keyByHeader)(okHandler)

		var rec *httptest.ResponseRecorder
		for range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Test-Key", "client-b")
			rec = httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
		}

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Body.String(), "rate limit exceeded")
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		t.Parallel()
		limiter := newLimiter(t, 1, time.Minute)
		handler := ratelimit.Middleware(limiter, keyByHeader)(okHandler)

		for range 5 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("nil key func panics", func(t *testing.T) {
		t.Parallel()
		limiter := newLimiter(t, 1, time.Minute)
		assert.Panics(t, func() {
			ratelimit.Middleware(limiter, nil)
		})
	})
}
