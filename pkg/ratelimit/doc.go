// Package ratelimit provides fixed-window request rate limiting keyed by an
// arbitrary string, typically the client network address.
//
// The limiter allows up to N requests per discrete window; the (N+1)th
// request within the window is rejected. Counters live in an in-memory
// store with atomic check-and-increment per key and a background sweep that
// evicts expired windows, so memory stays bounded under churning clients.
//
// # Usage
//
//	store := ratelimit.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimit.NewFixedWindow(store, 30, time.Minute)
//	if err != nil {
//	    // invalid limit or window
//	}
//
//	r.Use(ratelimit.Middleware(limiter, func(r *http.Request) string {
//	    return clientip.GetIP(r)
//	}))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response and answers rejected requests with
// 429 and a Retry-After header. Store failures fail open to keep the
// service available.
package ratelimit
