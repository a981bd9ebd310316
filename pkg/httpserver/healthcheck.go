package httpserver

import "net/http"

// HealthCheckHandler returns a liveness probe handler: 200 OK with body
// "ALIVE". The service holds no dependencies that could degrade readiness,
// so a single probe covers both.
func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}
