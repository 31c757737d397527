package http

import "net/http"

// HealthHandler answers liveness probes. It deliberately skips the database:
// a degraded pool should surface as request errors, not as a dead instance.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
