package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/durableworks/agentkit/core/logger"
)

// Liveness indicates the worker process is running. Always returns "ALIVE"
// with 200 OK. No dependency checks.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ALIVE"))
}

// NoContent returns HTTP 204 without body. Suitable for high-frequency checks.
func NoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Readiness verifies all worker dependencies are functioning. Returns
// "READY" if every check passes and 503 Service Unavailable on the first
// failure. Checks run in order against the request context.
func Readiness(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
