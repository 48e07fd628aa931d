package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging returns middleware that logs every request with its status,
// duration and the authenticated account (empty pre-auth).
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logFn := logger.Info
			if rec.status >= http.StatusInternalServerError {
				logFn = logger.Error
			} else if rec.status >= http.StatusBadRequest {
				logFn = logger.Warn
			}

			logFn("Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"account_id", GetAccountID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
