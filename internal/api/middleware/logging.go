package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/stash-api/internal/api/shared"
)

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLogger times each request and logs method, path, status, and
// duration when it completes. The duration is also exposed to clients in
// the X-Process-Time header, set before the handler runs so it precedes the
// first body write.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				duration := time.Since(start)
				logger.Info("request completed",
					slog.String("trace_id", shared.GetTraceID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", rec.status),
					slog.Duration("duration", duration))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// processTimeWriter stamps the X-Process-Time header right before the
// status line goes out, so the value covers everything up to the first
// write.
type processTimeWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (w *processTimeWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.Header().Set("X-Process-Time",
			fmt.Sprintf("%.6f", time.Since(w.start).Seconds()))
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *processTimeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// ProcessTime reports the handler's wall-clock time to the client in the
// X-Process-Time header, in seconds.
func ProcessTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&processTimeWriter{ResponseWriter: w, start: time.Now()}, r)
	})
}
