package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/platform/metrics"
)

// RequestLog registra cada request (con el request id de chi) y, si m != nil,
// cuenta requests por método y código.
func RequestLog(l logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if m != nil {
				m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			}

			fields := map[string]any{
				"request_id":  chimw.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if status >= 500 {
				l.Warn("request failed", fields)
				return
			}
			l.Debug("request served", fields)
		})
	}
}
