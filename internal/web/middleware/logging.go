package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// RequestLogger logs one line per request with status, size and duration.
// It must run after chi's RequestID middleware to pick up the request ID.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			l := log
			if id := chiMiddleware.GetReqID(r.Context()); id != "" {
				l = log.With("request_id", id)
			}
			msg := "%s %s %d %dB %s"
			args := []any{r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start).Round(time.Microsecond)}
			if status >= http.StatusInternalServerError {
				l.Warnf(msg, args...)
				return
			}
			l.Debugf(msg, args...)
		})
	}
}
