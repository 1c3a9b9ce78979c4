package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"travel-scraper/utils"
)

// requestLogger logs every request with its status and latency.
func requestLogger(logger *utils.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("[api] %s %s -> %d (%d bytes, %dms) from %s",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start).Milliseconds(), r.RemoteAddr)
		})
	}
}
