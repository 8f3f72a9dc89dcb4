package proxy

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization, X-Request-ID"
)

// cors adds Access-Control-Allow-* headers and answers preflight requests
// with 200 without forwarding them.
func cors(allowed []string) func(http.Handler) http.Handler {
	wildcard := len(allowed) == 0 || slices.Contains(allowed, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowed, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", allowMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one line per request. It runs after RealIP, so
// RemoteAddr already holds the client address.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
		)
	})
}

// limitUploads holds an upload slot for the duration of the forward.
func (s *Server) limitUploads(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.limiter.Acquire(r.Context()); err != nil {
			if errors.Is(err, ErrTooManyUploads) {
				w.Header().Set("Retry-After", "5")
				writeError(w, r, err, http.StatusTooManyRequests)
				return
			}
			// Client went away while waiting
			writeError(w, r, err, http.StatusServiceUnavailable)
			return
		}
		defer s.limiter.Release()

		next.ServeHTTP(w, r)
	})
}
