// Package proxy forwards /api/* to the remote processing API and adds the
// CORS headers a browser front end needs.
//
// Preflight requests are answered locally. Analyze and process forwards hold
// a slot in an UploadLimiter for their whole round trip. An unreachable
// upstream yields a 502 with a JSON {"error": ...} body.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options configures a Server.
type Options struct {
	// Target is the upstream origin; request paths are appended to it.
	Target *url.URL

	AllowedOrigins []string
	MaxConcurrent  int
	MaxWait        time.Duration
	ReadTimeout    time.Duration
	IdleTimeout    time.Duration

	// Transport overrides the upstream transport, mostly for tests.
	Transport http.RoundTripper
}

// Server is the CORS forwarding proxy.
type Server struct {
	opts    Options
	router  *chi.Mux
	proxy   *httputil.ReverseProxy
	limiter *UploadLimiter
	started time.Time
	server  *http.Server
}

// New creates a Server for opts.
func New(opts Options) (*Server, error) {
	if opts.Target == nil || opts.Target.Scheme == "" || opts.Target.Host == "" {
		return nil, errors.New("proxy target must be an absolute URL")
	}

	s := &Server{
		opts:    opts,
		router:  chi.NewRouter(),
		limiter: NewUploadLimiter(opts.MaxConcurrent, opts.MaxWait),
		started: time.Now(),
	}
	s.proxy = s.newReverseProxy()
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Handler:     s.router,
		ReadTimeout: opts.ReadTimeout,
		IdleTimeout: opts.IdleTimeout,
	}
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors(s.opts.AllowedOrigins))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleStatusPage)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Heavy forwards are bounded
		r.With(s.limitUploads).Post("/analyze", s.forward)
		r.With(s.limitUploads).Post("/process", s.forward)

		r.Handle("/*", http.HandlerFunc(s.forward))
	})
}

func (s *Server) newReverseProxy() *httputil.ReverseProxy {
	target := s.opts.Target
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport: s.opts.Transport,
		ModifyResponse: func(resp *http.Response) error {
			// Our CORS headers are authoritative
			for _, h := range []string{
				"Access-Control-Allow-Origin",
				"Access-Control-Allow-Methods",
				"Access-Control-Allow-Headers",
			} {
				resp.Header.Del(h)
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, r, fmt.Errorf("upstream %s: %w", target.Host, err), http.StatusBadGateway)
		},
	}
}

func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	s.proxy.ServeHTTP(w, r)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves until Shutdown.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.server.Serve(ln)
}

// ActiveUploads returns the number of upload forwards in flight.
func (s *Server) ActiveUploads() int {
	return s.limiter.ActiveCount()
}

// WaitForUploads blocks until in-flight upload forwards finish.
func (s *Server) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
