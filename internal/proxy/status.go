package proxy

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
)

type statusView struct {
	Target  string
	Uptime  time.Duration
	Uploads LimiterStatus
}

type healthResponse struct {
	Status   string        `json:"status"`
	Upstream string        `json:"upstream"`
	Uptime   string        `json:"uptime"`
	Uploads  LimiterStatus `json:"uploads"`
}

func (s *Server) view() statusView {
	return statusView{
		Target:  s.opts.Target.String(),
		Uptime:  time.Since(s.started).Round(time.Second),
		Uploads: s.limiter.Status(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	v := s.view()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Upstream: v.Target,
		Uptime:   v.Uptime.String(),
		Uploads:  v.Uploads,
	})
}

func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	templ.Handler(statusPage(s.view())).ServeHTTP(w, r)
}
