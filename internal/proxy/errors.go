package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON body of every error the proxy itself produces.
// Error carries the user-facing message so API clients reading "error" get
// something presentable.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// writeError logs the technical error and writes a user-friendly JSON body.
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	slog.Error("proxy error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, status, ErrorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
