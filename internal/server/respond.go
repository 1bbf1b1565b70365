package server

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/mkarlsen/lakemail/internal/auth"
	"github.com/mkarlsen/lakemail/internal/warehouse"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

// errContext is the diagnostic block attached to every upstream failure:
// enough to see a misconfigured deployment from the browser, no secrets.
func (s *Server) errContext(cred auth.Credential) map[string]any {
	return map[string]any{
		"server_hostname": s.cfg.ServerHostname(),
		"http_path":       s.cfg.HTTPPath,
		"has_token":       cred.HasToken(),
	}
}

// upstreamError renders an upstream failure as a structured JSON body.
// Raw errors must never reach the client as a framework error page.
// The statement echo is gated behind ECHO_SQL.
func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, cred auth.Credential, stmt *warehouse.Statement, err error) {
	s.log.Error("upstream request failed", "path", r.URL.Path, "mode", cred.Mode, "error", err)

	body := map[string]any{
		"mode":    cred.Mode,
		"error":   err.Error(),
		"context": s.errContext(cred),
	}
	if stmt != nil && s.cfg.EchoSQL {
		body["sql"] = stmt
	}
	s.writeJSON(w, http.StatusInternalServerError, body)
}

func (s *Server) badRequest(w http.ResponseWriter, cred auth.Credential, msg string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]any{
		"mode":  cred.Mode,
		"error": msg,
	})
}

func (s *Server) unauthorized(w http.ResponseWriter, cred auth.Credential, msg string) {
	s.writeJSON(w, http.StatusUnauthorized, map[string]any{
		"mode":  cred.Mode,
		"error": msg,
	})
}

// roundMS converts a duration to milliseconds with one decimal, matching the
// timing fields the frontend displays.
func roundMS(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/100) / 10
}
