package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mkarlsen/lakemail/internal/auth"
	"github.com/mkarlsen/lakemail/internal/identity"
	"github.com/mkarlsen/lakemail/internal/warehouse"
)

// handleIndex serves the interactive frontend.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "index.html"))
}

// handleDebugEnv echoes the resolved configuration and which forwarded
// headers the proxy is sending, for diagnosing a deployed app. Token values
// are reported only by presence and length.
func (s *Server) handleDebugEnv(w http.ResponseWriter, r *http.Request) {
	obo := r.Header.Get(auth.ForwardedTokenHeader)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"host":              s.cfg.Host,
		"http_path":         s.cfg.HTTPPath,
		"obo_token_present": obo != "",
		"obo_token_len":     len(obo),
		"x_forwarded_headers": map[string]any{
			"user":        r.Header.Get("X-Forwarded-User"),
			"email":       r.Header.Get("X-Forwarded-Email"),
			"scopes_hint": r.Header.Get("X-Forwarded-Scopes"),
		},
	})
}

// handleMe returns the current workspace user for either auth mode.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	cred := auth.Resolve(r, s.cfg.Token)

	// App mode: ask the REST API who the forwarded token belongs to.
	if cred.Mode == auth.ModeApp {
		user, err := s.identity.CurrentUser(r.Context(), cred.Token)
		if err != nil {
			s.upstreamError(w, r, cred, nil, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"mode":         cred.Mode,
			"current_user": user,
		})
		return
	}

	// Local mode: workspace SDK with the developer PAT.
	if !cred.HasToken() {
		s.unauthorized(w, cred, "no local PAT set (DATABRICKS_TOKEN)")
		return
	}
	user, err := identity.LocalUser(r.Context(), s.cfg.Host, cred.Token)
	if err != nil {
		s.upstreamError(w, r, cred, nil, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"mode":         cred.Mode,
		"current_user": user,
	})
}

// handlePing verifies warehouse connectivity with a SELECT 1 round trip.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	cred := auth.Resolve(r, s.cfg.Token)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.QueryTimeout)
	defer cancel()

	start := time.Now()
	conn, err := warehouse.Connect(s.cfg.ServerHostname(), s.cfg.HTTPPath, cred.Token, s.cfg.QueryTimeout)
	if err != nil {
		s.upstreamError(w, r, cred, nil, err)
		return
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		s.upstreamError(w, r, cred, nil, err)
		return
	}
	elapsed := time.Since(start)

	s.log.Debug("sql ping ok", "mode", cred.Mode, "query_ms", roundMS(elapsed))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"mode": cred.Mode,
		"ok":   true,
		"timing": map[string]any{
			"query_ms": roundMS(elapsed),
		},
	})
}

// handleEmails runs the filtered, paginated query over the emails table and
// returns JSON-safe rows. Pagination is validated here, before any warehouse
// work; the query layer never sees an out-of-range limit or offset.
func (s *Server) handleEmails(w http.ResponseWriter, r *http.Request) {
	cred := auth.Resolve(r, s.cfg.Token)
	if !cred.HasToken() {
		s.unauthorized(w, cred, fmt.Sprintf("missing token (%s)", cred.Mode))
		return
	}

	filter, err := parseEmailFilter(r.URL.Query())
	if err != nil {
		s.badRequest(w, cred, err.Error())
		return
	}
	stmt := filter.Statement()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.QueryTimeout)
	defer cancel()

	queryStart := time.Now()
	conn, err := warehouse.Connect(s.cfg.ServerHostname(), s.cfg.HTTPPath, cred.Token, s.cfg.QueryTimeout)
	if err != nil {
		s.upstreamError(w, r, cred, &stmt, err)
		return
	}
	defer conn.Close()

	cols, raw, err := conn.Query(ctx, stmt)
	if err != nil {
		s.upstreamError(w, r, cred, &stmt, err)
		return
	}
	queryElapsed := time.Since(queryStart)

	serializeStart := time.Now()
	rows := make([]map[string]any, len(raw))
	for i, rawRow := range raw {
		row := make(map[string]any, len(cols))
		for j, col := range cols {
			if j < len(rawRow) {
				row[col] = warehouse.ToJSONValue(rawRow[j])
			}
		}
		rows[i] = row
	}
	serializeElapsed := time.Since(serializeStart)

	s.log.Debug("emails query ok",
		"rows", len(rows),
		"query_ms", roundMS(queryElapsed),
		"json_ms", roundMS(serializeElapsed),
		"mode", cred.Mode,
		"limit", filter.Limit,
		"offset", filter.Offset,
	)

	body := map[string]any{
		"mode":   cred.Mode,
		"rows":   rows,
		"count":  len(rows),
		"limit":  filter.Limit,
		"offset": filter.Offset,
		"timing": map[string]any{
			"query_ms":     roundMS(queryElapsed),
			"serialize_ms": roundMS(serializeElapsed),
			"total_ms":     roundMS(queryElapsed + serializeElapsed),
		},
	}
	if s.cfg.EchoSQL {
		body["sql"] = stmt
	}
	s.writeJSON(w, http.StatusOK, body)
}

// parseEmailFilter validates the query string. Out-of-range pagination and
// malformed booleans are rejected here with a 400.
func parseEmailFilter(q url.Values) (warehouse.Filter, error) {
	f := warehouse.Filter{
		Subject:   q.Get("subject"),
		FromEmail: q.Get("from_email"),
		Limit:     warehouse.DefaultLimit,
	}

	var err error
	if f.IsRead, err = parseOptionalBool(q, "is_read"); err != nil {
		return f, err
	}
	if f.IsStarred, err = parseOptionalBool(q, "is_starred"); err != nil {
		return f, err
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("limit must be an integer")
		}
		if n < 1 || n > warehouse.MaxLimit {
			return f, fmt.Errorf("limit must be between 1 and %d", warehouse.MaxLimit)
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("offset must be an integer")
		}
		if n < 0 {
			return f, fmt.Errorf("offset must be non-negative")
		}
		f.Offset = n
	}
	return f, nil
}

func parseOptionalBool(q url.Values, key string) (*bool, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &b, nil
}
