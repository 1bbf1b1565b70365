// Package server exposes the HTTP surface: static frontend, debug
// introspection, identity, warehouse ping, and the paginated emails API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkarlsen/lakemail/internal/config"
	"github.com/mkarlsen/lakemail/internal/identity"
)

// Server holds the request handlers and their collaborators.
type Server struct {
	cfg      *config.Config
	identity *identity.Client
	log      *slog.Logger
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   *config.Config
	Identity *identity.Client // optional, built from Config.Host when nil
	Logger   *slog.Logger
}

// New creates a Server.
func New(deps Deps) *Server {
	idc := deps.Identity
	if idc == nil {
		idc = identity.NewClient(deps.Config.Host)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      deps.Config,
		identity: idc,
		log:      logger,
	}
}

// Router builds the chi router with compression and panic recovery. Responses
// larger than the gzip floor are compressed when the client accepts it.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/debug/env", s.handleDebugEnv)
		r.Get("/me", s.handleMe)
		r.Get("/sql/ping", s.handlePing)
		r.Get("/emails", s.handleEmails)
	})

	return r
}
