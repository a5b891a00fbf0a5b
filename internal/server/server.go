package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"pypkg/internal/app"
)

// Server exposes the advisor operations over HTTP for editor and CI
// integrations that prefer a long-lived process over repeated CLI
// invocations.
type Server struct {
	service app.Service
	http    *http.Server
}

func New(service app.Service, addr string) *Server {
	s := &Server{service: service}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/healthz", s.handleHealth)
	router.Route("/v1", func(r chi.Router) {
		r.Get("/project/dependencies", s.handleAnalyze)
		r.Get("/packages/{name}", s.handleMetadata)
		r.Get("/packages/{name}/latest", s.handleLatest)
		r.Get("/search", s.handleSearch)
		r.Post("/compatibility", s.handleCompatibility)
	})

	s.http = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.http.Addr).Msg("listening")
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
