// File: internal/infra/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/config"
)

// Server is the small admin surface exposed during a benchmark run:
// liveness and Prometheus metrics. Disabled when admin.port is 0.
type Server struct {
	cfg    *config.Config
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(cfg *config.Config, log *zerolog.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Admin.Port),
		Handler: r,
	}

	s.log.Info().Int("port", s.cfg.Admin.Port).Msg("admin server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
