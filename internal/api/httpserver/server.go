// Package httpserver wraps http.Server with the listener settings and
// graceful shutdown used by the blog server.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/inkwell-labs/blog-server/internal/config"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

// Server runs the HTTP listener.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

// New builds a server around the given handler.
func New(cfg config.ServerConfig, log *logger.Logger, handler http.Handler) *Server {
	if log == nil {
		log = logger.NewDefault("httpserver")
	}
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Start blocks serving requests until the listener fails or Shutdown is
// called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.WithField("addr", s.srv.Addr).Info("http server listening")
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
