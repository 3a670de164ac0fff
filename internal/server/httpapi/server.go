package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gowear/gowear/internal/logging"
	"github.com/gowear/gowear/internal/server/auth"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of the application. It shuts down gracefully
// when the passed context is cancelled.
type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(address string, h *Handlers, issuer *auth.Issuer, l logging.Logger) *Server {
	logger := l.With("module", "http_server")
	return &Server{
		address: address,
		handler: NewRouter(h, issuer, logger),
		logger:  logger,
	}
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
