package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultShutdownTimeout   = 5 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

type Server struct {
	Addr            string
	Handler         http.Handler
	ShutdownTimeout time.Duration
}

func NewServer(port int, handler http.Handler) *Server {
	return &Server{
		Addr:            fmt.Sprintf(":%d", port),
		Handler:         handler,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Run listens on s.Addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := zap.L().Named("api").Sugar()
	srv := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		timeout := s.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Info("Shutting down server")
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	log.Infof("Listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownDone
}
