package server

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
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server is an http.Server bound to a context: it serves until the context
// ends and then shuts down gracefully.
type Server struct {
	name   string
	srv    *http.Server
	logger *zap.Logger
}

func New(name, addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		name: name,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger.Named(name),
	}
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("%s listen: %w", s.name, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an already open listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s serve: %w", s.name, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown: %w", s.name, err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// RunLiveness runs s as the liveness listener. When it does not carry the
// webhook route a failure is only logged: polling keeps working without it.
func RunLiveness(ctx context.Context, s *Server, carriesWebhook bool) error {
	err := s.Run(ctx)
	if err != nil && !carriesWebhook {
		s.logger.Error("liveness server failed, continuing without it", zap.Error(err))
		return nil
	}
	return err
}
