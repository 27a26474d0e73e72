package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/blogware/posts-contract-tests/framework"
)

const serverShutdownTimeout = time.Second * 10

// Server runs a PostsService on a TCP port. Start returns once the listener
// is accepting connections, so callers can immediately point clients at it.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     framework.Logger
}

func NewServer(port int, handler http.Handler, logger framework.Logger) *Server {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: handler,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener
	s.logger.Printf("listening on %s", listener.Addr())
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("server error: %s", err)
		}
	}()
	return nil
}

// BaseURL returns the http URL of the running server.
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Shutdown stops the server gracefully, waiting for in-flight requests up to
// a bounded timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
