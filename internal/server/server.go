// Package server owns the public HTTP listener. Binding is separate from
// serving so the process can report a bind failure and exit before it claims
// to be running.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"statusapi/internal/models"
)

// State is the lifecycle position of a Server.
type State int32

const (
	StateStarting State = iota
	StateServing
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateServing:
		return "serving"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyListening is returned by Listen on a bound server.
	ErrAlreadyListening = errors.New("server is already listening")
	// ErrNotListening is returned by Serve before a successful Listen.
	ErrNotListening = errors.New("server is not listening")
)

// Server wraps http.Server with a synchronous bind and an observable state.
type Server struct {
	httpServer *http.Server
	banner     io.Writer
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	state    atomic.Int32
}

// Option configures a Server.
type Option func(*Server)

// WithBannerWriter sets where the startup line is written. Defaults to stdout.
func WithBannerWriter(w io.Writer) Option {
	return func(s *Server) {
		s.banner = w
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a Server for handler. Nothing is bound until Listen.
func New(cfg models.ServerConfig, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		banner: os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the configured address and prints the startup line. On failure
// the server stays in StateStarting.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return ErrAlreadyListening
	}
	if s.State() == StateStopped {
		return http.ErrServerClosed
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	s.state.Store(int32(StateServing))

	port := portOf(ln)
	fmt.Fprintf(s.banner, "Server is running on port %d\n", port)
	s.logger.Info("Server listening", "addr", ln.Addr().String(), "port", port)
	return nil
}

// Serve accepts connections on the bound listener until Shutdown. It returns
// nil after a graceful shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return ErrNotListening
	}

	err := s.httpServer.Serve(ln)
	s.state.Store(int32(StateStopped))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe binds and then serves.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or 0 before Listen. With port 0 configured
// this is the port the kernel picked.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return portOf(s.listener)
}

func portOf(ln net.Listener) int {
	if ln == nil {
		return 0
	}
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// State reports the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Shutdown stops accepting connections and waits for in-flight requests until
// ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.state.Store(int32(StateStopped))
	err := s.httpServer.Shutdown(ctx)

	// A listener that never reached Serve is not tracked by http.Server.
	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
