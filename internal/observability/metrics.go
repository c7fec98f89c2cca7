package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// MetricsServer serves Prometheus metrics on a separate port so scrapes never
// reach the public listener.
type MetricsServer struct {
	server   *http.Server
	listener net.Listener
}

// NewMetricsServer creates a metrics HTTP server serving the provider's
// registry at the given path on the given port.
func NewMetricsServer(port int, path string, provider *Provider) *MetricsServer {
	mux := http.NewServeMux()

	if handler := provider.Handler(); handler != nil {
		mux.Handle(path, handler)
	}

	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Listen binds the metrics port without serving yet.
func (ms *MetricsServer) Listen() error {
	ln, err := net.Listen("tcp", ms.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind metrics port %s: %w", ms.server.Addr, err)
	}
	ms.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (ms *MetricsServer) Addr() net.Addr {
	if ms.listener == nil {
		return nil
	}
	return ms.listener.Addr()
}

// Start begins serving metrics in a blocking call, binding first if Listen was
// not called. Returns nil on graceful shutdown.
func (ms *MetricsServer) Start() error {
	if ms.listener == nil {
		if err := ms.Listen(); err != nil {
			return err
		}
	}

	slog.Info("Starting metrics server", "addr", ms.listener.Addr().String())
	if err := ms.server.Serve(ms.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the metrics server.
func (ms *MetricsServer) Shutdown(ctx context.Context) error {
	return ms.server.Shutdown(ctx)
}
