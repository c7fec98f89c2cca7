package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statusapi/internal/api"
	"statusapi/internal/config"
	"statusapi/internal/logger"
	"statusapi/internal/observability"
	"statusapi/internal/ratelimit"
	"statusapi/internal/server"
	"statusapi/internal/version"
)

var (
	configFile    = flag.String("config", "", "Path to configuration file")
	exampleConfig = flag.String("example-config", "", "Write an example configuration file to this path and exit")
	showVersion   = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	ver := version.GetInfo()
	if *showVersion {
		fmt.Println(ver.String())
		return
	}

	if *exampleConfig != "" {
		if err := config.SaveExample(*exampleConfig); err != nil {
			slog.Error("Failed to write example configuration", "error", err)
			os.Exit(1)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logging
	log, closer, err := logger.Setup(cfg.Logging, ver)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(log)

	// Initialize observability (OpenTelemetry)
	otelProvider, err := observability.Setup(cfg.Metrics, cfg.Observability, ver)
	if err != nil {
		slog.Error("Failed to initialize observability", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown observability", "error", err)
		}
	}()

	routeOpts := []api.RouteOption{}
	if cfg.Observability.Tracing.Enabled {
		routeOpts = append(routeOpts, api.WithOTelMiddleware(cfg.Observability.ServiceName))
	}

	if cfg.Metrics.Enabled {
		requestMetrics, err := observability.NewRequestMetrics(otelProvider.Meter("statusapi/http"))
		if err != nil {
			slog.Error("Failed to create request metrics", "error", err)
			os.Exit(1)
		}
		routeOpts = append(routeOpts, api.WithRequestMetrics(requestMetrics.Middleware))
	}

	// Initialize rate limiter if enabled
	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.New(context.Background(), cfg.RateLimit)
		if err != nil {
			slog.Error("Failed to initialize rate limiter", "error", err, "backend", cfg.RateLimit.Backend)
			os.Exit(1)
		}
		defer limiter.Close()
		routeOpts = append(routeOpts, api.WithRateLimiter(ratelimit.Middleware(limiter)))
	}

	router := api.SetupRoutes(api.NewHandlers(), routeOpts...)

	// Start metrics server if enabled
	var metricsServer *observability.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = observability.NewMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path, otelProvider)
		if err := metricsServer.Listen(); err != nil {
			slog.Error("Metrics server failed to start", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	srv := server.New(cfg.Server, router, server.WithLogger(log))

	// Bind synchronously so a taken port fails the process before anything
	// claims to be running.
	if err := srv.Listen(); err != nil {
		slog.Error("Server failed to start", "error", err, "port", cfg.Server.Port)
		os.Exit(1)
	}

	slog.Info("Server started",
		"version", ver.Version,
		"port", srv.Port(),
		"metrics_enabled", cfg.Metrics.Enabled,
		"tracing_enabled", cfg.Observability.Tracing.Enabled,
		"rate_limit_enabled", cfg.RateLimit.Enabled)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve()
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("Shutting down server", "signal", sig.String())
	case err := <-serveErr:
		if err != nil {
			slog.Error("Server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}

	// Create a deadline to wait for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown metrics server
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server forced to shutdown", "error", err)
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server shutdown complete", "uptime", ver.Uptime().String())
}
