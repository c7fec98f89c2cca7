package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type routeSettings struct {
	otelServiceName string
	requestMetrics  mux.MiddlewareFunc
	rateLimiter     mux.MiddlewareFunc
}

// RouteOption configures optional route behavior.
type RouteOption func(*routeSettings)

// WithOTelMiddleware adds OpenTelemetry HTTP instrumentation middleware.
func WithOTelMiddleware(serviceName string) RouteOption {
	return func(s *routeSettings) {
		s.otelServiceName = serviceName
	}
}

// WithRequestMetrics adds request counting and latency middleware.
func WithRequestMetrics(middleware func(http.Handler) http.Handler) RouteOption {
	return func(s *routeSettings) {
		s.requestMetrics = middleware
	}
}

// WithRateLimiter adds rate limiting middleware to the router.
func WithRateLimiter(middleware func(http.Handler) http.Handler) RouteOption {
	return func(s *routeSettings) {
		s.rateLimiter = middleware
	}
}

// SetupRoutes configures the HTTP routes for the API.
//
// Middleware only wraps matched routes, so unknown paths and methods get the
// router's default 404 and 405 responses untouched. Order, outermost first:
// tracing, logging, recovery, metrics, rate limiting.
func SetupRoutes(handlers *Handlers, opts ...RouteOption) *mux.Router {
	settings := &routeSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	router := mux.NewRouter()

	if settings.otelServiceName != "" {
		router.Use(otelmux.Middleware(settings.otelServiceName))
	}

	router.Use(loggingMiddleware)
	router.Use(recoveryMiddleware)

	if settings.requestMetrics != nil {
		router.Use(settings.requestMetrics)
	}
	if settings.rateLimiter != nil {
		router.Use(settings.rateLimiter)
	}

	router.HandleFunc("/", handlers.Status).Methods(http.MethodGet)

	return router
}
