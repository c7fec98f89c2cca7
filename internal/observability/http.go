package observability

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// RequestMetrics records per-request counters and latency for the routes it
// wraps.
type RequestMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

// NewRequestMetrics creates the HTTP server instruments on the given meter.
func NewRequestMetrics(meter metric.Meter) (*RequestMetrics, error) {
	requests, err := meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Number of HTTP requests handled"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &RequestMetrics{
		requests: requests,
		duration: duration,
		inFlight: inFlight,
	}, nil
}

// Middleware instruments the wrapped handler. The response size is added to
// the active span, if any.
func (m *RequestMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		route := routeTemplate(r)

		active := metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
		)
		m.inFlight.Add(ctx, 1, active)
		defer m.inFlight.Add(ctx, -1, active)

		snoop := httpsnoop.CaptureMetrics(next, w, r)

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", snoop.Code),
		)
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, snoop.Duration.Seconds(), attrs)

		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int64("http.response.body.size", snoop.Written),
		)
	})
}

// routeTemplate returns the matched mux path template so label cardinality
// stays bounded by the route table.
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
