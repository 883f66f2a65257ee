// Package metrics instruments the API client's HTTP transport with
// Prometheus counters.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client-side request metrics.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New creates and registers the metric set.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_client_requests_total",
				Help: "API requests issued by the storefront client.",
			},
			[]string{"operation", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_client_request_duration_seconds",
				Help:    "API request duration.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "method"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "storefront_client_requests_in_flight",
				Help: "API requests currently in flight.",
			},
		),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.inFlight)
	return m
}

// Transport wraps base with request instrumentation. A nil base uses
// http.DefaultTransport.
func (m *Metrics) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &transport{base: base, metrics: m}
}

type transport struct {
	base    http.RoundTripper
	metrics *Metrics
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	op := operationLabel(req.URL.Path)

	t.metrics.inFlight.Inc()
	defer t.metrics.inFlight.Dec()

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	t.metrics.requestsTotal.WithLabelValues(op, req.Method, status).Inc()
	t.metrics.requestDuration.WithLabelValues(op, req.Method).Observe(duration.Seconds())

	return resp, err
}

// operationLabel collapses request paths into a bounded label set:
// numeric path segments become "{id}" so each order detail does not mint
// its own series.
func operationLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}
