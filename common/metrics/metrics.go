package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics contains HTTP-related Prometheus metrics
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// BusinessMetrics contains storefront checkout and order metrics
type BusinessMetrics struct {
	CheckoutsCreated       prometheus.Counter
	OrdersFinalized        prometheus.Counter
	DuplicateFinalizations prometheus.Counter
	FinalizeFailures       prometheus.Counter
	ProviderAPIDuration    *prometheus.HistogramVec
}

// NewHTTPMetrics creates HTTP metrics for a service
func NewHTTPMetrics(serviceName string, reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	prefix := metricPrefix(serviceName)

	return &HTTPMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// NewBusinessMetrics creates business-specific metrics
func NewBusinessMetrics(serviceName string, reg prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(reg)
	prefix := metricPrefix(serviceName)

	return &BusinessMetrics{
		CheckoutsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_checkouts_created_total",
				Help: "Total number of checkout sessions created",
			},
		),
		OrdersFinalized: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_orders_finalized_total",
				Help: "Total number of orders created from paid transactions",
			},
		),
		DuplicateFinalizations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_duplicate_finalizations_total",
				Help: "Finalize attempts for transactions that already had an order",
			},
		),
		FinalizeFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_finalize_failures_total",
				Help: "Finalize attempts that failed on persistence",
			},
		),
		ProviderAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_payment_provider_duration_seconds",
				Help:    "Payment provider API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordHTTPRequest records an HTTP request metric
func (m *HTTPMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveProvider records how long a payment provider call took.
func (m *BusinessMetrics) ObserveProvider(operation string, start time.Time) {
	m.ProviderAPIDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// prometheus names only allow [a-zA-Z0-9_:]
func metricPrefix(serviceName string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
}
