package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Checkout metrics
	CheckoutsTotal   *prometheus.CounterVec
	CheckoutDuration *prometheus.HistogramVec
	CheckoutAmount   *prometheus.HistogramVec

	// Enrollment metrics
	EnrollmentsTotal   *prometheus.CounterVec
	EnrollmentFailures *prometheus.CounterVec

	// Email metrics
	EmailEventsPublished prometheus.Counter
	EmailsSent           *prometheus.CounterVec

	// Gateway metrics
	GatewayRequests        *prometheus.CounterVec
	GatewayDuration        *prometheus.HistogramVec
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Worker metrics
	WorkerMessagesProcessed  *prometheus.CounterVec
	WorkerProcessingDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		CheckoutsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkouts_total",
				Help:      "Total number of checkout operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		CheckoutDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "checkout_duration_seconds",
				Help:      "Checkout operation duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		CheckoutAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "checkout_amount_cents",
				Help:      "Quoted checkout amounts in minor currency units",
				Buckets:   []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
			},
			[]string{"currency"},
		),
		EnrollmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enrollments_total",
				Help:      "Total number of per-course enrollment attempts by outcome",
			},
			[]string{"outcome"},
		),
		EnrollmentFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enrollment_failures_total",
				Help:      "Total number of per-course enrollment failures by reason",
			},
			[]string{"reason"},
		),
		EmailEventsPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "email_events_published_total",
				Help:      "Total number of enrollment email events published",
			},
		),
		EmailsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emails_sent_total",
				Help:      "Total number of enrollment emails by delivery status",
			},
			[]string{"status"},
		),
		GatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total number of payment gateway requests",
			},
			[]string{"gateway", "operation", "status"},
		),
		GatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Payment gateway request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"gateway", "operation"},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		CircuitBreakerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_requests_total",
				Help:      "Total number of circuit breaker requests",
			},
			[]string{"name", "result"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		WorkerMessagesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worker_messages_processed_total",
				Help:      "Total number of worker messages processed",
			},
			[]string{"stream", "status"},
		),
		WorkerProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "worker_processing_duration_seconds",
				Help:      "Worker message processing duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"stream"},
		),
	}

	factory.MustRegister(
		m.CheckoutsTotal,
		m.CheckoutDuration,
		m.CheckoutAmount,
		m.EnrollmentsTotal,
		m.EnrollmentFailures,
		m.EmailEventsPublished,
		m.EmailsSent,
		m.GatewayRequests,
		m.GatewayDuration,
		m.CircuitBreakerState,
		m.CircuitBreakerRequests,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WorkerMessagesProcessed,
		m.WorkerProcessingDuration,
	)

	return m
}
