package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "invoicing"

// Metrics holds the Prometheus instruments of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	invoicesCreated   *prometheus.CounterVec
	numberConflicts   prometheus.Counter
	numberExhausted   prometheus.Counter
	paymentsRecorded  prometheus.Counter
	statusTransitions *prometheus.CounterVec
}

// New creates the instruments and registers them with registerer.
// A nil registerer uses prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Invoices created by initial status.",
		}, []string{"status"}),
		numberConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_number_conflicts_total",
			Help:      "Invoice number allocations that collided with a concurrent insert and were retried.",
		}),
		numberExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_number_retries_exhausted_total",
			Help:      "Invoice creations that gave up after the maximum number of allocation attempts.",
		}),
		paymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Payments recorded.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_status_transitions_total",
			Help:      "Invoice status transitions by source and target status.",
		}, []string{"from", "to"}),
	}

	registerer.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.invoicesCreated,
		m.numberConflicts,
		m.numberExhausted,
		m.paymentsRecorded,
		m.statusTransitions,
	)
	return m
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) InvoiceCreated(status string) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) InvoiceNumberConflict() {
	if m == nil {
		return
	}
	m.numberConflicts.Inc()
}

func (m *Metrics) InvoiceNumberExhausted() {
	if m == nil {
		return
	}
	m.numberExhausted.Inc()
}

func (m *Metrics) PaymentRecorded() {
	if m == nil {
		return
	}
	m.paymentsRecorded.Inc()
}

func (m *Metrics) InvoiceStatusChanged(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}
