// Package metrics exposes ledger counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricPaymentsTotal        = "shg_payments_total"
	MetricPaymentAmountTotal   = "shg_payment_amount_total"
	MetricPeriodClosesTotal    = "shg_period_closes_total"
	MetricCloseDurationSeconds = "shg_period_close_duration_seconds"
	MetricPeriodReopensTotal   = "shg_period_reopens_total"
	MetricCashMovementsTotal   = "shg_cash_movements_total"
)

// Outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeRejected      = "rejected"
	OutcomeConflict      = "conflict"
	OutcomeReplayed      = "replayed"
	OutcomeAlreadyClosed = "already_closed"
	OutcomeError         = "error"
)

// Metrics holds the ledger's collectors on a private registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	payments      *prometheus.CounterVec
	paymentAmount prometheus.Counter
	closes        *prometheus.CounterVec
	closeDuration prometheus.Histogram
	reopens       *prometheus.CounterVec
	movements     *prometheus.CounterVec
}

// New creates and registers all collectors, plus the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPaymentsTotal,
			Help: "Payments recorded, by outcome.",
		}, []string{"outcome"}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricPaymentAmountTotal,
			Help: "Sum of accepted payment amounts, loan principal included.",
		}),
		closes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPeriodClosesTotal,
			Help: "Period close attempts, by outcome.",
		}, []string{"outcome"}),
		closeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricCloseDurationSeconds,
			Help:    "Time spent closing a period, lock wait included.",
			Buckets: prometheus.DefBuckets,
		}),
		reopens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPeriodReopensTotal,
			Help: "Period reopen attempts, by outcome.",
		}, []string{"outcome"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricCashMovementsTotal,
			Help: "Cash outflows recorded, by kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.payments, m.paymentAmount, m.closes, m.closeDuration, m.reopens, m.movements,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry (for testing).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// PaymentRecorded counts a payment attempt. amount is only added for OutcomeOK.
func (m *Metrics) PaymentRecorded(outcome string, amount float64) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK && amount > 0 {
		m.paymentAmount.Add(amount)
	}
}

// PeriodClosed counts a close attempt and observes its duration.
func (m *Metrics) PeriodClosed(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.closes.WithLabelValues(outcome).Inc()
	m.closeDuration.Observe(took.Seconds())
}

// PeriodReopened counts a reopen attempt.
func (m *Metrics) PeriodReopened(outcome string) {
	if m == nil {
		return
	}
	m.reopens.WithLabelValues(outcome).Inc()
}

// CashMovementRecorded counts an outflow.
func (m *Metrics) CashMovementRecorded(kind string) {
	if m == nil {
		return
	}
	m.movements.WithLabelValues(kind).Inc()
}
