package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.PaymentRecorded(OutcomeOK, 250.5)
	m.PaymentRecorded(OutcomeOK, 100)
	m.PaymentRecorded(OutcomeRejected, 999)
	m.PeriodClosed(OutcomeOK, 20*time.Millisecond)
	m.PeriodClosed(OutcomeAlreadyClosed, time.Millisecond)
	m.PeriodReopened(OutcomeConflict)
	m.CashMovementRecorded("EXPENSE")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.payments.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 350.5, testutil.ToFloat64(m.paymentAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.closes.WithLabelValues(OutcomeAlreadyClosed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reopens.WithLabelValues(OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("EXPENSE")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PaymentRecorded(OutcomeOK, 1)
		m.PeriodClosed(OutcomeOK, time.Second)
		m.PeriodReopened(OutcomeOK)
		m.CashMovementRecorded("EXPENSE")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PeriodClosed(OutcomeOK, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), MetricPeriodClosesTotal)
	assert.Contains(t, string(body), MetricCloseDurationSeconds)
}
