package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/calculator"
)

func newTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

func TestObserveCalculation(t *testing.T) {
	m := newTestMetrics()

	m.ObserveCalculation(2, nil)
	m.ObserveCalculation(0, nil)
	m.ObserveCalculation(0, calculator.ErrMissingPayer)
	m.ObserveCalculation(0, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.transfers))
}

func TestObserveRPC(t *testing.T) {
	m := newTestMetrics()

	m.ObserveRPC("/settleup.v1.BillService/Calculate", "ok", 15*time.Millisecond)
	m.ObserveRPC("/settleup.v1.BillService/GetBill", "not_found", time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.rpcDuration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation(1, nil)
		m.ObserveRPC("p", "ok", time.Second)
	})
}

func TestHandler(t *testing.T) {
	m := newTestMetrics()
	m.ObserveCalculation(1, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "settleup_calculations_total")
}
