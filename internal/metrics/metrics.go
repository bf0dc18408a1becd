// Package metrics exposes Prometheus instruments for settlement calculations
// and RPC traffic.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/settleup/internal/calculator"
)

const namespace = "settleup"

// Calculation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the registered instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	calculations *prometheus.CounterVec
	transfers    prometheus.Histogram
	rpcDuration  *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the instruments, plus Go runtime and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the instruments on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Settlement calculations by outcome.",
		}, []string{"outcome"}),
		transfers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Number of transfers in a computed settle-up plan.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 50},
		}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		gatherer: g,
	}
}

// ObserveCalculation records one engine run and, on success, its plan size.
func (m *Metrics) ObserveCalculation(transfers int, err error) {
	if m == nil {
		return
	}

	var verr calculator.ValidationError
	switch {
	case err == nil:
		m.calculations.WithLabelValues(OutcomeOK).Inc()
		m.transfers.Observe(float64(transfers))
	case errors.As(err, &verr):
		m.calculations.WithLabelValues(OutcomeInvalid).Inc()
	default:
		m.calculations.WithLabelValues(OutcomeError).Inc()
	}
}

// ObserveRPC records the duration of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
