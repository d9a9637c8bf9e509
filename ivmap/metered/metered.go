// Package metered instruments an ivmap.Map with Prometheus metrics.
//
// The wrapper only observes: values and errors of the underlying map pass through
// untouched.
package metered

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aglyzov/go-ivmap/ivmap"
)

// Assign results as reported by the assign_total counter.
const (
	ResultOK                = "ok"
	ResultInvalidRange      = "invalid_range"
	ResultRedundantBoundary = "redundant_boundary"
	ResultDuplicateAdjacent = "duplicate_adjacent"
	ResultError             = "error"
)

const (
	opAssign = "assign"
	opLookup = "lookup"
)

// Metrics is a set of collectors shared by any number of wrapped maps.
type Metrics struct {
	// Duration observes the latency of a single operation. Labels: op (assign, lookup).
	Duration *prometheus.HistogramVec

	// Assigns counts assign calls. Labels: result (ok, invalid_range, ...).
	Assigns *prometheus.CounterVec

	// Transitions is the number of transitions stored by the last map written to.
	Transitions prometheus.Gauge
}

// NewMetrics creates the collectors under the namespace and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Interval map operation latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10), // 100ns .. ~26ms
		}, []string{"op"}),
		Assigns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assign_total",
			Help:      "Total interval map assigns by result",
		}, []string{"result"}),
		Transitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transitions",
			Help:      "Number of stored transition points",
		}),
	}

	for _, c := range []prometheus.Collector{m.Duration, m.Assigns, m.Transitions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register ivmap metrics: %w", err)
		}
	}

	return m, nil
}

// Map is an ivmap.Map reporting to Metrics.
type Map[K any, V comparable] struct {
	inner   *ivmap.Map[K, V]
	metrics *Metrics
}

// Wrap instruments m. The map must not be modified bypassing the wrapper if the
// transitions gauge is to stay accurate.
func Wrap[K any, V comparable](m *ivmap.Map[K, V], metrics *Metrics) *Map[K, V] {
	metrics.Transitions.Set(float64(m.Len()))

	return &Map[K, V]{
		inner:   m,
		metrics: metrics,
	}
}

// Assign calls ivmap.Map.Assign counting the result.
func (m *Map[K, V]) Assign(begin, end K, val V) error {
	timer := prometheus.NewTimer(m.metrics.Duration.WithLabelValues(opAssign))
	err := m.inner.Assign(begin, end, val)
	timer.ObserveDuration()

	m.metrics.Assigns.WithLabelValues(Result(err)).Inc()
	if err == nil {
		m.metrics.Transitions.Set(float64(m.inner.Len()))
	}

	return err
}

// Lookup calls ivmap.Map.Lookup.
func (m *Map[K, V]) Lookup(key K) V {
	timer := prometheus.NewTimer(m.metrics.Duration.WithLabelValues(opLookup))
	defer timer.ObserveDuration()

	return m.inner.Lookup(key)
}

func (m *Map[K, V]) Len() int {
	return m.inner.Len()
}

// Unwrap returns the instrumented map.
func (m *Map[K, V]) Unwrap() *ivmap.Map[K, V] {
	return m.inner
}

// Result maps an Assign error onto the result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ivmap.ErrInvalidRange):
		return ResultInvalidRange
	case errors.Is(err, ivmap.ErrRedundantBoundaryValue):
		return ResultRedundantBoundary
	case errors.Is(err, ivmap.ErrDuplicateAdjacentValue):
		return ResultDuplicateAdjacent
	default:
		return ResultError
	}
}
