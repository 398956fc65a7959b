// Package metrics holds the Prometheus collectors shared by the trip store
// and the location gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the application's collectors. A nil *Metrics is valid and
// records nothing, so components can be built without metrics in tests.
type Metrics struct {
	storeOps     *prometheus.CounterVec
	gatewayCalls *prometheus.CounterVec
	tripCount    prometheus.Gauge
}

// New registers the collectors with reg and returns them.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trip_store_operations_total",
			Help: "Trip store operations by operation name and result",
		}, []string{"op", "result"}),
		gatewayCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "location_gateway_calls_total",
			Help: "Location gateway host calls by call name and result",
		}, []string{"call", "result"}),
		tripCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "trip_store_trips",
			Help: "Number of trips in the collection after the last successful save",
		}),
	}
}

// ObserveStore records the outcome of a trip store operation.
func (m *Metrics) ObserveStore(op string, ok bool) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, result(ok)).Inc()
}

// SetTripCount records the collection size written by the last save.
func (m *Metrics) SetTripCount(n int) {
	if m == nil {
		return
	}
	m.tripCount.Set(float64(n))
}

// ObserveGateway records the outcome of a location gateway call.
func (m *Metrics) ObserveGateway(call string, err error) {
	if m == nil {
		return
	}
	m.gatewayCalls.WithLabelValues(call, result(err == nil)).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
