package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary/internal/metrics"
)

func TestMetrics_CountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveStore("add_trip", true)
	m.ObserveStore("add_trip", true)
	m.ObserveStore("update_trip", false)
	m.ObserveGateway("pick_location", errors.New("cancelled"))
	m.SetTripCount(3)

	count, err := testutil.GatherAndCount(reg, "trip_store_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per op/result pair")

	count, err = testutil.GatherAndCount(reg, "location_gateway_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveStore("add_trip", true)
		m.ObserveGateway("current_location", nil)
		m.SetTripCount(1)
	})
}
