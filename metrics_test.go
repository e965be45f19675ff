package quicpacker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	m.packetsSerialized.Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(m.packetsSerialized))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewMetricsWithNilRegistryDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		m := NewMetrics(nil)
		m.mtuProbesSent.Inc()
	})
}

func TestNilMetricsObserveMethodsAreNoops(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.observePacketDropped("initial")
		m.observeCoalesced()
	})
}

func TestMetricsObservePacketDroppedIncrementsLabeledCounter(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.observePacketDropped("handshake")
	m.observePacketDropped("handshake")
	m.observePacketDropped("initial")

	require.Equal(t, float64(2), testutil.ToFloat64(m.packetsDropped.WithLabelValues("handshake")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.packetsDropped.WithLabelValues("initial")))
}

func TestMetricsObserveCoalescedIncrementsCounter(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.observeCoalesced()
	m.observeCoalesced()
	require.Equal(t, float64(2), testutil.ToFloat64(m.coalescedDatagrams))
}
