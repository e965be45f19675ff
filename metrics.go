package quicpacker

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the Prometheus collectors the assembler updates as it
// serializes packets. A nil *Metrics is always safe to pass around;
// callers check for it before touching any field.
type Metrics struct {
	packetsSerialized prometheus.Counter
	bytesEmitted      prometheus.Counter
	mtuProbesSent     prometheus.Counter
	coalescedDatagrams prometheus.Counter
	packetsDropped    *prometheus.CounterVec
	packetSize        prometheus.Histogram
}

// NewMetrics creates a Metrics bundle and registers it with reg. Passing a
// fresh prometheus.NewRegistry() per connection avoids collisions when a
// process runs many Assemblers at once; a shared default registry works
// just as well for a single-connection binary.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		packetsSerialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quicpacker",
			Name:      "packets_serialized_total",
			Help:      "Total number of packets handed to the serializer and successfully sealed.",
		}),
		bytesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quicpacker",
			Name:      "bytes_emitted_total",
			Help:      "Total number of bytes across all serialized packets, including header and AEAD overhead.",
		}),
		mtuProbesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quicpacker",
			Name:      "mtu_probes_sent_total",
			Help:      "Total number of path MTU discovery probes generated.",
		}),
		coalescedDatagrams: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quicpacker",
			Name:      "coalesced_datagrams_total",
			Help:      "Total number of UDP datagrams carrying more than one coalesced packet.",
		}),
		packetsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quicpacker",
			Name:      "packets_dropped_total",
			Help:      "Total number of packets discarded instead of sent, labeled by encryption level.",
		}, []string{"encryption_level"}),
		packetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quicpacker",
			Name:      "packet_size_bytes",
			Help:      "Size distribution of serialized packets.",
			Buckets:   prometheus.LinearBuckets(64, 128, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.packetsSerialized, m.bytesEmitted, m.mtuProbesSent, m.coalescedDatagrams, m.packetsDropped, m.packetSize)
	}
	return m
}

func (m *Metrics) observePacketDropped(level string) {
	if m == nil {
		return
	}
	m.packetsDropped.WithLabelValues(level).Inc()
}

func (m *Metrics) observeCoalesced() {
	if m == nil {
		return
	}
	m.coalescedDatagrams.Inc()
}
