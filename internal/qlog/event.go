// Package qlog streams the events this core emits — packets sent,
// buffered, dropped, coalesced, or probed for a larger MTU — as qlog-style
// JSON (draft-ietf-quic-qlog-main-schema), the way quic-go's own qlog
// package does for the wider connection lifecycle this core doesn't own.
package qlog

import (
	"sort"
	"time"

	"github.com/francoispqt/gojay"

	"github.com/quicforge/quicpacker/internal/protocol"
)

var eventFieldNames = [4]string{"time", "category", "event", "data"}

type category uint8

const (
	categoryTransport category = iota
	categoryRecovery
)

func (c category) String() string {
	if c == categoryRecovery {
		return "recovery"
	}
	return "transport"
}

type eventDetails interface {
	Category() category
	Name() string
	gojay.MarshalerJSONObject
}

type event struct {
	Time time.Time
	eventDetails
}

var _ gojay.MarshalerJSONArray = event{}

func (e event) IsNil() bool { return false }
func (e event) MarshalJSONArray(enc *gojay.Encoder) {
	enc.Float64(float64(e.Time.UnixNano()) / 1e6)
	enc.String(e.Category().String())
	enc.String(e.Name())
	enc.Object(e.eventDetails)
}

// events batches pending events for one Encode call. Timestamps can arrive
// slightly out of order across goroutines reporting into the same tracer;
// sort.Stable keeps same-time events in report order while fixing that up.
type events []event

var _ sort.Interface = events{}
var _ gojay.MarshalerJSONArray = events{}

func (e events) IsNil() bool { return e == nil }
func (e events) Len() int    { return len(e) }
func (e events) Less(i, j int) bool {
	return e[i].Time.UnixNano() < e[j].Time.UnixNano()
}
func (e events) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

func (e events) MarshalJSONArray(enc *gojay.Encoder) {
	sort.Stable(e)
	for _, ev := range e {
		enc.Array(ev)
	}
}

// eventPacketSent fires once a packet has cleared the serializer and its
// AEAD seal.
type eventPacketSent struct {
	PacketType       string
	PacketNumber     protocol.PacketNumber
	Size             protocol.ByteCount
	TransmissionType string
	IsCoalesced      bool
}

func (e eventPacketSent) Category() category { return categoryTransport }
func (e eventPacketSent) Name() string       { return "packet_sent" }
func (e eventPacketSent) IsNil() bool        { return false }

func (e eventPacketSent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType)
	enc.Int64Key("packet_number", int64(e.PacketNumber))
	enc.Uint64Key("size", uint64(e.Size))
	enc.StringKeyOmitEmpty("transmission_type", e.TransmissionType)
	enc.BoolKeyOmitEmpty("is_coalesced", e.IsCoalesced)
}

// eventPacketBuffered is what ConnectionTracer.OnPacketBuffered records for
// a write deferred because no keys are available yet at that level. Neither
// the assembler nor the coalescer calls OnPacketBuffered.
type eventPacketBuffered struct {
	PacketType string
	Trigger    string
}

func (e eventPacketBuffered) Category() category { return categoryTransport }
func (e eventPacketBuffered) Name() string       { return "packet_buffered" }
func (e eventPacketBuffered) IsNil() bool        { return false }

func (e eventPacketBuffered) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType)
	enc.StringKey("trigger", e.Trigger)
}

// eventPacketDropped fires when a packet could not be serialized or was
// discarded instead of sent (spec section 4.4 step 7, and the
// too-many-path-response-payloads case).
type eventPacketDropped struct {
	PacketType string
	Trigger    string
}

func (e eventPacketDropped) Category() category { return categoryTransport }
func (e eventPacketDropped) Name() string       { return "packet_dropped" }
func (e eventPacketDropped) IsNil() bool        { return false }

func (e eventPacketDropped) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType)
	enc.StringKey("trigger", e.Trigger)
}

// eventFramesCoalesced fires once per Coalesce call that combined more
// than one encryption level into a single datagram.
type eventFramesCoalesced struct {
	PacketCount int
	DatagramLen protocol.ByteCount
	PaddedTo    protocol.ByteCount
}

func (e eventFramesCoalesced) Category() category { return categoryTransport }
func (e eventFramesCoalesced) Name() string       { return "packets_coalesced" }
func (e eventFramesCoalesced) IsNil() bool        { return false }

func (e eventFramesCoalesced) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("packet_count", e.PacketCount)
	enc.Uint64Key("datagram_length", uint64(e.DatagramLen))
	enc.Uint64KeyOmitEmpty("padded_to", uint64(e.PaddedTo))
}

// eventMTUProbeSent fires from GenerateMTUDiscovery.
type eventMTUProbeSent struct {
	ProbeSize protocol.ByteCount
}

func (e eventMTUProbeSent) Category() category { return categoryRecovery }
func (e eventMTUProbeSent) Name() string       { return "mtu_probe_sent" }
func (e eventMTUProbeSent) IsNil() bool        { return false }

func (e eventMTUProbeSent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("probe_size", uint64(e.ProbeSize))
}
