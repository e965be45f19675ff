package qlog

import (
	"time"

	"github.com/francoispqt/gojay"

	"github.com/quicforge/quicpacker/internal/protocol"
)

type vantagePoint struct {
	Perspective protocol.Perspective
}

func (v vantagePoint) IsNil() bool { return false }
func (v vantagePoint) MarshalJSONObject(enc *gojay.Encoder) {
	if v.Perspective == protocol.PerspectiveServer {
		enc.StringKey("type", "server")
	} else {
		enc.StringKey("type", "client")
	}
}

type commonFields struct {
	ODCID         string
	ReferenceTime time.Time
}

func (c commonFields) IsNil() bool { return false }
func (c commonFields) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKeyOmitEmpty("group_id", c.ODCID)
	enc.Float64Key("reference_time", float64(c.ReferenceTime.UnixNano())/1e6)
}

// fieldNames implements gojay.MarshalerJSONArray over a fixed []string, for
// the trace's declared "event_fields" column order.
type fieldNames []string

func (f fieldNames) IsNil() bool { return f == nil }
func (f fieldNames) MarshalJSONArray(enc *gojay.Encoder) {
	for _, name := range f {
		enc.String(name)
	}
}

type trace struct {
	VantagePoint vantagePoint
	CommonFields commonFields
}

func (t trace) IsNil() bool { return false }
func (t trace) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ObjectKey("vantage_point", t.VantagePoint)
	enc.ObjectKey("common_fields", t.CommonFields)
	enc.ArrayKey("event_fields", fieldNames(eventFieldNames[:]))
	enc.ArrayKey("events", events{})
}

// topLevel is written once, up front, with an empty events array; the
// encoder's closing bytes are then sliced off so the connection tracer can
// keep appending real events to the open array itself (gojay has no
// streaming array encoder, so this core fakes one the same way quic-go's
// qlog package does: encode the skeleton, chop the trailer, write each
// event as a comma-separated JSON array, then glue the trailer back on at
// Close).
type topLevel struct {
	Trace trace
}

func (t topLevel) IsNil() bool { return false }
func (t topLevel) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("qlog_version", "0.3")
	enc.StringKey("qlog_format", "JSON")
	enc.ObjectKey("trace", t.Trace)
}
