package qlog

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/francoispqt/gojay"

	"github.com/quicforge/quicpacker/internal/protocol"
)

const eventChanSize = 50

// ConnectionTracer streams the events one connection's assembler,
// serializer and coalescer emit to w as a single qlog trace. Events are
// queued on a channel and encoded by a dedicated goroutine so the hot
// path (serialize, coalesce) never blocks on I/O — the same split quic-go
// uses in its own connectionTracer.
type ConnectionTracer struct {
	mutex sync.Mutex

	w             io.WriteCloser
	referenceTime time.Time

	suffix     []byte
	events     chan event
	encodeErr  error
	runStopped chan struct{}
}

// NewConnectionTracer starts streaming a qlog trace for one connection to
// w. w is closed by Close.
func NewConnectionTracer(w io.WriteCloser, perspective protocol.Perspective, odcid protocol.ConnectionID) *ConnectionTracer {
	t := &ConnectionTracer{
		w:             w,
		referenceTime: time.Now(),
		runStopped:    make(chan struct{}),
		events:        make(chan event, eventChanSize),
	}
	go t.run(perspective, odcid)
	return t
}

func (t *ConnectionTracer) run(perspective protocol.Perspective, odcid protocol.ConnectionID) {
	defer close(t.runStopped)

	buf := &bytes.Buffer{}
	enc := gojay.NewEncoder(buf)
	tl := topLevel{
		Trace: trace{
			VantagePoint: vantagePoint{Perspective: perspective},
			CommonFields: commonFields{
				ODCID:         odcid.String(),
				ReferenceTime: t.referenceTime,
			},
		},
	}
	if err := enc.Encode(tl); err != nil {
		panic(fmt.Sprintf("qlog: encoding the trace skeleton failed: %s", err))
	}
	data := buf.Bytes()
	// The skeleton was encoded with an empty "events" array; everything
	// from the array's closing bracket onward is the trailer this run
	// restores at Close, once every real event has been appended before
	// it in its place.
	t.suffix = append([]byte(nil), data[bytes.LastIndexByte(data, ']'):]...)
	head := data[:bytes.LastIndexByte(data, ']')]
	if _, err := t.w.Write(head); err != nil {
		t.encodeErr = err
	}

	eventEnc := gojay.NewEncoder(t.w)
	isFirst := true
	for ev := range t.events {
		if t.encodeErr != nil {
			continue
		}
		if !isFirst {
			if _, err := t.w.Write([]byte(",")); err != nil {
				t.encodeErr = err
				continue
			}
		}
		if err := eventEnc.Encode(ev); err != nil {
			t.encodeErr = err
		}
		isFirst = false
	}
}

func (t *ConnectionTracer) recordEvent(eventTime time.Time, details eventDetails) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.events <- event{Time: eventTime, eventDetails: details}
}

// OnPacketSent records a successfully serialized and sealed packet.
func (t *ConnectionTracer) OnPacketSent(packetType string, pn protocol.PacketNumber, size protocol.ByteCount, transmissionType string, coalesced bool) {
	t.recordEvent(time.Now(), eventPacketSent{
		PacketType:       packetType,
		PacketNumber:     pn,
		Size:             size,
		TransmissionType: transmissionType,
		IsCoalesced:      coalesced,
	})
}

// OnPacketBuffered records a write deferred for want of keys at a level.
func (t *ConnectionTracer) OnPacketBuffered(packetType, trigger string) {
	t.recordEvent(time.Now(), eventPacketBuffered{PacketType: packetType, Trigger: trigger})
}

// OnPacketDropped records a packet discarded instead of sent.
func (t *ConnectionTracer) OnPacketDropped(packetType, trigger string) {
	t.recordEvent(time.Now(), eventPacketDropped{PacketType: packetType, Trigger: trigger})
}

// OnPacketsCoalesced records one Coalesce call that combined more than one
// encryption level's packet into a single datagram.
func (t *ConnectionTracer) OnPacketsCoalesced(packetCount int, datagramLen, paddedTo protocol.ByteCount) {
	t.recordEvent(time.Now(), eventFramesCoalesced{PacketCount: packetCount, DatagramLen: datagramLen, PaddedTo: paddedTo})
}

// OnMTUProbeSent records a path MTU discovery probe.
func (t *ConnectionTracer) OnMTUProbeSent(probeSize protocol.ByteCount) {
	t.recordEvent(time.Now(), eventMTUProbeSent{ProbeSize: probeSize})
}

// Close drains any queued events, restores the trace's closing brackets,
// and closes w. Safe to call at most once.
func (t *ConnectionTracer) Close() error {
	close(t.events)
	<-t.runStopped
	if t.encodeErr != nil {
		return t.encodeErr
	}
	if _, err := t.w.Write(t.suffix); err != nil {
		return err
	}
	return t.w.Close()
}
