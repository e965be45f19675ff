package quicpacker

import (
	"sync"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// packetBuffer is the default owned-buffer implementation (spec section 5):
// an arena-backed slice that tracks how many packets currently reference it.
// A coalesced datagram shares one packetBuffer across every packet written
// into it; Split marks one more packet as depending on it, and the whole
// thing returns to the pool only once every dependent has released it.
type packetBuffer struct {
	Slice []byte

	// refCount counts how many packets the Slice is used in. It doesn't
	// support concurrent use. It is > 1 when used for a coalesced datagram.
	refCount int
}

// Split increases the refCount. Must be called when a packet buffer is
// used for more than one packet, i.e. when coalescing.
func (b *packetBuffer) Split() {
	b.refCount++
}

// Release decreases the refCount. When it reaches 0, the buffer is
// returned to the pool.
func (b *packetBuffer) Release() {
	if cap(b.Slice) != int(protocol.MaxOutgoingPacketSize) {
		panic("packetBuffer.Release called with buffer of wrong size")
	}
	b.refCount--
	if b.refCount < 0 {
		panic("packetBuffer: negative refCount")
	}
	if b.refCount == 0 {
		bufferPool.Put(b)
	}
}

var bufferPool sync.Pool

func init() {
	bufferPool.New = func() interface{} {
		return &packetBuffer{
			Slice: make([]byte, 0, protocol.MaxOutgoingPacketSize),
		}
	}
}

// getPacketBuffer returns a fresh arena buffer with refCount 1. Used as the
// fallback when the session delegate's AcquireBuffer declines to hand one
// out (spec section 5, "Buffer Acquisition failure").
func getPacketBuffer() *packetBuffer {
	buf := bufferPool.Get().(*packetBuffer)
	buf.refCount = 1
	buf.Slice = buf.Slice[:protocol.MaxOutgoingPacketSize]
	return buf
}
