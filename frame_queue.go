package quicpacker

import "github.com/quicforge/quicpacker/internal/wire"

// queuedFrame wraps a frame with the loss-classification the session needs
// once the packet carrying it is acknowledged or declared lost. This folds
// in what the teacher kept as a separate ackhandler.Frame wrapper: there's
// no standalone retransmission subsystem here, so the classification lives
// directly on the queue entry.
type queuedFrame struct {
	Frame           wire.Frame
	Retransmittable bool
	AckEliciting    bool
}

// frameQueue is the Frame Buffer (spec section 4.2): the in-memory list of
// frames queued for the packet currently under construction at one
// encryption level. Frames are never reordered; wire order equals
// submission order. It also keeps running totals of which entries are
// retransmittable vs ephemeral so the serializer can hand the session two
// separate lists without re-scanning.
type frameQueue struct {
	entries []queuedFrame
}

// Push appends f to the tail of the buffer.
func (q *frameQueue) Push(f wire.Frame, retransmittable, ackEliciting bool) {
	q.entries = append(q.entries, queuedFrame{Frame: f, Retransmittable: retransmittable, AckEliciting: ackEliciting})
}

// Back returns a pointer to the most recently pushed entry, or nil if the
// buffer is empty. The pointer aliases the underlying slice so callers may
// mutate the frame in place, e.g. to extend a StreamFrame during
// coalescing.
func (q *frameQueue) Back() *queuedFrame {
	if len(q.entries) == 0 {
		return nil
	}
	return &q.entries[len(q.entries)-1]
}

// Iter returns the queued entries in wire order. The caller must not
// retain the slice past the next Push/Clear.
func (q *frameQueue) Iter() []queuedFrame {
	return q.entries
}

// Clear empties the buffer.
func (q *frameQueue) Clear() {
	q.entries = nil
}

// Len reports how many frames are queued.
func (q *frameQueue) Len() int { return len(q.entries) }

// HasRetransmittable reports whether any queued frame must be reported to
// the session on loss.
func (q *frameQueue) HasRetransmittable() bool {
	for _, e := range q.entries {
		if e.Retransmittable {
			return true
		}
	}
	return false
}

// HasAck reports whether an AckFrame is already queued (spec section 4.3:
// "only one ACK per packet").
func (q *frameQueue) HasAck() bool {
	for _, e := range q.entries {
		if _, ok := e.Frame.(*wire.AckFrame); ok {
			return true
		}
	}
	return false
}

// Split partitions the queued frames into the retransmittable and
// ephemeral lists a SerializedPacket hands back to the session (spec
// section 3, "Serialized Packet").
func (q *frameQueue) Split() (retransmittable, ephemeral []wire.Frame) {
	for _, e := range q.entries {
		if e.Retransmittable {
			retransmittable = append(retransmittable, e.Frame)
		} else {
			ephemeral = append(ephemeral, e.Frame)
		}
	}
	return retransmittable, ephemeral
}

// All returns every queued frame, retransmittable and ephemeral alike, in
// wire order.
func (q *frameQueue) All() []wire.Frame {
	frames := make([]wire.Frame, len(q.entries))
	for i, e := range q.entries {
		frames[i] = e.Frame
	}
	return frames
}
