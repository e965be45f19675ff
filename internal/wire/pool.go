package wire

import (
	"sync"

	"github.com/quicforge/quicpacker/internal/protocol"
)

var ackFramePool sync.Pool

func init() {
	ackFramePool.New = func() interface{} {
		return &AckFrame{
			AckRanges: make([]AckRange, 0, protocol.MaxNumAckRanges),
		}
	}
}

// GetAckFrame gets an ACK frame from the pool. It is the caller's
// responsibility to fill *all* fields of the returned frame; parseAckFrame
// (the only caller) always does.
func GetAckFrame() *AckFrame {
	return ackFramePool.Get().(*AckFrame)
}

// PutAckFrame returns f to the pool once the packet it was serialized into
// has been handed off.
func PutAckFrame(f *AckFrame) {
	if cap(f.AckRanges) != protocol.MaxNumAckRanges {
		panic("wire: PutAckFrame called with frame of wrong ACK range capacity")
	}
	f.AckRanges = f.AckRanges[:0]
	ackFramePool.Put(f)
}
