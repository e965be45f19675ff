package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A StopWaitingFrame is the gQUIC predecessor of the implicit
// largest-acked tracking IETF QUIC gets for free: it tells the peer which
// packet numbers below LeastUnacked it no longer needs to keep state for.
// Only emitted for versions where UsesIETFFrameFormat is false.
type StopWaitingFrame struct {
	LeastUnacked protocol.PacketNumber
	PacketNumber protocol.PacketNumber // the packet number this frame is sent in, needed to compute the delta
}

func (f *StopWaitingFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(StopWaitingFrameType))
	delta := uint64(f.PacketNumber - f.LeastUnacked)
	utils.BigEndian.WriteUintN(b, 6, delta)
	return nil
}

// Length of a written frame.
func (f *StopWaitingFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + 6
}
