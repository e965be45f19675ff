package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// A PingFrame elicits an ACK from the peer and otherwise carries no data.
type PingFrame struct{}

func (f *PingFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(PingFrameType))
	return nil
}

// Length of a written frame.
func (f *PingFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1
}
