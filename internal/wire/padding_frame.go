package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// A PaddingFrame is a single PADDING byte (0x00). The serializer pads a
// packet by writing as many 0x00 bytes as needed to reach its target size,
// one PADDING frame per byte, because the wire encoding of PADDING has no
// length field to carry a count.
type PaddingFrame struct{}

func (f *PaddingFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(PaddingFrameType))
	return nil
}

// Length of a written frame.
func (f *PaddingFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1
}
