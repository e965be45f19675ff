package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A RetireConnectionIDFrame tells the peer to stop using one of its
// previously issued connection IDs (RFC 9000 section 19.16).
type RetireConnectionIDFrame struct {
	SequenceNumber uint64
}

func (f *RetireConnectionIDFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(RetireConnectionIDFrameType))
	utils.WriteVarInt(b, f.SequenceNumber)
	return nil
}

// Length of a written frame.
func (f *RetireConnectionIDFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(f.SequenceNumber))
}
