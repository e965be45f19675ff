package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A MaxStreamsFrame is a MAX_STREAMS frame, raising the peer's stream limit
// for one of the two stream types.
type MaxStreamsFrame struct {
	Type       protocol.StreamType
	MaxStreams uint64
}

func (f *MaxStreamsFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	switch f.Type {
	case protocol.StreamTypeBidi:
		b.WriteByte(byte(MaxStreamsBidiFrameType))
	case protocol.StreamTypeUni:
		b.WriteByte(byte(MaxStreamsUniFrameType))
	}
	utils.WriteVarInt(b, f.MaxStreams)
	return nil
}

// Length of a written frame.
func (f *MaxStreamsFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(f.MaxStreams))
}
