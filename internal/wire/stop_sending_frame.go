package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qerr"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A StopSendingFrame asks the peer to stop sending on a stream we no
// longer want to read (RFC 9000 section 19.5).
type StopSendingFrame struct {
	StreamID  protocol.StreamID
	ErrorCode qerr.ErrorCode
}

func (f *StopSendingFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(StopSendingFrameType))
	utils.WriteVarInt(b, uint64(f.StreamID))
	utils.WriteVarInt(b, uint64(f.ErrorCode))
	return nil
}

// Length of a written frame.
func (f *StopSendingFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.StreamID))) + protocol.ByteCount(utils.VarIntLen(uint64(f.ErrorCode)))
}
