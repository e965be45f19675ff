package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qerr"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A ResetStreamFrame abruptly terminates the sending side of a stream
// (RFC 9000 section 19.4).
type ResetStreamFrame struct {
	StreamID  protocol.StreamID
	ErrorCode qerr.ErrorCode
	FinalSize protocol.ByteCount
}

func (f *ResetStreamFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(ResetStreamFrameType))
	utils.WriteVarInt(b, uint64(f.StreamID))
	utils.WriteVarInt(b, uint64(f.ErrorCode))
	utils.WriteVarInt(b, uint64(f.FinalSize))
	return nil
}

// Length of a written frame.
func (f *ResetStreamFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.StreamID))) +
		protocol.ByteCount(utils.VarIntLen(uint64(f.ErrorCode))) +
		protocol.ByteCount(utils.VarIntLen(uint64(f.FinalSize)))
}
