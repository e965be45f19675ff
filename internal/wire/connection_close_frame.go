package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qerr"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A ConnectionCloseFrame is a CONNECTION_CLOSE frame, either the transport
// (0x1c) or application (0x1d) variant.
type ConnectionCloseFrame struct {
	IsApplicationError bool
	ErrorCode          qerr.ErrorCode
	FrameType           uint64 // only set for the transport variant
	ReasonPhrase       string
}

// Length of a written frame.
func (f *ConnectionCloseFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	length := protocol.ByteCount(1+utils.VarIntLen(uint64(f.ErrorCode))+utils.VarIntLen(uint64(len(f.ReasonPhrase)))) + protocol.ByteCount(len(f.ReasonPhrase))
	if !f.IsApplicationError {
		length += protocol.ByteCount(utils.VarIntLen(f.FrameType))
	}
	return length
}

// Write writes a CONNECTION_CLOSE frame.
func (f *ConnectionCloseFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	if f.IsApplicationError {
		b.WriteByte(byte(ApplicationCloseFrameType))
	} else {
		b.WriteByte(byte(ConnectionCloseFrameType))
	}
	utils.WriteVarInt(b, uint64(f.ErrorCode))
	if !f.IsApplicationError {
		utils.WriteVarInt(b, f.FrameType)
	}
	utils.WriteVarInt(b, uint64(len(f.ReasonPhrase)))
	b.WriteString(f.ReasonPhrase)
	return nil
}
