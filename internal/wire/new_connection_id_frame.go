package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A NewConnectionIDFrame hands the peer a connection ID it can switch to
// (RFC 9000 section 19.15), along with the stateless reset token that
// protects it.
type NewConnectionIDFrame struct {
	SequenceNumber      uint64
	RetirePriorTo       uint64
	ConnectionID        protocol.ConnectionID
	StatelessResetToken [16]byte
}

func (f *NewConnectionIDFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(NewConnectionIDFrameType))
	utils.WriteVarInt(b, f.SequenceNumber)
	utils.WriteVarInt(b, f.RetirePriorTo)
	b.WriteByte(uint8(f.ConnectionID.Len()))
	b.Write(f.ConnectionID.Bytes())
	b.Write(f.StatelessResetToken[:])
	return nil
}

// Length of a written frame.
func (f *NewConnectionIDFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(f.SequenceNumber)) +
		protocol.ByteCount(utils.VarIntLen(f.RetirePriorTo)) +
		1 + protocol.ByteCount(f.ConnectionID.Len()) + 16
}
