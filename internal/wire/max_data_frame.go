package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A MaxDataFrame raises the connection-level flow-control limit
// (RFC 9000 section 19.9). This is the IETF successor to the gQUIC
// WindowUpdateFrame this core's teacher carried; we emit only this form.
type MaxDataFrame struct {
	MaximumData protocol.ByteCount
}

func (f *MaxDataFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(MaxDataFrameType))
	utils.WriteVarInt(b, uint64(f.MaximumData))
	return nil
}

// Length of a written frame.
func (f *MaxDataFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.MaximumData)))
}

// A MaxStreamDataFrame raises the per-stream flow-control limit
// (RFC 9000 section 19.10).
type MaxStreamDataFrame struct {
	StreamID          protocol.StreamID
	MaximumStreamData protocol.ByteCount
}

func (f *MaxStreamDataFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(MaxStreamDataFrameType))
	utils.WriteVarInt(b, uint64(f.StreamID))
	utils.WriteVarInt(b, uint64(f.MaximumStreamData))
	return nil
}

// Length of a written frame.
func (f *MaxStreamDataFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.StreamID))) + protocol.ByteCount(utils.VarIntLen(uint64(f.MaximumStreamData)))
}
