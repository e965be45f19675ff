package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A StreamFrame carries a contiguous slice of one stream's data
// (RFC 9000 section 19.8, and the gQUIC STREAM frame for versions that
// predate it). Data is never copied by this core: the caller owns the
// backing array for as long as the frame sits in the queue.
type StreamFrame struct {
	StreamID       protocol.StreamID
	Offset         protocol.ByteCount
	Data           []byte
	Fin            bool
	DataLenPresent bool
}

// Write serializes the frame. For versions that use the IETF frame format
// (VersionNumber.UsesIETFFrameFormat), the type byte's low bits carry
// OFF/LEN/FIN flags and every field is a varint. Earlier gQUIC versions
// (Version39) instead use fixed-width stream ID and offset fields and a
// 2-byte length, matching quic_packet_creator.cc's CreateStreamFrame.
func (f *StreamFrame) Write(b *bytes.Buffer, version protocol.VersionNumber) error {
	if version.UsesIETFFrameFormat() {
		typeByte := byte(StreamFrameType)
		if f.Offset != 0 {
			typeByte |= 0x04
		}
		if f.DataLenPresent {
			typeByte |= 0x02
		}
		if f.Fin {
			typeByte |= 0x01
		}
		b.WriteByte(typeByte)
		utils.WriteVarInt(b, uint64(f.StreamID))
		if f.Offset != 0 {
			utils.WriteVarInt(b, uint64(f.Offset))
		}
		if f.DataLenPresent {
			utils.WriteVarInt(b, uint64(len(f.Data)))
		}
		b.Write(f.Data)
		return nil
	}

	// gQUIC STREAM frame: always length-prefixed, fixed-width stream ID
	// and offset so the legacy StopWaitingFrame scheme can be used
	// alongside it.
	typeByte := byte(0x80)
	if f.Fin {
		typeByte |= 0x40
	}
	b.WriteByte(typeByte)
	utils.BigEndian.WriteUint32(b, uint32(f.StreamID))
	utils.BigEndian.WriteUint64(b, uint64(f.Offset))
	utils.BigEndian.WriteUint16(b, uint16(len(f.Data)))
	b.Write(f.Data)
	return nil
}

// Length of a written frame, including the data itself.
func (f *StreamFrame) Length(version protocol.VersionNumber) protocol.ByteCount {
	if version.UsesIETFFrameFormat() {
		length := 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.StreamID)))
		if f.Offset != 0 {
			length += protocol.ByteCount(utils.VarIntLen(uint64(f.Offset)))
		}
		if f.DataLenPresent {
			length += protocol.ByteCount(utils.VarIntLen(uint64(len(f.Data))))
		}
		return length + protocol.ByteCount(len(f.Data))
	}
	return 1 + 4 + 8 + 2 + protocol.ByteCount(len(f.Data))
}

// MaxDataLen returns how much of Data would fit into a STREAM frame that
// must not exceed maxSize bytes total, accounting for the header fields
// this frame would otherwise carry. Used by the assembler when a stream's
// remaining data doesn't fit and must be split (consume_data).
func (f *StreamFrame) MaxDataLen(maxSize protocol.ByteCount, version protocol.VersionNumber) protocol.ByteCount {
	headerLen := f.Length(version) - protocol.ByteCount(len(f.Data))
	if maxSize < headerLen {
		return 0
	}
	return maxSize - headerLen
}

// MaybeSplitOffFrame splits f so that the returned frame fits within
// maxSize bytes, leaving the remainder (still carrying the FIN bit, if
// any) in f. Returns nil if no split is needed.
func (f *StreamFrame) MaybeSplitOffFrame(maxSize protocol.ByteCount, version protocol.VersionNumber) *StreamFrame {
	if f.Length(version) <= maxSize {
		return nil
	}
	n := f.MaxDataLen(maxSize, version)
	if n == 0 || n >= protocol.ByteCount(len(f.Data)) {
		return nil
	}
	head := &StreamFrame{
		StreamID:       f.StreamID,
		Offset:         f.Offset,
		Data:           f.Data[:n],
		Fin:            false,
		DataLenPresent: f.DataLenPresent,
	}
	f.Data = f.Data[n:]
	f.Offset += n
	return head
}
