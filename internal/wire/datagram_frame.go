package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A DatagramFrame carries unreliable, unordered application data (RFC 9221).
// DataLenPresent decides which of the two DATAGRAM frame type codepoints is
// used: without a length, the frame must be the last one in the packet.
type DatagramFrame struct {
	DataLenPresent bool
	Data           []byte
}

func (f *DatagramFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	if f.DataLenPresent {
		b.WriteByte(byte(DatagramWithLengthFrameType))
		utils.WriteVarInt(b, uint64(len(f.Data)))
	} else {
		b.WriteByte(byte(DatagramNoLengthFrameType))
	}
	b.Write(f.Data)
	return nil
}

// Length of a written frame.
func (f *DatagramFrame) Length(_ protocol.VersionNumber) protocol.ByteCount {
	length := 1 + protocol.ByteCount(len(f.Data))
	if f.DataLenPresent {
		length += protocol.ByteCount(utils.VarIntLen(uint64(len(f.Data))))
	}
	return length
}

// MaxDataLen returns the largest amount of data that fits into a DATAGRAM
// frame within maxSize bytes, or false if even an empty frame would not fit.
func (f *DatagramFrame) MaxDataLen(maxSize protocol.ByteCount) (protocol.ByteCount, bool) {
	headerLen := protocol.ByteCount(1)
	if f.DataLenPresent {
		// the length field itself grows with the data length; 2 bytes covers
		// up to 16383, which is far beyond any realistic packet size
		headerLen += 2
	}
	if maxSize < headerLen {
		return 0, false
	}
	return maxSize - headerLen, true
}
