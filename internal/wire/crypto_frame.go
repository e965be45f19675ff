package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A CryptoFrame carries handshake bytes at any encryption level
// (RFC 9000 section 19.6). Unlike StreamFrame it has no FIN bit: the
// handshake layer signals completion out of band.
type CryptoFrame struct {
	Offset protocol.ByteCount
	Data   []byte
}

func (f *CryptoFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(CryptoFrameType))
	utils.WriteVarInt(b, uint64(f.Offset))
	utils.WriteVarInt(b, uint64(len(f.Data)))
	b.Write(f.Data)
	return nil
}

// Length of a written frame.
func (f *CryptoFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.Offset))) +
		protocol.ByteCount(utils.VarIntLen(uint64(len(f.Data)))) +
		protocol.ByteCount(len(f.Data))
}

// MaxDataLen returns how much of Data fits into a CRYPTO frame capped at
// maxSize bytes total.
func (f *CryptoFrame) MaxDataLen(maxSize protocol.ByteCount) protocol.ByteCount {
	headerLen := protocol.ByteCount(1 + utils.VarIntLen(uint64(f.Offset)))
	// length field grows with the data length; 2 bytes covers up to 16383
	headerLen += 2
	if maxSize < headerLen {
		return 0
	}
	return maxSize - headerLen
}

// MaybeSplitOffFrame splits f so the returned frame fits within maxSize
// bytes, advancing f's Offset past what was split off.
func (f *CryptoFrame) MaybeSplitOffFrame(maxSize protocol.ByteCount) *CryptoFrame {
	if f.Length(0) <= maxSize {
		return nil
	}
	n := f.MaxDataLen(maxSize)
	if n == 0 || n >= protocol.ByteCount(len(f.Data)) {
		return nil
	}
	head := &CryptoFrame{Offset: f.Offset, Data: f.Data[:n]}
	f.Data = f.Data[n:]
	f.Offset += n
	return head
}
