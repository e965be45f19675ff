package wire

import (
	"bytes"
	"errors"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// ErrUnsupportedVersion is returned when a long header names a version
// this core doesn't know how to frame.
var ErrUnsupportedVersion = errors.New("wire: unsupported version")

// LongHeader is the long header form used by Initial, 0-RTT, Handshake and
// Retry packets (RFC 9000 section 17.2). The serializer writes every long
// header through this type, and ParseLongHeader lets round-trip tests read
// back what was written without a second, independent codec.
type LongHeader struct {
	Type             protocol.PacketType
	Version          protocol.VersionNumber
	DestConnectionID protocol.ConnectionID
	SrcConnectionID  protocol.ConnectionID
	Token            []byte
	Length           protocol.ByteCount
	PacketNumber     protocol.PacketNumber
	PacketNumberLen  protocol.PacketNumberLen
}

// Write serializes the header up to but not including the packet number,
// which is written separately so the caller can apply header protection
// before committing it (spec section 5).
func (h *LongHeader) Write(b *bytes.Buffer) error {
	firstByte := byte(0x80) | byte(0x40)
	switch h.Type {
	case protocol.PacketTypeInitial:
		firstByte |= 0x00
	case protocol.PacketTypeHandshake:
		firstByte |= 0x20
	case protocol.PacketType0RTT:
		firstByte |= 0x10
	case protocol.PacketTypeRetry:
		firstByte |= 0x30
	}
	firstByte |= byte(h.PacketNumberLen - 1)
	b.WriteByte(firstByte)

	utils.BigEndian.WriteUint32(b, uint32(h.Version))
	b.WriteByte(uint8(h.DestConnectionID.Len()))
	b.Write(h.DestConnectionID.Bytes())
	b.WriteByte(uint8(h.SrcConnectionID.Len()))
	b.Write(h.SrcConnectionID.Bytes())

	if h.Type == protocol.PacketTypeInitial {
		utils.WriteVarInt(b, uint64(len(h.Token)))
		b.Write(h.Token)
	}
	if h.Type != protocol.PacketTypeRetry {
		utils.WriteVarInt(b, uint64(h.Length))
	}
	return nil
}

// ParsedLengthFieldLen returns how many bytes the Length varint occupies
// as written.
func (h *LongHeader) ParsedLengthFieldLen() int {
	return utils.VarIntLen(uint64(h.Length))
}

// HeaderLen is the length of the unprotected header up to and including
// the packet number, excluding any header-protection sample.
func (h *LongHeader) HeaderLen() protocol.ByteCount {
	length := protocol.ByteCount(1 + 4 + 1 + h.DestConnectionID.Len() + 1 + h.SrcConnectionID.Len())
	if h.Type == protocol.PacketTypeInitial {
		length += protocol.ByteCount(utils.VarIntLen(uint64(len(h.Token)))) + protocol.ByteCount(len(h.Token))
	}
	if h.Type != protocol.PacketTypeRetry {
		length += protocol.ByteCount(utils.VarIntLen(uint64(h.Length)))
	}
	length += protocol.ByteCount(h.PacketNumberLen)
	return length
}

// ParseLongHeader parses the unprotected (i.e. before header protection
// removal) portion of a long header up to the packet number field. It is
// used only by round-trip tests; the assembler never reads its own output.
func ParseLongHeader(data []byte) (*LongHeader, int, error) {
	if len(data) < 6 {
		return nil, 0, errors.New("wire: long header too short")
	}
	if data[0]&0x80 == 0 {
		return nil, 0, errors.New("wire: not a long header packet")
	}
	h := &LongHeader{}
	switch data[0] & 0x30 {
	case 0x00:
		h.Type = protocol.PacketTypeInitial
	case 0x10:
		h.Type = protocol.PacketType0RTT
	case 0x20:
		h.Type = protocol.PacketTypeHandshake
	case 0x30:
		h.Type = protocol.PacketTypeRetry
	}
	h.PacketNumberLen = protocol.PacketNumberLen(data[0]&0x03) + 1

	r := bytes.NewReader(data[1:])
	version, err := utils.BigEndian.ReadUint32(r)
	if err != nil {
		return nil, 0, err
	}
	h.Version = protocol.VersionNumber(version)

	destLen, err := r.ReadByte()
	if err != nil {
		return nil, 0, err
	}
	dest := make([]byte, destLen)
	if _, err := r.Read(dest); err != nil {
		return nil, 0, err
	}
	h.DestConnectionID = protocol.ParseConnectionID(dest)

	srcLen, err := r.ReadByte()
	if err != nil {
		return nil, 0, err
	}
	src := make([]byte, srcLen)
	if _, err := r.Read(src); err != nil {
		return nil, 0, err
	}
	h.SrcConnectionID = protocol.ParseConnectionID(src)

	if h.Type == protocol.PacketTypeInitial {
		tokenLen, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, 0, err
		}
		token := make([]byte, tokenLen)
		if _, err := r.Read(token); err != nil {
			return nil, 0, err
		}
		h.Token = token
	}
	if h.Type != protocol.PacketTypeRetry {
		length, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, 0, err
		}
		h.Length = protocol.ByteCount(length)
	}
	return h, len(data) - r.Len(), nil
}
