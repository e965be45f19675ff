package wire

import (
	"bytes"
	"errors"
	"io"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// ErrInvalidReservedBits is returned by ParseShortHeader when the two
// reserved bits of the first byte are set to anything other than 0.
var ErrInvalidReservedBits = errors.New("wire: invalid reserved bits")

// ShortHeader is the 1-RTT packet header (RFC 9000 section 17.3.1). The
// serializer writes every short header through this type, and its parser
// lets round-trip tests check what was written without a second,
// independent codec.
type ShortHeader struct {
	DestConnectionID protocol.ConnectionID
	PacketNumber     protocol.PacketNumber
	PacketNumberLen  protocol.PacketNumberLen
	KeyPhase         protocol.KeyPhaseBit
}

// ParseShortHeader parses the unprotected form of a short header. connIDLen
// must be known out of band, as the header itself carries no length field.
func ParseShortHeader(data []byte, connIDLen int) (*ShortHeader, error) {
	if len(data) == 0 {
		return nil, io.EOF
	}
	if data[0]&0x80 > 0 {
		return nil, errors.New("wire: not a short header packet")
	}
	if data[0]&0x40 == 0 {
		return nil, errors.New("wire: fixed bit not set")
	}
	pnLen := protocol.PacketNumberLen(data[0]&0b11) + 1
	if len(data) < 1+int(pnLen)+connIDLen {
		return nil, io.EOF
	}
	destConnID := protocol.ParseConnectionID(data[1 : 1+connIDLen])

	pos := 1 + connIDLen
	var pn protocol.PacketNumber
	r := byteReader(data[pos:])
	v, err := utils.BigEndian.ReadUintN(&r, uint8(pnLen))
	if err != nil {
		return nil, err
	}
	pn = protocol.PacketNumber(v)

	kp := protocol.KeyPhaseZero
	if data[0]&0b100 > 0 {
		kp = protocol.KeyPhaseOne
	}

	var retErr error
	if data[0]&0x18 != 0 {
		retErr = ErrInvalidReservedBits
	}
	return &ShortHeader{
		DestConnectionID: destConnID,
		PacketNumber:     pn,
		PacketNumberLen:  pnLen,
		KeyPhase:         kp,
	}, retErr
}

// Len is the length of the unprotected header, not counting the sampled
// header-protection mask applied over it afterward.
func (h *ShortHeader) Len() protocol.ByteCount {
	return 1 + protocol.ByteCount(h.DestConnectionID.Len()) + protocol.ByteCount(h.PacketNumberLen)
}

// Write serializes the header up to but not including the packet number,
// matching LongHeader.Write so the serializer can apply header protection
// over both uniformly.
func (h *ShortHeader) Write(b *bytes.Buffer) error {
	firstByte := byte(0x40)
	if h.KeyPhase == protocol.KeyPhaseOne {
		firstByte |= 0x4
	}
	firstByte |= byte(h.PacketNumberLen - 1)
	b.WriteByte(firstByte)
	b.Write(h.DestConnectionID.Bytes())
	return nil
}

// Log logs the header at debug level.
func (h *ShortHeader) Log(logger utils.Logger) {
	logger.Debugf("\tShort Header{DestConnectionID: %s, PacketNumber: %d, PacketNumberLen: %d, KeyPhase: %s}", h.DestConnectionID, h.PacketNumber, h.PacketNumberLen, h.KeyPhase)
}

// byteReader adapts a byte slice to io.ByteReader without an extra
// allocation for the common small-N packet number read.
type byteReader []byte

func (r *byteReader) ReadByte() (byte, error) {
	if len(*r) == 0 {
		return 0, io.EOF
	}
	b := (*r)[0]
	*r = (*r)[1:]
	return b, nil
}
