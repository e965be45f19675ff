package wire

import "github.com/quicforge/quicpacker/internal/protocol"

// FrameType is the first byte (or, for STREAM frames, the low nibble) of an
// IETF QUIC frame, per RFC 9000 section 19.
type FrameType uint64

const (
	PaddingFrameType    FrameType = 0x00
	PingFrameType       FrameType = 0x01
	AckFrameType        FrameType = 0x02
	AckECNFrameType     FrameType = 0x03
	ResetStreamFrameType FrameType = 0x04
	StopSendingFrameType FrameType = 0x05
	CryptoFrameType     FrameType = 0x06
	NewTokenFrameType   FrameType = 0x07
	// StreamFrameType is the base type; the low 3 bits carry the OFF/LEN/FIN
	// flags, so any value in 0x08-0x0f is a STREAM frame.
	StreamFrameType FrameType = 0x08

	MaxDataFrameType            FrameType = 0x10
	MaxStreamDataFrameType      FrameType = 0x11
	MaxStreamsBidiFrameType     FrameType = 0x12
	MaxStreamsUniFrameType      FrameType = 0x13
	DataBlockedFrameType        FrameType = 0x14
	StreamDataBlockedFrameType  FrameType = 0x15
	StreamsBlockedBidiFrameType FrameType = 0x16
	StreamsBlockedUniFrameType  FrameType = 0x17
	NewConnectionIDFrameType    FrameType = 0x18
	RetireConnectionIDFrameType FrameType = 0x19
	PathChallengeFrameType      FrameType = 0x1a
	PathResponseFrameType       FrameType = 0x1b
	ConnectionCloseFrameType    FrameType = 0x1c
	ApplicationCloseFrameType   FrameType = 0x1d
	HandshakeDoneFrameType      FrameType = 0x1e

	DatagramNoLengthFrameType   FrameType = 0x30
	DatagramWithLengthFrameType FrameType = 0x31

	// FrameTypeAckFrequency is the IETF ACK_FREQUENCY extension frame
	// (draft-ietf-quic-ack-frequency), a private-use codepoint.
	FrameTypeAckFrequency FrameType = 0xaf

	// StopWaitingFrameType is the gQUIC-only STOP_WAITING frame, sent only
	// when the negotiated version predates length-prefixed STREAM frames
	// (VersionNumber.UsesIETFFrameFormat returns false).
	StopWaitingFrameType FrameType = 0x06
)

// IsStreamFrameType reports whether t's low 3 bits are the STREAM frame
// flag bits, i.e. t is some STREAM frame variant.
func (t FrameType) IsStreamFrameType() bool {
	return t&0xf8 == 0x08
}

func (t FrameType) isAllowedAtEncLevel(encLevel protocol.EncryptionLevel) bool {
	switch encLevel {
	case protocol.EncryptionInitial, protocol.EncryptionHandshake:
		switch t {
		case CryptoFrameType, AckFrameType, AckECNFrameType, ConnectionCloseFrameType, PingFrameType, PaddingFrameType:
			return true
		default:
			return false
		}
	case protocol.Encryption0RTT:
		switch t {
		case AckFrameType, AckECNFrameType, ConnectionCloseFrameType, ApplicationCloseFrameType, NewTokenFrameType, PathResponseFrameType, RetireConnectionIDFrameType, HandshakeDoneFrameType:
			return false
		default:
			return true
		}
	case protocol.Encryption1RTT:
		return true
	default:
		panic("wire: unknown encryption level")
	}
}
