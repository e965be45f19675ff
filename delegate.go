package quicpacker

import (
	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/wire"
)

// Fate is the disposition the session chooses for a freshly serialized
// packet (spec section 6, GetSerializedPacketFate).
type Fate uint8

const (
	FateSend Fate = iota
	FateBuffer
	FateCoalesce
	FateEncapsulate
	FateDiscard
)

func (f Fate) String() string {
	switch f {
	case FateSend:
		return "send"
	case FateBuffer:
		return "buffer"
	case FateCoalesce:
		return "coalesce"
	case FateEncapsulate:
		return "encapsulate"
	case FateDiscard:
		return "discard"
	default:
		return "invalid fate"
	}
}

// OwnedBuffer is a buffer handed out by the session delegate (or this
// core's own fallback pool) with an explicit release callback, so ownership
// is uniform regardless of where the backing array came from.
type OwnedBuffer interface {
	Bytes() []byte
	Release()
}

var _ OwnedBuffer = (*packetBuffer)(nil)

func (b *packetBuffer) Bytes() []byte { return b.Slice }

// SessionDelegate is the session's view into the assembler, the single
// collaborator this core calls back into synchronously. It is passed by
// reference at construction; the core never owns or outlives it.
//
//go:generate sh -c "go run go.uber.org/mock/mockgen -typed -package quicpacker -self_package github.com/quicforge/quicpacker -destination mock_session_delegate_test.go github.com/quicforge/quicpacker SessionDelegate"
type SessionDelegate interface {
	// AcquireBuffer returns a buffer this core may fill and later release.
	// A nil return tells the core to fall back to its own pool.
	AcquireBuffer() OwnedBuffer

	// ShouldGeneratePacket decides whether the assembler may open a new
	// packet given what it would carry.
	ShouldGeneratePacket(hasRetransmittableFrames, isHandshake bool) bool

	// GetSerializedPacketFate is consulted once a packet has been sealed,
	// before it is handed to OnSerializedPacket.
	GetSerializedPacketFate(isMTUProbe bool, level protocol.EncryptionLevel) Fate

	// OnSerializedPacket consumes ownership of p, including its buffer.
	OnSerializedPacket(p *SerializedPacket)

	// MaybeBundleAckOpportunistically is consulted by every
	// ConsumeRetransmittableControlFrame call whose packet holds no ACK yet,
	// so it can be asked more than once for the same packet.
	MaybeBundleAckOpportunistically() []wire.Frame

	// OnUnrecoverableError reports one of the error taxonomy members in
	// internal/qerr. The core has already abandoned the packet in flight.
	OnUnrecoverableError(err error)
}

// AEADSealer is the record-protection primitive (spec section 6). It both
// encrypts the payload and applies header protection; this core treats it
// as opaque and never hand-rolls either.
type AEADSealer interface {
	// EncryptInPlace seals the payload held in the last plaintextLen bytes
	// of buf, using buf from associatedDataStart up to the payload (the
	// unprotected header) as associated data, and grows the payload in place
	// by the AEAD tag within buf's capacity. It returns the sealed payload's
	// length, or 0 if no key is installed for level.
	EncryptInPlace(level protocol.EncryptionLevel, pn protocol.PacketNumber, associatedDataStart, plaintextLen int, buf []byte) (encryptedLength int)
}

// RandomSource is the source of randomness an Assembler is built with. The
// Assembler keeps it but no operation draws from it: SerializePathChallenge
// takes its payload from the caller, and connection IDs come from the
// caller as well.
type RandomSource interface {
	RandomBytes(dst []byte)
	RandomUint64() uint64
}
