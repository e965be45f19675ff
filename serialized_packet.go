package quicpacker

import (
	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/wire"
)

// A SerializedPacket is the assembler's output: a fully sealed packet
// ready to cross whatever boundary its Fate names. Ownership of Buffer
// passes to whoever receives the SerializedPacket; they must Release() it
// exactly once.
type SerializedPacket struct {
	Buffer OwnedBuffer
	Raw    []byte // the encrypted bytes; a view into Buffer unless the packet was larger than Buffer

	PacketNumber    protocol.PacketNumber
	PacketNumberLen protocol.PacketNumberLen
	EncryptionLevel protocol.EncryptionLevel

	DestConnectionID protocol.ConnectionID
	SrcConnectionID  protocol.ConnectionID

	// Frames holds every frame in wire order, for round-trip tests and
	// qlog. RetransmittableFrames and NonRetransmittableFrames partition
	// the same frames by loss classification, so the session can register
	// the former for loss detection without filtering Frames itself (spec
	// section 3, "Serialized Packet").
	Frames                   []wire.Frame
	RetransmittableFrames    []wire.Frame
	NonRetransmittableFrames []wire.Frame

	IsRetransmittable    bool
	IsPathMTUProbePacket bool

	TransmissionType protocol.TransmissionType
	LargestAcked     protocol.PacketNumber

	Fate Fate
}

// Length is the size of the encrypted packet as it will appear on the wire.
func (p *SerializedPacket) Length() protocol.ByteCount {
	return protocol.ByteCount(len(p.Raw))
}

// Release returns the packet's buffer. Safe to call once OnSerializedPacket
// is done with Raw; calling it twice panics (packetBuffer.Release's own
// refcount guard).
func (p *SerializedPacket) Release() {
	if p.Buffer != nil {
		p.Buffer.Release()
	}
}
