package quicpacker

import (
	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/wire"
)

// packetContext is the packet currently under construction at one
// encryption level: the header fields, the queued frames, and the
// MTU/padding state the serializer consults when it seals the packet.
type packetContext struct {
	level protocol.EncryptionLevel

	destConnID protocol.ConnectionID
	srcConnID  protocol.ConnectionID

	packetNumber    protocol.PacketNumber
	largestAcked    protocol.PacketNumber
	packetNumberLen protocol.PacketNumberLen

	// diversificationNonce is a gQUIC-only field (Version39 and earlier)
	// the server includes in its first Initial-equivalent packet so the
	// client can derive forward-secure keys before the handshake message
	// arrives. IETF QUIC has no equivalent; it stays nil for Version1.
	diversificationNonce []byte

	buffer frameQueue

	isRetransmittable  bool
	isAckEliciting     bool
	hasCryptoHandshake bool

	// transmissionType is the reason the last retransmittable frame was
	// added (spec section 3, "In-Progress Packet").
	transmissionType protocol.TransmissionType

	pendingPadding protocol.ByteCount

	budget *sizeBudget
}

func newPacketContext(level protocol.EncryptionLevel, hardMax protocol.ByteCount) *packetContext {
	return &packetContext{
		level:           level,
		largestAcked:    protocol.InvalidPacketNumber,
		packetNumberLen: protocol.PacketNumberLen4,
		budget:          newSizeBudget(hardMax),
	}
}

// reserveHeader debits the worst-case header size (assuming a 4-byte packet
// number, the most conservative encoding) plus the AEAD tag from the
// budget, so every later FitOrClearSoft test is against max_plaintext_size,
// not the raw hard maximum (spec section 3, invariant 1). Must be called
// once the context knows its connection IDs, before any frame is queued.
func (c *packetContext) reserveHeader() {
	c.budget.ReserveOverhead(packetHeaderSize(c.level, c.destConnID, c.srcConnID, protocol.PacketNumberLen4) + aeadOverhead)
}

// IsEmpty reports whether anything has been written to this packet.
func (c *packetContext) IsEmpty() bool {
	return c.buffer.Len() == 0 && c.pendingPadding == 0
}

// AddPendingPadding accumulates n bytes of PADDING to be emitted when the
// packet is sealed, without writing them immediately — callers may call
// this several times before a single flush (e.g. once for MTU-probe
// sizing, once for the crypto full-pad policy).
func (c *packetContext) AddPendingPadding(n protocol.ByteCount) {
	c.pendingPadding += n
}

// SetDiversificationNonce installs a gQUIC diversification nonce on the
// next packet built at this level; reset clears it again. It does not check
// the version: the serializer writes an installed nonce right after any
// long header, and the header-size reservation does not count it.
func (c *packetContext) SetDiversificationNonce(nonce []byte) {
	c.diversificationNonce = nonce
}

// addFrame pushes f onto the buffer and updates the packet-level flags a
// single frame can flip (spec section 3's "flags" field list). txType is
// only recorded when retransmittable is true.
func (c *packetContext) addFrame(f wire.Frame, retransmittable, ackEliciting bool, txType protocol.TransmissionType) {
	c.buffer.Push(f, retransmittable, ackEliciting)
	if retransmittable {
		c.isRetransmittable = true
		c.transmissionType = txType
	}
	if ackEliciting {
		c.isAckEliciting = true
	}
	if _, ok := f.(*wire.CryptoFrame); ok {
		c.hasCryptoHandshake = true
	}
	if ack, ok := f.(*wire.AckFrame); ok {
		c.largestAcked = ack.LargestAcked()
	}
}

// frames returns the queued frames in wire order.
func (c *packetContext) frames() []queuedFrame {
	return c.buffer.Iter()
}

// back returns the most recently queued entry, or nil.
func (c *packetContext) back() *queuedFrame {
	return c.buffer.Back()
}

// reset clears everything a flush must not let leak into the next packet
// at this level: the queued frames, the per-packet flags, pending padding,
// the diversification nonce and the size budget's usage (spec section 7:
// a failed or completed serialization never leaves a half-built packet
// visible). The reserved header/AEAD overhead survives a reset, since it
// depends only on the level and connection IDs, neither of which change
// packet to packet.
func (c *packetContext) reset() {
	c.buffer.Clear()
	c.isRetransmittable = false
	c.isAckEliciting = false
	c.hasCryptoHandshake = false
	c.transmissionType = protocol.TransmissionTypeNormal
	c.pendingPadding = 0
	c.diversificationNonce = nil
	c.budget.Reset()
}
