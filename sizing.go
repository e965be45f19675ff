package quicpacker

import (
	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
	"github.com/quicforge/quicpacker/internal/wire"
)

// frameExpansion returns how many more bytes f would need to carry if it
// stopped being the last frame in its packet. STREAM and DATAGRAM frames
// may omit their length field when they're last; everything else is
// unaffected (spec glossary, "Expansion").
func frameExpansion(f wire.Frame, version protocol.VersionNumber) protocol.ByteCount {
	switch fr := f.(type) {
	case *wire.StreamFrame:
		if fr.DataLenPresent {
			return 0
		}
		return protocol.ByteCount(utils.VarIntLen(uint64(len(fr.Data))))
	case *wire.DatagramFrame:
		if fr.DataLenPresent {
			return 0
		}
		return protocol.ByteCount(utils.VarIntLen(uint64(len(fr.Data))))
	default:
		return 0
	}
}

// packetHeaderSize returns the number of plaintext bytes the packet header
// occupies for level, given the connection IDs and the packet-number length.
// A long header's Length field is counted at 2 bytes, its size for any
// packet up to MaxOutgoingPacketSize; a packet whose Length is below 64 has
// a header one byte shorter than this. reserveHeader uses it to reserve
// room ahead of any frame being queued, and the serializer uses it again to
// size each packet's padding (spec section 4.1, "Size Arithmetic").
func packetHeaderSize(level protocol.EncryptionLevel, destConnID, srcConnID protocol.ConnectionID, pnLen protocol.PacketNumberLen) protocol.ByteCount {
	if level == protocol.Encryption1RTT {
		h := &wire.ShortHeader{DestConnectionID: destConnID, PacketNumberLen: pnLen}
		return h.Len()
	}
	h := &wire.LongHeader{
		Type:             protocol.PacketTypeFromEncryptionLevel(level),
		DestConnectionID: destConnID,
		SrcConnectionID:  srcConnID,
		Length:           protocol.MaxOutgoingPacketSize,
		PacketNumberLen:  pnLen,
	}
	return h.HeaderLen()
}

// sizeBudget tracks how much payload space remains in the packet under
// construction. hardMax is the caller's ceiling (never exceeded); reserved
// is subtracted once up front for the packet header and AEAD tag, so
// Remaining() always reports room under max_plaintext_size, not the raw
// datagram ceiling (spec section 3, invariant 1). softMax, when set, is a
// tighter cap the assembler may drop exactly once per add_frame call if a
// frame doesn't fit under it (the "soft MTU retry loop" from the design
// notes) before re-testing against hardMax.
type sizeBudget struct {
	hardMax  protocol.ByteCount
	reserved protocol.ByteCount
	softMax  *protocol.ByteCount
	used     protocol.ByteCount
}

func newSizeBudget(hardMax protocol.ByteCount) *sizeBudget {
	return &sizeBudget{hardMax: hardMax}
}

// ReserveOverhead debits n bytes (header size plus AEAD tag) from every cap
// this budget tests against, for the lifetime of the packetContext that
// owns it. Called once, right after the context learns its connection IDs.
func (s *sizeBudget) ReserveOverhead(n protocol.ByteCount) {
	s.reserved = n
}

// Reset clears accumulated usage and any soft cap, leaving the reserved
// header/AEAD overhead untouched so the next packet at this level starts
// with the same max_plaintext_size budget as the last.
func (s *sizeBudget) Reset() {
	s.used = 0
	s.softMax = nil
}

// Remaining is the space left under whichever cap currently applies.
func (s *sizeBudget) Remaining() protocol.ByteCount {
	max := s.hardMax - s.reserved
	if s.softMax != nil && *s.softMax-s.reserved < max {
		max = *s.softMax - s.reserved
	}
	if s.used >= max {
		return 0
	}
	return max - s.used
}

// SetSoftMax installs a tighter cap than hardMax, e.g. while a scoped
// reserialization is probing whether padding is needed.
func (s *sizeBudget) SetSoftMax(max protocol.ByteCount) {
	s.softMax = &max
}

// RemoveSoftMaxPacketLength clears the soft cap, reverting to hardMax. The
// open question in the design notes says this may be called at most once
// per add_frame, so callers treat any second call within the same
// add_frame as a no-op by construction (they simply don't call it twice).
func (s *sizeBudget) RemoveSoftMaxPacketLength() {
	s.softMax = nil
}

// FitOrClearSoft reports whether need bytes fit in the remaining budget. If
// they don't fit under a soft cap but would fit under hardMax, the soft cap
// is cleared once and the check retried — the sole retry this core ever
// performs for a size computation.
func (s *sizeBudget) FitOrClearSoft(need protocol.ByteCount) bool {
	if need <= s.Remaining() {
		return true
	}
	if s.softMax == nil {
		return false
	}
	s.RemoveSoftMaxPacketLength()
	return need <= s.Remaining()
}

// Add commits need bytes against the budget. Callers must have already
// confirmed it fits via FitOrClearSoft.
func (s *sizeBudget) Add(need protocol.ByteCount) {
	s.used += need
}
