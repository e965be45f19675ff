package quicpacker

import (
	"golang.org/x/exp/slices"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qlog"
)

// levelOrder is the order in which encryption levels are coalesced onto one
// UDP datagram (RFC 9000 section 12.2): Initial first, then Handshake,
// then 0-RTT, then 1-RTT.
var levelOrder = map[protocol.EncryptionLevel]int{
	protocol.EncryptionInitial:   0,
	protocol.EncryptionHandshake: 1,
	protocol.Encryption0RTT:      2,
	protocol.Encryption1RTT:      3,
}

// Coalescer packs several SerializedPackets from different encryption
// levels of the same flight into one UDP datagram. The client's first
// flight is the motivating case: an Initial packet padded to 1200 bytes
// isn't worth sending alone when a Handshake packet is ready too.
//
// Assembler supplies the AEAD sealer and connection state needed to reseal
// a lone Initial packet's plaintext once PADDING is added; padding must be
// authenticated like any other packet content, so the coalescer cannot just
// append zero bytes after the ciphertext.
type Coalescer struct {
	Assembler *Assembler
	Metrics   *Metrics
	Tracer    *qlog.ConnectionTracer
}

// Coalesce orders pkts by encryption level and concatenates their raw
// bytes into one datagram, padding a lone Initial packet up to minSize
// (RFC 9000 requires client Initial datagrams be at least 1200 bytes) by
// resealing it with PADDING frames added to its plaintext under the same
// packet number (spec section 4.5). The returned buffer owns all of pkts'
// underlying buffers and releases them together once the caller is done.
func (c Coalescer) Coalesce(pkts []*SerializedPacket, minSize protocol.ByteCount) (*CoalescedDatagram, error) {
	if len(pkts) > 1 {
		c.Metrics.observeCoalesced()
	}
	ordered := make([]*SerializedPacket, len(pkts))
	copy(ordered, pkts)
	slices.SortFunc(ordered, func(a, b *SerializedPacket) int {
		return levelOrder[a.EncryptionLevel] - levelOrder[b.EncryptionLevel]
	})

	var total protocol.ByteCount
	for _, p := range ordered {
		total += p.Length()
	}

	hasInitial := len(ordered) > 0 && ordered[0].EncryptionLevel == protocol.EncryptionInitial
	var pad protocol.ByteCount
	if hasInitial && total < minSize {
		pad = minSize - total
	}

	var repadded *SerializedPacket
	raw := make([]byte, 0, total+pad)
	for i, p := range ordered {
		if i == 0 && pad > 0 {
			resealed, err := c.Assembler.reencodePadded(p, pad)
			if err != nil {
				return nil, err
			}
			repadded = resealed
			raw = append(raw, resealed.Raw...)
			continue
		}
		raw = append(raw, p.Raw...)
	}
	if repadded != nil {
		// ordered[0]'s buffer is superseded by the resealed copy; release
		// the original now and track the replacement for the datagram's
		// eventual Release, so every buffer is freed exactly once.
		ordered[0].Release()
		ordered[0] = repadded
	}

	if len(ordered) > 1 && c.Tracer != nil {
		c.Tracer.OnPacketsCoalesced(len(ordered), protocol.ByteCount(len(raw)), pad)
	}

	return &CoalescedDatagram{
		Raw:     raw,
		Packets: ordered,
	}, nil
}

// CoalescedDatagram is the final wire-ready payload for one UDP send call.
type CoalescedDatagram struct {
	Raw     []byte
	Packets []*SerializedPacket
}

// Release returns every coalesced packet's buffer to its owner.
func (d *CoalescedDatagram) Release() {
	for _, p := range d.Packets {
		p.Release()
	}
}
