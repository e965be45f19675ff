package quicpacker

import "github.com/quicforge/quicpacker/internal/protocol"

// allLevels is the fixed iteration order FlusherScope drains in: Initial
// and Handshake first so a client's first flight coalesces correctly,
// then 0-RTT and 1-RTT.
var allLevels = [numLevels]protocol.EncryptionLevel{
	protocol.EncryptionInitial,
	protocol.EncryptionHandshake,
	protocol.Encryption0RTT,
	protocol.Encryption1RTT,
}

// FlusherScope batches a run of consume_*/add_frame calls across one or
// more encryption levels: while a scope is open, the assembler is marked
// "batched" so callers that expect to emit packets only through a flusher
// can assert one is active. Release flushes whatever is left queued at
// every level, including any accumulated PADDING, in the order the
// packets must leave on the wire (spec section 4.6).
type FlusherScope struct {
	assembler         *Assembler
	startPacketNumber [numLevels]protocol.PacketNumber
	released          bool
}

// NewFlusherScope opens a scope over a, recording the next packet number
// at every level so a caller can tell which packets this scope produced.
func NewFlusherScope(a *Assembler) *FlusherScope {
	a.batched = true
	return &FlusherScope{assembler: a, startPacketNumber: a.nextPacketNumber}
}

// Release flushes every level's current packet and returns the packets it
// produced, in allLevels order. A level contributes nothing if it had
// neither queued frames nor pending padding. Release clears the batch
// flag whether or not a flush fails partway through, so a failed scope
// never leaves the assembler permanently marked batched.
func (s *FlusherScope) Release() ([]*SerializedPacket, error) {
	if s.released {
		return nil, nil
	}
	s.released = true
	defer func() { s.assembler.batched = false }()

	var packets []*SerializedPacket
	for _, level := range allLevels {
		pkt, err := s.assembler.FlushCurrentPacket(level)
		if err != nil {
			return packets, err
		}
		if pkt != nil {
			packets = append(packets, pkt)
		}
	}
	return packets, nil
}

// PacketNumbers reports the packet number each level will assign to its
// next packet, as of scope construction — useful for a caller that wants
// to correlate the scope's output back to the range it produced.
func (s *FlusherScope) PacketNumbers() [numLevels]protocol.PacketNumber {
	return s.startPacketNumber
}

// Flusher runs one packetContext through serialization with scoped context
// switching: whatever serialize does with the context's size budget, the
// context itself is always reset before Flush returns, success or failure.
// A failed serialization must never leave half-written frames sitting in
// the context for the next flush to pick up (spec section 7).
type Flusher struct{}

// Flush serializes ctx via serialize, unconditionally resetting ctx
// afterward regardless of the outcome.
func (Flusher) Flush(ctx *packetContext, serialize func(*packetContext) (*SerializedPacket, error)) (*SerializedPacket, error) {
	defer ctx.reset()
	return serialize(ctx)
}

// WithSoftMax runs fn with a temporary soft cap on ctx's budget, restoring
// whatever cap applied before regardless of how fn returns. Used when a
// packet must be probed against a tighter limit than the connection's
// usual hard maximum without disturbing that maximum afterward (e.g. an
// MTU-discovery packet that must land at exactly one size).
func (Flusher) WithSoftMax(ctx *packetContext, max protocol.ByteCount, fn func() error) error {
	prev := ctx.budget.softMax
	ctx.budget.SetSoftMax(max)
	defer func() { ctx.budget.softMax = prev }()
	return fn()
}
