package quicpacker

import (
	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/wire"
)

// fakeDelegate is a minimal, observable SessionDelegate for exercising the
// Assembler without a real QUIC session. Every hook records what it was
// called with so a test can assert on the call pattern (e.g. the
// "MaybeBundleAckOpportunistically consulted exactly once" scenario).
type fakeDelegate struct {
	allowGenerate bool
	bundledAcks   []wire.Frame
	fate          Fate

	serialized []*SerializedPacket
	errors     []error

	bundleCalls int
}

func newFakeDelegate() *fakeDelegate {
	return &fakeDelegate{allowGenerate: true, fate: FateSend}
}

func (d *fakeDelegate) AcquireBuffer() OwnedBuffer { return nil }

func (d *fakeDelegate) ShouldGeneratePacket(hasRetransmittableFrames, isHandshake bool) bool {
	return d.allowGenerate
}

func (d *fakeDelegate) GetSerializedPacketFate(isMTUProbe bool, level protocol.EncryptionLevel) Fate {
	return d.fate
}

func (d *fakeDelegate) OnSerializedPacket(p *SerializedPacket) {
	d.serialized = append(d.serialized, p)
}

func (d *fakeDelegate) MaybeBundleAckOpportunistically() []wire.Frame {
	d.bundleCalls++
	return d.bundledAcks
}

func (d *fakeDelegate) OnUnrecoverableError(err error) {
	d.errors = append(d.errors, err)
}

// fakeRandom is a deterministic RandomSource so probe tests can assert on
// the exact payload bytes produced.
type fakeRandom struct {
	fill byte
}

func (r *fakeRandom) RandomBytes(dst []byte) {
	for i := range dst {
		dst[i] = r.fill
	}
}

func (r *fakeRandom) RandomUint64() uint64 { return uint64(r.fill) }

func testConnIDs() (dest, src protocol.ConnectionID) {
	return protocol.ConnectionID{1, 2, 3, 4, 5, 6, 7, 8}, protocol.ConnectionID{9, 9, 9, 9}
}
