package quicpacker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qerr"
	"github.com/quicforge/quicpacker/internal/testaead"
	"github.com/quicforge/quicpacker/internal/wire"
)

func newTestSerializerAssembler(t *testing.T) *Assembler {
	t.Helper()
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)
	return a
}

// Every IETF packet with header protection must contain at least
// MinPlaintextPacketSize(version) plaintext bytes (spec section 8).
func TestSerializerPadsToMinimumPlaintextSize(t *testing.T) {
	a := newTestSerializerAssembler(t)
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	ctx.addFrame(&wire.PingFrame{}, true, true, protocol.TransmissionTypeNormal)
	ctx.budget.Add((&wire.PingFrame{}).Length(protocol.Version1))

	s := &Serializer{assembler: a}
	pkt, err := s.serialize(ctx, 1350)
	require.NoError(t, err)

	plaintextLen := pkt.Length() - protocol.ByteCount(16) // AEAD tag
	require.GreaterOrEqual(t, plaintextLen, protocol.MinPlaintextPacketSize(protocol.Version1))
}

func TestSerializerRejectsPacketWhenFramesAloneExceedMaxLength(t *testing.T) {
	a := newTestSerializerAssembler(t)
	ctx := newTestPacketContext(protocol.Encryption1RTT, 2000)
	sf := &wire.StreamFrame{StreamID: 4, Data: make([]byte, 100), DataLenPresent: true}
	ctx.addFrame(sf, true, true, protocol.TransmissionTypeNormal)
	ctx.budget.Add(sf.Length(protocol.Version1))

	s := &Serializer{assembler: a}
	_, err := s.serialize(ctx, 50)
	require.Error(t, err)
	require.ErrorIs(t, err, &qerr.FailedToSerializePacketError{})
}

// Pending padding that doesn't fit in this packet is capped to whatever
// room is left, not rejected outright; the remainder carries forward to
// the next packet at this level (spec section 4.4 step 3).
func TestSerializerCapsPendingPaddingAndCarriesRemainderForward(t *testing.T) {
	a := newTestSerializerAssembler(t)
	ctx := newTestPacketContext(protocol.Encryption1RTT, 2000)
	ctx.addFrame(&wire.PingFrame{}, true, true, protocol.TransmissionTypeNormal)
	ctx.budget.Add((&wire.PingFrame{}).Length(protocol.Version1))
	ctx.AddPendingPadding(1900)

	s := &Serializer{assembler: a}
	pkt, err := s.serialize(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, protocol.ByteCount(100), pkt.Length())
	require.Greater(t, ctx.pendingPadding, protocol.ByteCount(0))
}

func TestSerializerReportsMissingEncryptionKeys(t *testing.T) {
	d := newFakeDelegate()
	sealer := testaead.NewSealer() // no keys installed at all
	dest, src := testConnIDs()
	a := NewAssembler(d, sealer, &fakeRandom{fill: 1}, nil, protocol.Version1, protocol.PerspectiveClient, dest, src, 1350, nil, nil)

	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	ctx.addFrame(&wire.PingFrame{}, true, true, protocol.TransmissionTypeNormal)
	ctx.budget.Add((&wire.PingFrame{}).Length(protocol.Version1))

	s := &Serializer{assembler: a}
	_, err := s.serialize(ctx, 1350)
	require.Error(t, err)
	require.ErrorIs(t, err, &qerr.MissingEncryptionKeysError{})
}

func TestSerializerGrowsByAEADTagLength(t *testing.T) {
	a := newTestSerializerAssembler(t)
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	sf := &wire.StreamFrame{StreamID: 4, Data: []byte("payload"), DataLenPresent: true}
	ctx.addFrame(sf, true, true, protocol.TransmissionTypeNormal)
	ctx.budget.Add(sf.Length(protocol.Version1))

	s := &Serializer{assembler: a}
	pkt, err := s.serialize(ctx, 1350)
	require.NoError(t, err)

	headerLen := packetHeaderSize(protocol.Encryption1RTT, ctx.destConnID, ctx.srcConnID, ctx.packetNumberLen)
	expectedPlaintext := headerLen + sf.Length(protocol.Version1)
	require.Equal(t, expectedPlaintext+16, pkt.Length())
}
