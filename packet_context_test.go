package quicpacker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/wire"
)

func newTestPacketContext(level protocol.EncryptionLevel, hardMax protocol.ByteCount) *packetContext {
	dest, src := testConnIDs()
	ctx := newPacketContext(level, hardMax)
	ctx.destConnID = dest
	ctx.srcConnID = src
	ctx.reserveHeader()
	return ctx
}

func TestPacketContextIsEmptyInitially(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	require.True(t, ctx.IsEmpty())
}

func TestPacketContextAddFrameSetsFlags(t *testing.T) {
	ctx := newTestPacketContext(protocol.EncryptionInitial, 1350)
	cf := &wire.CryptoFrame{Data: []byte("chlo")}
	ctx.addFrame(cf, true, true, protocol.TransmissionTypeNormal)

	require.False(t, ctx.IsEmpty())
	require.True(t, ctx.isRetransmittable)
	require.True(t, ctx.isAckEliciting)
	require.True(t, ctx.hasCryptoHandshake)
	require.Equal(t, protocol.TransmissionTypeNormal, ctx.transmissionType)
}

func TestPacketContextAddFrameRecordsLargestAcked(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	ack := &wire.AckFrame{AckRanges: []wire.AckRange{{FirstPacketNumber: 1, LastPacketNumber: 42}}}
	ctx.addFrame(ack, false, false, protocol.TransmissionTypeNormal)
	require.Equal(t, protocol.PacketNumber(42), ctx.largestAcked)
}

func TestPacketContextAddFrameOnlyRecordsTxTypeWhenRetransmittable(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	ctx.addFrame(&wire.PaddingFrame{}, false, false, protocol.TransmissionTypeProbing)
	require.Equal(t, protocol.TransmissionType(protocol.TransmissionTypeNormal), ctx.transmissionType)
	require.False(t, ctx.isRetransmittable)
}

func TestPacketContextPendingPaddingMakesItNonEmpty(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	require.True(t, ctx.IsEmpty())
	ctx.AddPendingPadding(10)
	require.False(t, ctx.IsEmpty())
}

func TestPacketContextResetClearsEverythingButReservation(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	before := ctx.budget.Remaining()

	ctx.addFrame(&wire.PingFrame{}, true, true, protocol.TransmissionTypeProbing)
	ctx.budget.Add((&wire.PingFrame{}).Length(protocol.Version1))
	ctx.AddPendingPadding(5)
	ctx.SetDiversificationNonce([]byte{1, 2, 3})

	ctx.reset()

	require.True(t, ctx.IsEmpty())
	require.False(t, ctx.isRetransmittable)
	require.False(t, ctx.isAckEliciting)
	require.False(t, ctx.hasCryptoHandshake)
	require.Equal(t, protocol.TransmissionType(protocol.TransmissionTypeNormal), ctx.transmissionType)
	require.Nil(t, ctx.diversificationNonce)
	require.Equal(t, before, ctx.budget.Remaining())
}

func TestPacketContextReserveHeaderAccountsForLevel(t *testing.T) {
	shortCtx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	longCtx := newTestPacketContext(protocol.EncryptionInitial, 1350)
	require.Greater(t, longCtx.budget.Remaining(), protocol.ByteCount(0))
	require.Greater(t, shortCtx.budget.Remaining(), longCtx.budget.Remaining())
}
