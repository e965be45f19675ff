package quicpacker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/wire"
)

func TestFrameExpansionStreamFrame(t *testing.T) {
	withLen := &wire.StreamFrame{StreamID: 4, Data: []byte("hi"), DataLenPresent: true}
	require.Equal(t, protocol.ByteCount(0), frameExpansion(withLen, protocol.Version1))

	withoutLen := &wire.StreamFrame{StreamID: 4, Data: []byte("hi"), DataLenPresent: false}
	require.Greater(t, frameExpansion(withoutLen, protocol.Version1), protocol.ByteCount(0))
}

func TestFrameExpansionDatagramFrame(t *testing.T) {
	withoutLen := &wire.DatagramFrame{Data: []byte("hi")}
	require.Greater(t, frameExpansion(withoutLen, protocol.Version1), protocol.ByteCount(0))
}

func TestFrameExpansionUnaffectedFrameKinds(t *testing.T) {
	require.Equal(t, protocol.ByteCount(0), frameExpansion(&wire.PingFrame{}, protocol.Version1))
	require.Equal(t, protocol.ByteCount(0), frameExpansion(&wire.CryptoFrame{Data: []byte("x")}, protocol.Version1))
}

func TestPacketHeaderSizeLongVsShort(t *testing.T) {
	dest, src := testConnIDs()
	long := packetHeaderSize(protocol.EncryptionInitial, dest, src, protocol.PacketNumberLen4)
	short := packetHeaderSize(protocol.Encryption1RTT, dest, src, protocol.PacketNumberLen4)
	require.Greater(t, long, short)
}

func TestSizeBudgetReservesOverheadUpFront(t *testing.T) {
	b := newSizeBudget(100)
	b.ReserveOverhead(20)
	require.Equal(t, protocol.ByteCount(80), b.Remaining())
	b.Add(30)
	require.Equal(t, protocol.ByteCount(50), b.Remaining())
}

func TestSizeBudgetResetClearsUsageNotReservation(t *testing.T) {
	b := newSizeBudget(100)
	b.ReserveOverhead(20)
	b.Add(50)
	b.Reset()
	require.Equal(t, protocol.ByteCount(80), b.Remaining())
}

func TestSizeBudgetSoftMaxNarrowsRoom(t *testing.T) {
	b := newSizeBudget(100)
	b.SetSoftMax(60)
	require.Equal(t, protocol.ByteCount(60), b.Remaining())
}

func TestSizeBudgetFitOrClearSoftRetriesOnce(t *testing.T) {
	b := newSizeBudget(100)
	b.SetSoftMax(60)

	// 70 doesn't fit under the soft cap but does under hardMax: the soft
	// cap is cleared and the check retried exactly once.
	require.True(t, b.FitOrClearSoft(70))
	require.Nil(t, b.softMax)

	// Once cleared, a value that doesn't fit under hardMax fails outright,
	// with no further soft cap left to drop.
	require.False(t, b.FitOrClearSoft(200))
}

func TestSizeBudgetFitOrClearSoftNoSoftCapFailsDirectly(t *testing.T) {
	b := newSizeBudget(100)
	require.False(t, b.FitOrClearSoft(200))
}

func TestSizeBudgetRemainingNeverNegative(t *testing.T) {
	b := newSizeBudget(10)
	b.Add(10)
	require.Equal(t, protocol.ByteCount(0), b.Remaining())
	// Overshooting commits (callers must have checked first via
	// FitOrClearSoft) still reports zero, not a negative remainder.
	b.Add(5)
	require.Equal(t, protocol.ByteCount(0), b.Remaining())
}
