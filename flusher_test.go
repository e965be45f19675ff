package quicpacker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
)

func TestFlusherScopeDrainsEveryLevelInWireOrder(t *testing.T) {
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)

	scope := NewFlusherScope(a)
	require.True(t, a.batched)

	_, err := a.ConsumeData(protocol.Encryption1RTT, 4, []byte("hi"), 0, false)
	require.NoError(t, err)
	_, err = a.ConsumeCryptoData(protocol.EncryptionHandshake, []byte("hs"), 0)
	require.NoError(t, err)

	pkts, err := scope.Release()
	require.NoError(t, err)
	require.False(t, a.batched)
	// ConsumeCryptoData force-flushes on return, so by the time the scope
	// is released only the 1-RTT level still has something queued.
	require.Len(t, pkts, 1)
	require.Equal(t, protocol.Encryption1RTT, pkts[0].EncryptionLevel)
	// Both packets the scope's run produced ended up with the delegate,
	// the Handshake one via its own force-flush, the 1-RTT one via Release.
	require.Len(t, d.serialized, 2)
}

func TestFlusherScopeReleaseIsIdempotent(t *testing.T) {
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)
	scope := NewFlusherScope(a)

	first, err := scope.Release()
	require.NoError(t, err)
	require.Empty(t, first)

	second, err := scope.Release()
	require.NoError(t, err)
	require.Nil(t, second)
}

func TestFlusherScopePacketNumbersReportsStartingPoint(t *testing.T) {
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)

	_, err := a.ConsumeData(protocol.Encryption1RTT, 4, []byte("hi"), 0, false)
	require.NoError(t, err)
	_, err = a.FlushCurrentPacket(protocol.Encryption1RTT)
	require.NoError(t, err)

	scope := NewFlusherScope(a)
	pns := scope.PacketNumbers()
	require.Equal(t, protocol.PacketNumber(1), pns[levelIndex(protocol.Encryption1RTT)])
	_, err = scope.Release()
	require.NoError(t, err)
}

func TestFlusherFlushAlwaysResetsContextOnFailure(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	ctx.AddPendingPadding(5)

	var f Flusher
	calls := 0
	boom := errors.New("boom")
	_, err := f.Flush(ctx, func(*packetContext) (*SerializedPacket, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
	require.True(t, ctx.IsEmpty())
}

func TestFlusherFlushResetsContextOnSuccessToo(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	ctx.AddPendingPadding(5)

	var f Flusher
	pkt, err := f.Flush(ctx, func(*packetContext) (*SerializedPacket, error) {
		return &SerializedPacket{}, nil
	})
	require.NoError(t, err)
	require.NotNil(t, pkt)
	require.True(t, ctx.IsEmpty())
}

func TestFlusherWithSoftMaxRestoresPreviousCap(t *testing.T) {
	ctx := newTestPacketContext(protocol.Encryption1RTT, 1350)
	before := ctx.budget.Remaining()

	var f Flusher
	err := f.WithSoftMax(ctx, 100, func() error {
		// The soft cap is a packet length, so the 29 bytes reserved for the
		// short header and AEAD tag come off it as well.
		require.Equal(t, protocol.ByteCount(71), ctx.budget.Remaining())
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, before, ctx.budget.Remaining())
}
