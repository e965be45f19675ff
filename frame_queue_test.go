package quicpacker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/wire"
)

func TestFrameQueuePushAndIterPreservesOrder(t *testing.T) {
	var q frameQueue
	f1 := &wire.PingFrame{}
	f2 := &wire.PaddingFrame{}
	q.Push(f1, true, true)
	q.Push(f2, false, false)

	entries := q.Iter()
	require.Len(t, entries, 2)
	require.Same(t, f1, entries[0].Frame)
	require.Same(t, f2, entries[1].Frame)
	require.Equal(t, 2, q.Len())
}

func TestFrameQueueBackAliasesUnderlyingSlice(t *testing.T) {
	var q frameQueue
	sf := &wire.StreamFrame{StreamID: 1, Data: []byte("ab")}
	q.Push(sf, true, true)

	back := q.Back()
	require.NotNil(t, back)
	back.Frame.(*wire.StreamFrame).Data = append(back.Frame.(*wire.StreamFrame).Data, 'c')
	require.Equal(t, []byte("abc"), sf.Data)
}

func TestFrameQueueBackOnEmptyQueueIsNil(t *testing.T) {
	var q frameQueue
	require.Nil(t, q.Back())
}

func TestFrameQueueClearEmptiesQueue(t *testing.T) {
	var q frameQueue
	q.Push(&wire.PingFrame{}, true, true)
	q.Clear()
	require.Equal(t, 0, q.Len())
	require.Nil(t, q.Back())
}

func TestFrameQueueHasAck(t *testing.T) {
	var q frameQueue
	require.False(t, q.HasAck())
	q.Push(&wire.PingFrame{}, true, true)
	require.False(t, q.HasAck())
	q.Push(&wire.AckFrame{AckRanges: []wire.AckRange{{FirstPacketNumber: 1, LastPacketNumber: 1}}}, false, false)
	require.True(t, q.HasAck())
}

func TestFrameQueueHasRetransmittable(t *testing.T) {
	var q frameQueue
	require.False(t, q.HasRetransmittable())
	q.Push(&wire.PaddingFrame{}, false, false)
	require.False(t, q.HasRetransmittable())
	q.Push(&wire.PingFrame{}, true, true)
	require.True(t, q.HasRetransmittable())
}

func TestFrameQueueSplitPartitionsByRetransmittability(t *testing.T) {
	var q frameQueue
	ping := &wire.PingFrame{}
	pad := &wire.PaddingFrame{}
	q.Push(ping, true, true)
	q.Push(pad, false, false)

	retransmittable, ephemeral := q.Split()
	require.Equal(t, []wire.Frame{ping}, retransmittable)
	require.Equal(t, []wire.Frame{pad}, ephemeral)
	require.Len(t, q.All(), 2)
}
