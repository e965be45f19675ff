package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// writeAndParse writes f, parses it back with the independent parser, and
// returns the parsed frame alongside how many bytes Write produced.
func writeAndParse(t *testing.T, f Frame, version protocol.VersionNumber) (Frame, int) {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, f.Write(&b, version))
	require.Equal(t, int(f.Length(version)), b.Len())

	parsed, err := ParseNextFrame(bytes.NewReader(b.Bytes()), version)
	require.NoError(t, err)
	return parsed, b.Len()
}

func TestStreamFrameRoundTrip(t *testing.T) {
	f := &StreamFrame{StreamID: 42, Offset: 100, Data: []byte("foobar"), Fin: true, DataLenPresent: true}
	parsed, _ := writeAndParse(t, f, protocol.Version1)
	sf, ok := parsed.(*StreamFrame)
	require.True(t, ok)
	require.Equal(t, f.StreamID, sf.StreamID)
	require.Equal(t, f.Offset, sf.Offset)
	require.Equal(t, f.Data, sf.Data)
	require.True(t, sf.Fin)
}

func TestStreamFrameMaxDataLen(t *testing.T) {
	f := &StreamFrame{StreamID: 42, Offset: 0, DataLenPresent: true}
	n := f.MaxDataLen(100, protocol.Version1)
	require.Greater(t, n, protocol.ByteCount(0))
	require.Less(t, n, protocol.ByteCount(100))
}

func TestStreamFrameMaybeSplitOffFrame(t *testing.T) {
	f := &StreamFrame{StreamID: 1, Data: bytes.Repeat([]byte{'a'}, 100), Fin: true, DataLenPresent: true}
	head := f.MaybeSplitOffFrame(20, protocol.Version1)
	require.NotNil(t, head)
	require.False(t, head.Fin)
	require.True(t, f.Fin)
	require.Equal(t, protocol.ByteCount(len(head.Data)), f.Offset)
}

func TestCryptoFrameRoundTrip(t *testing.T) {
	f := &CryptoFrame{Offset: 17, Data: []byte("client hello bytes")}
	parsed, _ := writeAndParse(t, f, protocol.Version1)
	cf, ok := parsed.(*CryptoFrame)
	require.True(t, ok)
	require.Equal(t, f.Offset, cf.Offset)
	require.Equal(t, f.Data, cf.Data)
}

func TestAckFrameRoundTrip(t *testing.T) {
	f := &AckFrame{
		AckRanges: []AckRange{
			{FirstPacketNumber: 8, LastPacketNumber: 10},
			{FirstPacketNumber: 2, LastPacketNumber: 5},
		},
		DelayTime: 5 * time.Millisecond,
	}
	require.Equal(t, protocol.PacketNumber(10), f.LargestAcked())

	parsed, _ := writeAndParse(t, f, protocol.Version1)
	af, ok := parsed.(*AckFrame)
	require.True(t, ok)
	require.Equal(t, f.LargestAcked(), af.LargestAcked())
	require.Len(t, af.AckRanges, 2)
}

func TestPingAndPathFrames(t *testing.T) {
	writeAndParse(t, &PingFrame{}, protocol.Version1)

	data := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	parsed, _ := writeAndParse(t, &PathChallengeFrame{Data: data}, protocol.Version1)
	pc, ok := parsed.(*PathChallengeFrame)
	require.True(t, ok)
	require.Equal(t, data, pc.Data)

	parsed, _ = writeAndParse(t, &PathResponseFrame{Data: data}, protocol.Version1)
	pr, ok := parsed.(*PathResponseFrame)
	require.True(t, ok)
	require.Equal(t, data, pr.Data)
}

func TestDatagramFrameMaxDataLen(t *testing.T) {
	f := &DatagramFrame{DataLenPresent: true}
	n, ok := f.MaxDataLen(10)
	require.True(t, ok)
	require.Greater(t, n, protocol.ByteCount(0))

	_, ok = f.MaxDataLen(0)
	require.False(t, ok)
}

func TestLongHeaderWriteAndLen(t *testing.T) {
	h := &LongHeader{
		Type:             protocol.PacketTypeInitial,
		Version:          protocol.Version1,
		DestConnectionID: protocol.ConnectionID{1, 2, 3, 4},
		SrcConnectionID:  protocol.ConnectionID{5, 6},
		PacketNumberLen:  protocol.PacketNumberLen2,
		Length:           123,
	}
	var b bytes.Buffer
	require.NoError(t, h.Write(&b))
	require.Equal(t, int(h.HeaderLen())-int(h.PacketNumberLen), b.Len())

	parsed, n, err := ParseLongHeader(b.Bytes())
	require.NoError(t, err)
	require.Equal(t, b.Len(), n)
	require.Equal(t, h.Type, parsed.Type)
	require.True(t, h.DestConnectionID.Equal(parsed.DestConnectionID))
	require.True(t, h.SrcConnectionID.Equal(parsed.SrcConnectionID))
	require.Equal(t, h.Length, parsed.Length)
}

func TestShortHeaderWriteAndParse(t *testing.T) {
	h := &ShortHeader{
		DestConnectionID: protocol.ConnectionID{9, 9, 9, 9},
		PacketNumber:     77,
		PacketNumberLen:  protocol.PacketNumberLen1,
		KeyPhase:         protocol.KeyPhaseOne,
	}
	var b bytes.Buffer
	require.NoError(t, h.Write(&b))
	b.WriteByte(77) // packet number, written separately by the serializer

	parsed, err := ParseShortHeader(b.Bytes(), 4)
	require.NoError(t, err)
	require.True(t, h.DestConnectionID.Equal(parsed.DestConnectionID))
	require.Equal(t, h.PacketNumber, parsed.PacketNumber)
	require.Equal(t, h.KeyPhase, parsed.KeyPhase)
}

func TestConnectionCloseFrameRoundTrip(t *testing.T) {
	f := &ConnectionCloseFrame{ReasonPhrase: "bye", ErrorCode: 0x1}
	parsed, _ := writeAndParse(t, f, protocol.Version1)
	cc, ok := parsed.(*ConnectionCloseFrame)
	require.True(t, ok)
	require.Equal(t, f.ReasonPhrase, cc.ReasonPhrase)
	require.Equal(t, f.ErrorCode, cc.ErrorCode)
}
