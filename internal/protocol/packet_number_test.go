package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketNumberLengthForHeader(t *testing.T) {
	require.Equal(t, PacketNumberLen4, PacketNumberLengthForHeader(0x1337, InvalidPacketNumber))
	require.Equal(t, PacketNumberLen1, PacketNumberLengthForHeader(10, 10))
	require.Equal(t, PacketNumberLen1, PacketNumberLengthForHeader(10000, 9990))
	require.Equal(t, PacketNumberLen4, PacketNumberLengthForHeader(0xdeadbeef, 0))
}

func TestEncryptionLevelOrderingAndCoalescing(t *testing.T) {
	require.True(t, EncryptionInitial.Less(EncryptionHandshake))
	require.True(t, EncryptionHandshake.Less(Encryption0RTT))
	require.True(t, Encryption0RTT.Less(Encryption1RTT))
	require.False(t, Encryption1RTT.Less(EncryptionInitial))

	require.True(t, EncryptionInitial.IsLongHeader())
	require.True(t, EncryptionHandshake.IsLongHeader())
	require.True(t, Encryption0RTT.IsLongHeader())
	require.False(t, Encryption1RTT.IsLongHeader())
}

func TestPacketTypeFromEncryptionLevel(t *testing.T) {
	require.Equal(t, PacketTypeInitial, PacketTypeFromEncryptionLevel(EncryptionInitial))
	require.Equal(t, PacketTypeHandshake, PacketTypeFromEncryptionLevel(EncryptionHandshake))
	require.Equal(t, PacketType0RTT, PacketTypeFromEncryptionLevel(Encryption0RTT))
	require.Panics(t, func() { PacketTypeFromEncryptionLevel(Encryption1RTT) })
}

func TestConnectionIDGeneration(t *testing.T) {
	c, err := GenerateConnectionID(8)
	require.NoError(t, err)
	require.Equal(t, 8, c.Len())

	c2, err := GenerateConnectionIDForInitial()
	require.NoError(t, err)
	require.GreaterOrEqual(t, c2.Len(), MinConnectionIDLenInitial)
	require.LessOrEqual(t, c2.Len(), MaxConnectionIDLen)

	require.True(t, c.Equal(c))
	require.False(t, c.Equal(c2))
}

func TestMinPlaintextPacketSize(t *testing.T) {
	require.Equal(t, ByteCount(3), MinPlaintextPacketSize(Version1))
}
