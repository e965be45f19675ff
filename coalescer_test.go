package quicpacker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// Scenario 2: a coalesced Initial+Handshake datagram pads the Initial
// packet's tail to fill out the full datagram (spec section 8).
func TestCoalescerPadsLoneInitialToMinSize(t *testing.T) {
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)

	_, err := a.ConsumeCryptoData(protocol.EncryptionInitial, make([]byte, 50), 0)
	require.NoError(t, err)
	_, err = a.ConsumeCryptoData(protocol.EncryptionHandshake, make([]byte, 20), 0)
	require.NoError(t, err)
	require.Len(t, d.serialized, 2)

	c := Coalescer{Assembler: a}
	datagram, err := c.Coalesce(d.serialized, 1350)
	require.NoError(t, err)
	require.Equal(t, 1350, len(datagram.Raw))

	require.Len(t, datagram.Packets, 2)
	require.Equal(t, protocol.EncryptionInitial, datagram.Packets[0].EncryptionLevel)
	require.Equal(t, protocol.EncryptionHandshake, datagram.Packets[1].EncryptionLevel)

	// The repadded Initial packet keeps its original packet number.
	require.Equal(t, protocol.PacketNumber(0), datagram.Packets[0].PacketNumber)
}

func TestCoalescerOrdersByEncryptionLevelAscending(t *testing.T) {
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)

	_, err := a.ConsumeCryptoData(protocol.EncryptionHandshake, make([]byte, 10), 0)
	require.NoError(t, err)
	_, err = a.ConsumeCryptoData(protocol.EncryptionInitial, make([]byte, 10), 0)
	require.NoError(t, err)
	require.Len(t, d.serialized, 2)
	require.Equal(t, protocol.EncryptionHandshake, d.serialized[0].EncryptionLevel)
	require.Equal(t, protocol.EncryptionInitial, d.serialized[1].EncryptionLevel)

	c := Coalescer{Assembler: a}
	datagram, err := c.Coalesce(d.serialized, 0)
	require.NoError(t, err)
	require.Equal(t, protocol.EncryptionInitial, datagram.Packets[0].EncryptionLevel)
	require.Equal(t, protocol.EncryptionHandshake, datagram.Packets[1].EncryptionLevel)
}

func TestCoalescerNoPaddingWhenAlreadyAtMinSize(t *testing.T) {
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)

	_, err := a.ConsumeCryptoData(protocol.EncryptionInitial, make([]byte, 10), 0)
	require.NoError(t, err)
	require.Len(t, d.serialized, 1)

	originalLen := d.serialized[0].Length()
	c := Coalescer{Assembler: a}
	datagram, err := c.Coalesce(d.serialized, 0)
	require.NoError(t, err)
	require.Equal(t, int(originalLen), len(datagram.Raw))
}

func TestCoalescerSingleNonInitialPacketIsNotPadded(t *testing.T) {
	d := newFakeDelegate()
	a, _ := newTestAssembler(t, d, nil)

	_, err := a.ConsumeCryptoData(protocol.EncryptionHandshake, make([]byte, 10), 0)
	require.NoError(t, err)
	require.Len(t, d.serialized, 1)

	c := Coalescer{Assembler: a}
	datagram, err := c.Coalesce(d.serialized, 1350)
	require.NoError(t, err)
	require.Equal(t, int(d.serialized[0].Length()), len(datagram.Raw))
}
