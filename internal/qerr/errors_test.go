package qerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quicforge/quicpacker/internal/protocol"
)

func TestCryptoChloTooLargeError(t *testing.T) {
	err := &CryptoChloTooLargeError{Size: 2000, MaxPacket: 1200}
	require.Contains(t, err.Error(), "2000")
	require.Contains(t, err.Error(), "1200")
	require.True(t, errors.Is(err, &CryptoChloTooLargeError{}))
	require.False(t, errors.Is(err, &FailedToSerializePacketError{}))
}

func TestAttemptToSendUnencryptedStreamDataError(t *testing.T) {
	err := &AttemptToSendUnencryptedStreamDataError{StreamID: 4}
	require.Contains(t, err.Error(), "4")
	require.True(t, errors.Is(err, &AttemptToSendUnencryptedStreamDataError{}))
}

func TestFailedToSerializePacketError(t *testing.T) {
	err := &FailedToSerializePacketError{Reason: "too big"}
	require.Contains(t, err.Error(), "too big")
	require.True(t, errors.Is(err, &FailedToSerializePacketError{}))
}

func TestMissingEncryptionKeysError(t *testing.T) {
	err := &MissingEncryptionKeysError{Level: protocol.EncryptionHandshake}
	require.Contains(t, err.Error(), "Handshake")
	require.True(t, errors.Is(err, &MissingEncryptionKeysError{}))
}
