package qerr

import "fmt"

// The assembler's job stops the instant it can't honor a request safely.
// These are the ways that happens; each is unrecoverable at this layer and
// gets handed back up to the session, which decides what to do about it
// (usually: tear down the connection).

// CryptoChloTooLargeError is returned when the initial crypto handshake
// message (CHLO) does not fit into a single Initial packet under
// EnforceSinglePacketCHLO, and the caller has not allowed packing it across
// several packets.
type CryptoChloTooLargeError struct {
	Size      int
	MaxPacket int
}

func (e *CryptoChloTooLargeError) Error() string {
	return fmt.Sprintf("qerr: CHLO of size %d does not fit into a single packet (max %d)", e.Size, e.MaxPacket)
}

func (e *CryptoChloTooLargeError) Is(target error) bool {
	_, ok := target.(*CryptoChloTooLargeError)
	return ok
}

// AttemptToSendUnencryptedStreamDataError is returned when stream data is
// queued for an encryption level that does not protect application data,
// i.e. Initial or Handshake.
type AttemptToSendUnencryptedStreamDataError struct {
	StreamID uint64
}

func (e *AttemptToSendUnencryptedStreamDataError) Error() string {
	return fmt.Sprintf("qerr: tried to send unencrypted stream data for stream %d", e.StreamID)
}

func (e *AttemptToSendUnencryptedStreamDataError) Is(target error) bool {
	_, ok := target.(*AttemptToSendUnencryptedStreamDataError)
	return ok
}

// FailedToSerializePacketError is returned when the AEAD collaborator
// rejects a packet it was asked to protect, or the serializer otherwise
// cannot turn a packet context into bytes.
type FailedToSerializePacketError struct {
	Reason string
}

func (e *FailedToSerializePacketError) Error() string {
	return fmt.Sprintf("qerr: failed to serialize packet: %s", e.Reason)
}

func (e *FailedToSerializePacketError) Is(target error) bool {
	_, ok := target.(*FailedToSerializePacketError)
	return ok
}

// MissingEncryptionKeysError is returned when a packet is requested at an
// encryption level for which no sealer has been installed yet.
type MissingEncryptionKeysError struct {
	Level fmt.Stringer
}

func (e *MissingEncryptionKeysError) Error() string {
	return fmt.Sprintf("qerr: no encryption keys installed for %s", e.Level)
}

func (e *MissingEncryptionKeysError) Is(target error) bool {
	_, ok := target.(*MissingEncryptionKeysError)
	return ok
}
