package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// A HandshakeDoneFrame tells the client the handshake is confirmed. Only
// ever sent by a server, and only at Encryption1RTT.
type HandshakeDoneFrame struct{}

func (f *HandshakeDoneFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(HandshakeDoneFrameType))
	return nil
}

// Length of a written frame.
func (f *HandshakeDoneFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1
}
