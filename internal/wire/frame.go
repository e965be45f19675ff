package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// A Frame is anything the assembler can place into a packet. Every frame
// this core emits implements Write/Length; there is no shared parser
// interface because this core never needs to interpret frames it receives
// (that's the session's job) except where a frame doubles as its own
// round-trip test fixture.
type Frame interface {
	Write(b *bytes.Buffer, version protocol.VersionNumber) error
	Length(version protocol.VersionNumber) protocol.ByteCount
}
