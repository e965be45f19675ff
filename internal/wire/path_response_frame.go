package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// A PathResponseFrame echoes back the Data of a PATH_CHALLENGE the peer
// sent (RFC 9000 section 19.18).
type PathResponseFrame struct {
	Data [8]byte
}

func (f *PathResponseFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(PathResponseFrameType))
	b.Write(f.Data[:])
	return nil
}

// Length of a written frame.
func (f *PathResponseFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + 8
}
