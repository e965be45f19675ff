package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
)

// A PathChallengeFrame probes a path's liveness (RFC 9000 section 19.17).
// Data is an 8-byte arbitrary payload chosen by the session's RandomSource;
// this core only ever serializes it, it never interprets a reply.
type PathChallengeFrame struct {
	Data [8]byte
}

func (f *PathChallengeFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(PathChallengeFrameType))
	b.Write(f.Data[:])
	return nil
}

// Length of a written frame.
func (f *PathChallengeFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + 8
}
