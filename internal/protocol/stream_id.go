package protocol

// A StreamID in QUIC
type StreamID uint64

// InitiatedBy says if the stream was initiated by the client or by the server
func (s StreamID) InitiatedBy() Perspective {
	if s%2 == 0 {
		return PerspectiveClient
	}
	return PerspectiveServer
}

// IsUniDirectional says if this is a unidirectional stream (true) or not (false)
func (s StreamID) IsUniDirectional() bool {
	return s%4 >= 2
}

// CryptoStreamID is the pseudo-stream ID that stands for the crypto stream.
// The assembler does not look at it: it refuses every STREAM frame at
// INITIAL/HANDSHAKE levels, whatever its ID (spec §4.3, step 1), since
// crypto data at those levels goes out as CRYPTO frames instead.
const CryptoStreamID StreamID = 1<<62 - 1

// StreamType distinguishes bidirectional from unidirectional streams,
// independent of who initiated them.
type StreamType uint8

const (
	// StreamTypeUni is a unidirectional stream
	StreamTypeUni StreamType = iota
	// StreamTypeBidi is a bidirectional stream
	StreamTypeBidi
)
