package wire

// IsProbingFrame reports whether f is a probing frame (RFC 9000 section
// 9.1): the set of frames that may accompany a PATH_CHALLENGE/PATH_RESPONSE
// exchange on a path that isn't yet validated.
func IsProbingFrame(f Frame) bool {
	switch f.(type) {
	case *PathChallengeFrame, *PathResponseFrame, *NewConnectionIDFrame:
		return true
	default:
		return false
	}
}
