package protocol

// A ByteCount is used to count bytes
type ByteCount int64

const (
	// MaxOutgoingPacketSize is the size, in bytes, of the stack-equivalent
	// fallback buffer used when the session delegate declines to hand out a
	// buffer (spec §5). A packet larger than that (an MTU probe) is built in
	// a heap slice of its own size instead.
	MaxOutgoingPacketSize ByteCount = 1452

	// MaxNumAckRanges bounds the number of ranges an ACK frame pulled from the
	// pool may carry.
	MaxNumAckRanges = 256

	// MaxConnectionIDLen is the longest connection ID this core will ever emit.
	MaxConnectionIDLen = 20

	// MinConnectionIDLenInitial is the shortest destination connection ID
	// allowed in a client-generated Initial packet.
	MinConnectionIDLenInitial = 8
)
