package protocol

// PacketType is the long header packet type, per RFC 9000 section 17.2.
type PacketType uint8

const (
	// PacketTypeInitial is the packet type of an Initial packet
	PacketTypeInitial PacketType = 1 + iota
	// PacketTypeHandshake is the packet type of a Handshake packet
	PacketTypeHandshake
	// PacketType0RTT is the packet type of a 0-RTT packet
	PacketType0RTT
	// PacketTypeRetry is the packet type of a Retry packet
	PacketTypeRetry
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeInitial:
		return "Initial"
	case PacketTypeHandshake:
		return "Handshake"
	case PacketType0RTT:
		return "0-RTT"
	case PacketTypeRetry:
		return "Retry"
	default:
		return "invalid packet type"
	}
}

// PacketTypeFromEncryptionLevel returns the long header packet type used to
// carry data at the given encryption level. Must not be called for
// Encryption1RTT, which uses the short header and has no packet type byte.
func PacketTypeFromEncryptionLevel(level EncryptionLevel) PacketType {
	switch level {
	case EncryptionInitial:
		return PacketTypeInitial
	case EncryptionHandshake:
		return PacketTypeHandshake
	case Encryption0RTT:
		return PacketType0RTT
	default:
		panic("protocol: no long header packet type for " + level.String())
	}
}
