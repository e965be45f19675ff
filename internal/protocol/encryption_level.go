package protocol

// EncryptionLevel is the encryption level of a packet.
// The order of the constants is relevant: it is the order in which we try to
// coalesce packets into one datagram, and the order in which a connection
// establishes keys.
type EncryptionLevel uint8

const (
	// EncryptionInitial is the Initial encryption level
	EncryptionInitial EncryptionLevel = 1 + iota
	// EncryptionHandshake is the Handshake encryption level
	EncryptionHandshake
	// Encryption0RTT is the 0-RTT encryption level
	Encryption0RTT
	// Encryption1RTT is the 1-RTT encryption level (forward secure)
	Encryption1RTT
)

// Less reports whether e occurs strictly before other in the ordering used to
// coalesce packets into a datagram (spec §4.5: "Order by encryption level
// ascending (INITIAL first)").
func (e EncryptionLevel) Less(other EncryptionLevel) bool {
	return e < other
}

func (e EncryptionLevel) String() string {
	switch e {
	case EncryptionInitial:
		return "Initial"
	case EncryptionHandshake:
		return "Handshake"
	case Encryption0RTT:
		return "0-RTT"
	case Encryption1RTT:
		return "1-RTT"
	default:
		return "unknown encryption level"
	}
}

// IsLongHeader says whether a packet at this encryption level uses a long
// header. Only 1-RTT packets use the short header.
func (e EncryptionLevel) IsLongHeader() bool {
	return e != Encryption1RTT
}
