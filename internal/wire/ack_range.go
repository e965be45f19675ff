package wire

import "github.com/quicforge/quicpacker/internal/protocol"

// AckRange is an inclusive range of acknowledged packet numbers.
type AckRange struct {
	FirstPacketNumber protocol.PacketNumber
	LastPacketNumber  protocol.PacketNumber
}

// Len is the number of packet numbers covered by this range.
func (r AckRange) Len() protocol.PacketNumber {
	return r.LastPacketNumber - r.FirstPacketNumber + 1
}
