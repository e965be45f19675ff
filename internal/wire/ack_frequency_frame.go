package wire

import (
	"bytes"
	"time"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// An AckFrequencyFrame asks the peer to relax how often it sends ACKs
// (draft-ietf-quic-ack-frequency). Emitted only when the session delegate
// opts into it; this core never decides the thresholds itself.
type AckFrequencyFrame struct {
	SequenceNumber        uint64
	AckElicitingThreshold uint64
	RequestMaxAckDelay    time.Duration
	ReorderingThreshold   protocol.PacketNumber
}

func (f *AckFrequencyFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	utils.WriteVarInt(b, uint64(FrameTypeAckFrequency))
	utils.WriteVarInt(b, f.SequenceNumber)
	utils.WriteVarInt(b, f.AckElicitingThreshold)
	utils.WriteVarInt(b, uint64(f.RequestMaxAckDelay/time.Microsecond))
	utils.WriteVarInt(b, uint64(f.ReorderingThreshold))
	return nil
}

// Length of a written frame.
func (f *AckFrequencyFrame) Length(_ protocol.VersionNumber) protocol.ByteCount {
	return protocol.ByteCount(utils.VarIntLen(uint64(FrameTypeAckFrequency)) +
		utils.VarIntLen(f.SequenceNumber) +
		utils.VarIntLen(f.AckElicitingThreshold) +
		utils.VarIntLen(uint64(f.RequestMaxAckDelay/time.Microsecond)) +
		utils.VarIntLen(uint64(f.ReorderingThreshold)))
}
