package wire

import (
	"bytes"
	"time"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// An AckFrame acknowledges received packets (RFC 9000 section 19.3).
// AckRanges is sorted largest-first; this core only ever serializes an
// AckFrame the session delegate handed it, it never builds the range set.
type AckFrame struct {
	AckRanges []AckRange
	DelayTime time.Duration

	ECT0, ECT1, ECNCE uint64
	ECNPresent        bool
}

func (f *AckFrame) hasECN() bool {
	return f.ECNPresent
}

// LargestAcked is the largest packet number covered by AckRanges.
func (f *AckFrame) LargestAcked() protocol.PacketNumber {
	return f.AckRanges[0].LastPacketNumber
}

func (f *AckFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	if f.hasECN() {
		b.WriteByte(byte(AckECNFrameType))
	} else {
		b.WriteByte(byte(AckFrameType))
	}
	utils.WriteVarInt(b, uint64(f.LargestAcked()))
	utils.WriteVarInt(b, encodeAckDelay(f.DelayTime))

	numRanges := len(f.AckRanges)
	utils.WriteVarInt(b, uint64(numRanges-1))

	// first range
	utils.WriteVarInt(b, uint64(f.AckRanges[0].Len()-1))
	for i := 1; i < numRanges; i++ {
		gap := f.AckRanges[i-1].FirstPacketNumber - f.AckRanges[i].LastPacketNumber - 2
		utils.WriteVarInt(b, uint64(gap))
		utils.WriteVarInt(b, uint64(f.AckRanges[i].Len()-1))
	}

	if f.hasECN() {
		utils.WriteVarInt(b, f.ECT0)
		utils.WriteVarInt(b, f.ECT1)
		utils.WriteVarInt(b, f.ECNCE)
	}
	return nil
}

// Length of a written frame.
func (f *AckFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	length := 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.LargestAcked()))) +
		protocol.ByteCount(utils.VarIntLen(encodeAckDelay(f.DelayTime))) +
		protocol.ByteCount(utils.VarIntLen(uint64(len(f.AckRanges)-1))) +
		protocol.ByteCount(utils.VarIntLen(uint64(f.AckRanges[0].Len()-1)))
	for i := 1; i < len(f.AckRanges); i++ {
		gap := f.AckRanges[i-1].FirstPacketNumber - f.AckRanges[i].LastPacketNumber - 2
		length += protocol.ByteCount(utils.VarIntLen(uint64(gap)))
		length += protocol.ByteCount(utils.VarIntLen(uint64(f.AckRanges[i].Len() - 1)))
	}
	if f.hasECN() {
		length += protocol.ByteCount(utils.VarIntLen(f.ECT0) + utils.VarIntLen(f.ECT1) + utils.VarIntLen(f.ECNCE))
	}
	return length
}

// ackDelayExponent is fixed at the RFC 9000 default; this core doesn't
// negotiate transport parameters, so it has no way to learn a different one.
const ackDelayExponent = 3

func encodeAckDelay(delay time.Duration) uint64 {
	return uint64(delay.Microseconds()) >> ackDelayExponent
}
