package quicpacker

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qerr"
	"github.com/quicforge/quicpacker/internal/utils"
	"github.com/quicforge/quicpacker/internal/wire"
)

// aeadOverhead is the AEAD authentication tag length this core assumes when
// sizing a long header's Length field ahead of encryption (RFC 9001 uses a
// 16-byte tag for every cipher suite QUIC defines).
const aeadOverhead = protocol.ByteCount(16)


// Serializer turns one finished packetContext into bytes: it adds the
// padding the header-protection sampler and any pending-padding policy
// call for, writes the header and frames, and hands the plaintext to the
// AEADSealer. On failure it reports a FailedToSerializePacketError and
// lets the caller clear whatever was queued (spec section 7): a failed
// packet is never partially emitted.
type Serializer struct {
	assembler *Assembler
}

func (s *Serializer) serialize(ctx *packetContext, maxPacketLength protocol.ByteCount) (*SerializedPacket, error) {
	a := s.assembler

	frames := ctx.frames()

	var frameLen protocol.ByteCount
	for _, qf := range frames {
		frameLen += qf.Frame.Length(a.version)
	}

	// Pad by at most whatever room is left in the packet, carrying any
	// remainder forward rather than failing the packet outright (spec
	// section 4.4 step 3: pad by min(pending_padding_bytes, BytesFree())
	// and debit pending_padding_bytes by that much, not the full request).
	headerLen := packetHeaderSize(ctx.level, ctx.destConnID, ctx.srcConnID, ctx.packetNumberLen)
	bytesFree := maxPacketLength - headerLen - aeadOverhead - frameLen
	if bytesFree < 0 {
		bytesFree = 0
	}
	paddingBytes := ctx.pendingPadding
	if paddingBytes > bytesFree {
		paddingBytes = bytesFree
	}
	ctx.pendingPadding -= paddingBytes

	payloadLen := frameLen + paddingBytes
	if short := protocol.MinPlaintextPacketSize(a.version) - payloadLen; short > 0 {
		paddingBytes += short
		payloadLen += short
	}

	buf := a.delegate.AcquireBuffer()
	if buf == nil {
		buf = getPacketBuffer()
	}
	raw := buf.Bytes()
	if len(raw) < int(maxPacketLength) {
		// A packet larger than the buffer (an MTU probe above
		// MaxOutgoingPacketSize) is built in a heap slice of its own size.
		raw = make([]byte, maxPacketLength)
	}
	b := bytes.NewBuffer(raw[:0])

	isLongHeader := ctx.level != protocol.Encryption1RTT
	if isLongHeader {
		lh := &wire.LongHeader{
			Type:             protocol.PacketTypeFromEncryptionLevel(ctx.level),
			Version:          a.version,
			DestConnectionID: ctx.destConnID,
			SrcConnectionID:  ctx.srcConnID,
			Length:           protocol.ByteCount(ctx.packetNumberLen) + payloadLen + aeadOverhead,
			PacketNumber:     ctx.packetNumber,
			PacketNumberLen:  ctx.packetNumberLen,
		}
		if err := lh.Write(b); err != nil {
			buf.Release()
			return nil, &qerr.FailedToSerializePacketError{Reason: err.Error()}
		}
		if ctx.diversificationNonce != nil {
			b.Write(ctx.diversificationNonce)
		}
	} else {
		sh := &wire.ShortHeader{
			DestConnectionID: ctx.destConnID,
			PacketNumber:     ctx.packetNumber,
			PacketNumberLen:  ctx.packetNumberLen,
			KeyPhase:         protocol.KeyPhaseZero,
		}
		if err := sh.Write(b); err != nil {
			buf.Release()
			return nil, &qerr.FailedToSerializePacketError{Reason: err.Error()}
		}
	}

	associatedDataStart := 0
	utils.BigEndian.WriteUintN(b, uint8(ctx.packetNumberLen), uint64(ctx.packetNumber))
	payloadStart := b.Len()

	for _, qf := range frames {
		if err := qf.Frame.Write(b, a.version); err != nil {
			buf.Release()
			return nil, &qerr.FailedToSerializePacketError{Reason: err.Error()}
		}
	}
	for i := protocol.ByteCount(0); i < paddingBytes; i++ {
		b.WriteByte(0)
	}

	if protocol.ByteCount(b.Len())+aeadOverhead > maxPacketLength {
		buf.Release()
		return nil, &qerr.FailedToSerializePacketError{Reason: "packet exceeds maximum packet length"}
	}

	raw = raw[:b.Len()]
	if a.sealer != nil {
		encryptedLength := a.sealer.EncryptInPlace(ctx.level, ctx.packetNumber, associatedDataStart, b.Len()-payloadStart, raw)
		if encryptedLength == 0 {
			buf.Release()
			return nil, &qerr.MissingEncryptionKeysError{Level: ctx.level}
		}
		raw = raw[:payloadStart+encryptedLength]
	}
	if protocol.ByteCount(len(raw)) > maxPacketLength {
		buf.Release()
		return nil, &qerr.FailedToSerializePacketError{Reason: "encrypted packet exceeds maximum packet length"}
	}

	retransmittable, ephemeral := ctx.buffer.Split()
	all := ctx.buffer.All()

	return &SerializedPacket{
		Buffer:                   buf,
		Raw:                      raw,
		PacketNumber:             ctx.packetNumber,
		PacketNumberLen:          ctx.packetNumberLen,
		EncryptionLevel:          ctx.level,
		DestConnectionID:         ctx.destConnID,
		SrcConnectionID:          ctx.srcConnID,
		Frames:                   all,
		RetransmittableFrames:    retransmittable,
		NonRetransmittableFrames: ephemeral,
		IsRetransmittable:        ctx.isRetransmittable,
		IsPathMTUProbePacket:     false,
		TransmissionType:         ctx.transmissionType,
		LargestAcked:             ctx.largestAcked,
	}, nil
}
