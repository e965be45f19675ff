package quicpacker

import (
	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qerr"
	"github.com/quicforge/quicpacker/internal/qlog"
	"github.com/quicforge/quicpacker/internal/utils"
	"github.com/quicforge/quicpacker/internal/wire"
)

// levelIndex maps an EncryptionLevel onto a dense array index; the levels
// start at 1 (see internal/protocol.EncryptionLevel), so this is just a
// bounds-checked -1.
func levelIndex(level protocol.EncryptionLevel) int { return int(level) - 1 }

const numLevels = 4

// Assembler is the core of this package: it owns one packetContext per
// encryption level, consumes data the session wants to send, and decides
// when a packet is full enough to hand to the Serializer. It holds no
// back-reference to the session — every interaction with the outside world
// goes through the SessionDelegate, AEADSealer and RandomSource it was
// built with (design notes, "cyclic collaborator").
type Assembler struct {
	delegate SessionDelegate
	sealer   AEADSealer
	rand     RandomSource
	config   *Config

	version     protocol.VersionNumber
	perspective protocol.Perspective

	destConnID protocol.ConnectionID
	srcConnID  protocol.ConnectionID

	contexts         [numLevels]*packetContext
	nextPacketNumber [numLevels]protocol.PacketNumber

	maxPacketLength protocol.ByteCount

	// batched reports whether a FlusherScope is currently open over this
	// assembler. It is informational only here; callers that need the
	// "public operations require an active flusher" guarantee enforce it
	// themselves before calling into the assembler.
	batched bool

	pendingPathResponses [][8]byte

	logger  utils.Logger
	metrics *Metrics
	tracer  *qlog.ConnectionTracer
}

// SetTracer attaches a qlog tracer to the assembler. nil detaches it.
// Wired after construction, the way the session attaches a tracer once it
// knows whether qlogging was requested for this connection.
func (a *Assembler) SetTracer(t *qlog.ConnectionTracer) {
	a.tracer = t
}

// qlogPacketType renders level the way qlog packet_type values name
// themselves: long-header levels by their RFC 9000 packet type, 1-RTT by
// its own qlog-reserved name since it has no PacketType byte.
func qlogPacketType(level protocol.EncryptionLevel) string {
	if level == protocol.Encryption1RTT {
		return "1RTT"
	}
	return protocol.PacketTypeFromEncryptionLevel(level).String()
}

// NewAssembler builds an Assembler for one connection. maxPacketLength is
// the current MTU (hard_max_packet_length); the session grows it over time
// via successful MTU probes.
func NewAssembler(delegate SessionDelegate, sealer AEADSealer, rand RandomSource, config *Config, version protocol.VersionNumber, perspective protocol.Perspective, destConnID, srcConnID protocol.ConnectionID, maxPacketLength protocol.ByteCount, logger utils.Logger, metrics *Metrics) *Assembler {
	if config == nil {
		config = populateConfig(nil)
	}
	if logger == nil {
		logger = &utils.DefaultLogger{}
	}
	a := &Assembler{
		delegate:        delegate,
		sealer:          sealer,
		rand:            rand,
		config:          config,
		version:         version,
		perspective:     perspective,
		destConnID:      destConnID,
		srcConnID:       srcConnID,
		maxPacketLength: maxPacketLength,
		logger:          logger,
		metrics:         metrics,
	}
	for i := range a.contexts {
		a.nextPacketNumber[i] = 0
	}
	return a
}

func (a *Assembler) context(level protocol.EncryptionLevel) *packetContext {
	idx := levelIndex(level)
	if a.contexts[idx] == nil {
		a.contexts[idx] = newPacketContext(level, a.maxPacketLength)
		a.contexts[idx].destConnID = a.destConnID
		a.contexts[idx].srcConnID = a.srcConnID
		a.contexts[idx].reserveHeader()
	}
	return a.contexts[idx]
}

// newProbeContext builds a one-off packetContext for a standalone
// connectivity probe or MTU-discovery packet, outside the per-level
// contexts the regular consume_* operations share. The probe takes the next
// packet number at level, so it never reuses one a regular packet had.
func (a *Assembler) newProbeContext(level protocol.EncryptionLevel, maxPacketLength protocol.ByteCount) *packetContext {
	ctx := newPacketContext(level, maxPacketLength)
	ctx.destConnID = a.destConnID
	ctx.srcConnID = a.srcConnID
	ctx.reserveHeader()
	idx := levelIndex(level)
	ctx.packetNumber = a.nextPacketNumber[idx]
	a.nextPacketNumber[idx]++
	return ctx
}

// reencodePadded rebuilds p's plaintext with totalPad bytes of PADDING
// appended and reseals it under the same packet number, so the padding the
// coalescer adds to a lone Initial datagram is authenticated rather than
// appended as raw ciphertext (spec section 4.5: re-serialization reuses the
// original packet number via a scoped context switch). The caller owns the
// returned packet's buffer and must Release it.
func (a *Assembler) reencodePadded(p *SerializedPacket, totalPad protocol.ByteCount) (*SerializedPacket, error) {
	ctx := newPacketContext(p.EncryptionLevel, p.Length()+totalPad+aeadOverhead+64)
	ctx.destConnID = p.DestConnectionID
	ctx.srcConnID = p.SrcConnectionID
	ctx.packetNumber = p.PacketNumber
	ctx.packetNumberLen = p.PacketNumberLen
	ctx.transmissionType = p.TransmissionType
	ctx.largestAcked = p.LargestAcked
	ctx.isRetransmittable = p.IsRetransmittable

	retransmittable := make(map[wire.Frame]bool, len(p.RetransmittableFrames))
	for _, f := range p.RetransmittableFrames {
		retransmittable[f] = true
	}
	for _, f := range p.Frames {
		r := retransmittable[f]
		ctx.buffer.Push(f, r, r)
	}
	ctx.pendingPadding = totalPad

	maxPacketLength := a.maxPacketLength
	if need := p.Length() + totalPad + aeadOverhead + 32; need > maxPacketLength {
		maxPacketLength = need
	}
	s := &Serializer{assembler: a}
	pkt, err := s.serialize(ctx, maxPacketLength)
	if err != nil {
		return nil, err
	}
	// The padding can lengthen the Length varint; if the header grew, give
	// back that many padding bytes so the result is exactly totalPad longer.
	if grown := pkt.Length() - p.Length() - totalPad; grown > 0 && grown < totalPad {
		pkt.Release()
		ctx.pendingPadding = totalPad - grown
		return s.serialize(ctx, maxPacketLength)
	}
	return pkt, nil
}

// SkipPacketNumbers advances the next packet number at level by n beyond
// the usual increment-by-one, e.g. to defend against packet-number-based
// traffic analysis. The sequence still never repeats or decreases.
func (a *Assembler) SkipPacketNumbers(level protocol.EncryptionLevel, n int) {
	a.nextPacketNumber[levelIndex(level)] += protocol.PacketNumber(n)
}

// ConsumeData queues application stream data (spec section 4, consume_data).
// Stream data is only ever sent once the connection is forward-secure (or
// in 0-RTT); submitting it at INITIAL/HANDSHAKE is a programming error the
// session must not make, and is reported as unrecoverable.
func (a *Assembler) ConsumeData(level protocol.EncryptionLevel, streamID protocol.StreamID, data []byte, offset protocol.ByteCount, fin bool) (protocol.ByteCount, error) {
	if level == protocol.EncryptionInitial || level == protocol.EncryptionHandshake {
		err := &qerr.AttemptToSendUnencryptedStreamDataError{StreamID: uint64(streamID)}
		a.delegate.OnUnrecoverableError(err)
		return 0, err
	}
	if len(data) == 0 && !fin {
		return 0, &qerr.FailedToSerializePacketError{Reason: "empty write"}
	}

	var written protocol.ByteCount
	curOffset := offset
	remaining := data

	for {
		if len(remaining) == 0 && !fin {
			return written, nil
		}
		if !a.delegate.ShouldGeneratePacket(true, false) {
			return written, nil
		}

		ctx := a.context(level)

		// Coalesce onto the frame already queued for this stream, if the
		// merged frame still fits (spec section 8, "coalescing law"); if it
		// doesn't, flush and retry with a fresh packet rather than split a
		// frame that's already partway written.
		if sf := a.lastQueuedStreamFrame(level, streamID); sf != nil && sf.Offset+protocol.ByteCount(len(sf.Data)) == curOffset {
			committed := sf.Length(a.version)
			avail := ctx.budget.Remaining() + committed
			merged := append(append([]byte(nil), sf.Data...), remaining...)
			candidate := &wire.StreamFrame{StreamID: streamID, Offset: sf.Offset, Data: merged, Fin: fin, DataLenPresent: sf.DataLenPresent}
			if candidate.Length(a.version) <= avail {
				ctx.budget.Add(candidate.Length(a.version) - committed)
				sf.Data = merged
				sf.Fin = fin
				written += protocol.ByteCount(len(remaining))
				return written, nil
			}
			if _, err := a.FlushCurrentPacket(level); err != nil {
				return written, err
			}
			continue
		}

		frame := &wire.StreamFrame{StreamID: streamID, Offset: curOffset, Data: remaining, Fin: fin, DataLenPresent: a.version.UsesLengthPrefixedStreamFrames()}
		expansion := protocol.ByteCount(0)
		if back := ctx.back(); back != nil {
			expansion = frameExpansion(back.Frame, a.version)
		}
		avail := ctx.budget.Remaining() - expansion
		if avail <= 0 {
			if _, err := a.FlushCurrentPacket(level); err != nil {
				return written, err
			}
			continue
		}

		n := frame.MaxDataLen(avail, a.version)
		if n >= protocol.ByteCount(len(remaining)) {
			if err := a.addFrame(level, frame, true, true, protocol.TransmissionTypeNormal); err != nil {
				return written, err
			}
			written += protocol.ByteCount(len(remaining))
			return written, nil
		}
		if n <= 0 {
			if _, err := a.FlushCurrentPacket(level); err != nil {
				return written, err
			}
			continue
		}

		frame.Data = remaining[:n]
		frame.Fin = false
		if err := a.addFrame(level, frame, true, true, protocol.TransmissionTypeNormal); err != nil {
			return written, err
		}
		written += n
		curOffset += n
		remaining = remaining[n:]
		if _, err := a.FlushCurrentPacket(level); err != nil {
			return written, err
		}
	}
}

// lastQueuedStreamFrame returns the StreamFrame most recently added to
// level's current packet for streamID, if the tail of the packet is still
// that frame (the coalescing law only applies back-to-back).
func (a *Assembler) lastQueuedStreamFrame(level protocol.EncryptionLevel, streamID protocol.StreamID) *wire.StreamFrame {
	ctx := a.context(level)
	back := ctx.back()
	if back == nil {
		return nil
	}
	sf, ok := back.Frame.(*wire.StreamFrame)
	if !ok || sf.StreamID != streamID {
		return nil
	}
	return sf
}

// ConsumeCryptoData queues handshake bytes at level (consume_crypto_data).
// If EnforceSinglePacketCHLO is set and this is the first Initial crypto
// frame, the whole ClientHello must fit in one packet or the connection is
// aborted rather than silently split. Otherwise data too large for one
// packet is split across as many CRYPTO frames as it takes, flushing
// between fills, the same way ConsumeData splits STREAM frames.
func (a *Assembler) ConsumeCryptoData(level protocol.EncryptionLevel, data []byte, offset protocol.ByteCount) (protocol.ByteCount, error) {
	if a.config.EnforceSinglePacketCHLO && level == protocol.EncryptionInitial && offset == 0 {
		frame := &wire.CryptoFrame{Offset: offset, Data: data}
		room := a.maxPacketLength - packetHeaderSize(level, a.destConnID, a.srcConnID, protocol.PacketNumberLen4) - aeadOverhead
		if frame.Length(a.version) > room {
			err := &qerr.CryptoChloTooLargeError{Size: len(data), MaxPacket: int(a.maxPacketLength)}
			a.delegate.OnUnrecoverableError(err)
			return 0, err
		}
	}

	// A CRYPTO frame is never coalesced with stream/control frames in the
	// same packet: flush whatever non-handshake retransmittable frames are
	// already queued before adding to or opening a crypto packet.
	if ctx := a.context(level); !ctx.IsEmpty() && !ctx.hasCryptoHandshake {
		if _, err := a.FlushCurrentPacket(level); err != nil {
			return 0, err
		}
	}

	var written protocol.ByteCount
	curOffset := offset
	remaining := data

	for len(remaining) > 0 {
		ctx := a.context(level)

		if cf := a.lastQueuedCryptoFrame(level); cf != nil && cf.Offset+protocol.ByteCount(len(cf.Data)) == curOffset {
			committed := cf.Length(a.version)
			avail := ctx.budget.Remaining() + committed
			merged := append(append([]byte(nil), cf.Data...), remaining...)
			candidate := &wire.CryptoFrame{Offset: cf.Offset, Data: merged}
			if candidate.Length(a.version) <= avail {
				ctx.budget.Add(candidate.Length(a.version) - committed)
				cf.Data = merged
				written += protocol.ByteCount(len(remaining))
				curOffset += protocol.ByteCount(len(remaining))
				remaining = nil
				break
			}
			if _, err := a.FlushCurrentPacket(level); err != nil {
				return written, err
			}
			continue
		}

		frame := &wire.CryptoFrame{Offset: curOffset, Data: remaining}
		expansion := protocol.ByteCount(0)
		if back := ctx.back(); back != nil {
			expansion = frameExpansion(back.Frame, a.version)
		}
		avail := ctx.budget.Remaining() - expansion
		if avail <= 0 {
			if _, err := a.FlushCurrentPacket(level); err != nil {
				return written, err
			}
			continue
		}

		n := frame.MaxDataLen(avail)
		if n >= protocol.ByteCount(len(remaining)) {
			if err := a.addFrame(level, frame, true, true, protocol.TransmissionTypeNormal); err != nil {
				return written, err
			}
			written += protocol.ByteCount(len(remaining))
			curOffset += protocol.ByteCount(len(remaining))
			remaining = nil
			break
		}
		if n <= 0 {
			if _, err := a.FlushCurrentPacket(level); err != nil {
				return written, err
			}
			continue
		}

		frame.Data = remaining[:n]
		if err := a.addFrame(level, frame, true, true, protocol.TransmissionTypeNormal); err != nil {
			return written, err
		}
		written += n
		curOffset += n
		remaining = remaining[n:]
		if _, err := a.FlushCurrentPacket(level); err != nil {
			return written, err
		}
	}

	if a.config.FullyPadCryptoHandshakePackets {
		ctx := a.context(level)
		if rem := ctx.budget.Remaining(); rem > 0 && !ctx.IsEmpty() {
			ctx.AddPendingPadding(rem)
		}
	}

	// Always force-flush on return so a subsequent write at a different
	// level begins a fresh packet (spec section 4.3, consume_crypto_data).
	if _, flushErr := a.FlushCurrentPacket(level); flushErr != nil {
		return written, flushErr
	}
	return written, nil
}

func (a *Assembler) lastQueuedCryptoFrame(level protocol.EncryptionLevel) *wire.CryptoFrame {
	ctx := a.context(level)
	back := ctx.back()
	if back == nil {
		return nil
	}
	cf, ok := back.Frame.(*wire.CryptoFrame)
	if !ok {
		return nil
	}
	return cf
}

// ConsumeRetransmittableControlFrame queues a control frame that must be
// retransmitted if lost (e.g. MAX_DATA, NEW_CONNECTION_ID). If the packet
// under construction has no ACK yet, the delegate is asked exactly once
// whether it wants to bundle one opportunistically before the control
// frame goes in, matching the "opportunistic ACK bundle" scenario. If the
// packet has no room left and the delegate declines to start a new one
// (PING/CONNECTION_CLOSE excepted), the frame is silently dropped without
// flushing (spec section 4.3).
func (a *Assembler) ConsumeRetransmittableControlFrame(level protocol.EncryptionLevel, f wire.Frame) error {
	ctx := a.context(level)
	if !ctx.buffer.HasAck() {
		for _, bundled := range a.delegate.MaybeBundleAckOpportunistically() {
			if err := a.addFrame(level, bundled, false, false, protocol.TransmissionTypeNormal); err != nil {
				break
			}
		}
	}
	_, err := a.addRetransmittableControlFrame(level, f, protocol.TransmissionTypeNormal)
	return err
}

// FlushAck adds ack to level's current packet. ACKs are never
// retransmitted in their own right; losing one just means the next ACK
// covers a wider range.
func (a *Assembler) FlushAck(level protocol.EncryptionLevel, ack *wire.AckFrame) error {
	return a.addFrame(level, ack, false, false, protocol.TransmissionTypeNormal)
}

// AddMessage queues an unreliable DATAGRAM frame (add_message). data
// longer than Config.MaxDatagramFrameSize is rejected outright: datagrams
// are never fragmented.
func (a *Assembler) AddMessage(level protocol.EncryptionLevel, data []byte) error {
	frame := &wire.DatagramFrame{Data: data, DataLenPresent: true}
	if protocol.ByteCount(len(data)) > a.config.MaxDatagramFrameSize {
		return &qerr.FailedToSerializePacketError{Reason: "datagram exceeds MaxDatagramFrameSize"}
	}
	return a.addFrame(level, frame, false, true, protocol.TransmissionTypeNormal)
}

// GenerateMTUDiscovery builds a single one-off packet padded to exactly
// probeSize bytes, without touching the persistent MTU: the next regular
// packet reverts to the connection's usual maxPacketLength.
func (a *Assembler) GenerateMTUDiscovery(probeSize protocol.ByteCount) (*SerializedPacket, error) {
	level := protocol.Encryption1RTT
	ctx := a.newProbeContext(level, probeSize)
	ping := &wire.PingFrame{}
	ctx.addFrame(ping, false, true, protocol.TransmissionTypePathMTUDiscovery)
	ctx.budget.Add(ping.Length(a.version))
	ctx.pendingPadding = ctx.budget.Remaining()

	s := &Serializer{assembler: a}
	pkt, err := s.serialize(ctx, probeSize)
	if err != nil {
		return nil, err
	}
	pkt.IsPathMTUProbePacket = true
	pkt.TransmissionType = protocol.TransmissionTypePathMTUDiscovery
	if a.metrics != nil {
		a.metrics.mtuProbesSent.Inc()
	}
	if a.tracer != nil {
		a.tracer.OnMTUProbeSent(probeSize)
	}
	return pkt, nil
}

// SerializePathChallenge builds a standalone connectivity-probe packet
// carrying one PATH_CHALLENGE, padded to the full connection MTU to assess
// path MTU characteristics alongside path validation.
func (a *Assembler) SerializePathChallenge(data [8]byte) (*SerializedPacket, error) {
	ctx := a.newProbeContext(protocol.Encryption1RTT, a.maxPacketLength)
	challenge := &wire.PathChallengeFrame{Data: data}
	ctx.addFrame(challenge, false, true, protocol.TransmissionTypeProbing)
	ctx.budget.Add(challenge.Length(a.version))
	ctx.pendingPadding = ctx.budget.Remaining()
	s := &Serializer{assembler: a}
	pkt, err := s.serialize(ctx, a.maxPacketLength)
	if err != nil {
		return nil, err
	}
	pkt.TransmissionType = protocol.TransmissionTypeProbing
	return pkt, nil
}

// ErrTooManyPathResponsePayloads is returned by SerializeConnectivityProbe
// when more PATH_CHALLENGE payloads arrived than fit into one packet. The
// packet is still emitted, echoing as many as fit; the caller is
// responsible for re-probing the rest.
var ErrTooManyPathResponsePayloads = &qerr.FailedToSerializePacketError{Reason: "more PATH_RESPONSE payloads pending than fit in one packet"}

// SerializeConnectivityProbe bundles PATH_RESPONSE echoes for every payload
// in responses that fits, alongside an optional fresh PATH_CHALLENGE. When
// padded is true the packet is padded out to the full connection MTU, the
// way a path-validation probe that must also exercise PMTU discovery wants
// (spec section 4.3, serialize_path_response).
func (a *Assembler) SerializeConnectivityProbe(responses [][8]byte, challenge *[8]byte, padded bool) (*SerializedPacket, error) {
	ctx := a.newProbeContext(protocol.Encryption1RTT, a.maxPacketLength)

	var dropped bool
	for _, data := range responses {
		frame := &wire.PathResponseFrame{Data: data}
		if !ctx.budget.FitOrClearSoft(frame.Length(a.version)) {
			dropped = true
			continue
		}
		ctx.addFrame(frame, false, true, protocol.TransmissionTypeNormal)
		ctx.budget.Add(frame.Length(a.version))
	}
	if challenge != nil {
		frame := &wire.PathChallengeFrame{Data: *challenge}
		if ctx.budget.FitOrClearSoft(frame.Length(a.version)) {
			ctx.addFrame(frame, false, true, protocol.TransmissionTypeNormal)
			ctx.budget.Add(frame.Length(a.version))
		}
	}
	if padded {
		ctx.pendingPadding = ctx.budget.Remaining()
	}

	s := &Serializer{assembler: a}
	pkt, err := s.serialize(ctx, a.maxPacketLength)
	if err != nil {
		return nil, err
	}
	if dropped {
		if a.metrics != nil {
			a.metrics.observePacketDropped(protocol.Encryption1RTT.String())
		}
		if a.tracer != nil {
			a.tracer.OnPacketDropped(qlogPacketType(protocol.Encryption1RTT), "path_response_payload_overflow")
		}
		return pkt, ErrTooManyPathResponsePayloads
	}
	return pkt, nil
}

// bypassesShouldGeneratePacket reports whether f may be added to a packet
// even if the session delegate declines to start a new one — spec section
// 4.3 carves this out for PING and CONNECTION_CLOSE, since congestion
// control never holds those back.
func bypassesShouldGeneratePacket(f wire.Frame) bool {
	switch f.(type) {
	case *wire.PingFrame, *wire.ConnectionCloseFrame:
		return true
	default:
		return false
	}
}

// addFrame is the single primitive every consume_* operation funnels
// through: it accounts for the expansion a previously-last frame picks up
// once it's no longer last, checks the packet's budget, and flushes the
// current packet first if the frame doesn't fit at all. It never consults
// the session delegate about whether a new packet may be generated — spec
// section 4.3 assigns that gate to specific operations (consume_data,
// consume_retransmittable_control_frame), not to add_frame itself; flush_ack
// and consume_crypto_data must both be callable through this regardless of
// what the delegate would otherwise permit.
func (a *Assembler) addFrame(level protocol.EncryptionLevel, f wire.Frame, retransmittable, ackEliciting bool, txType protocol.TransmissionType) error {
	ctx := a.context(level)

	needed := f.Length(a.version)
	if back := ctx.back(); back != nil {
		needed += frameExpansion(back.Frame, a.version)
	}

	if !ctx.budget.FitOrClearSoft(needed) {
		if _, err := a.FlushCurrentPacket(level); err != nil {
			return err
		}
		ctx = a.context(level)
		if !ctx.budget.FitOrClearSoft(needed) {
			return &qerr.FailedToSerializePacketError{Reason: "frame does not fit in an empty packet"}
		}
	}

	ctx.addFrame(f, retransmittable, ackEliciting, txType)
	ctx.budget.Add(needed)
	if a.logger != nil {
		wire.LogFrame(a.logger, f, true)
	}
	return nil
}

// addRetransmittableControlFrame adds f like addFrame, but if the packet
// under construction has no room for it, the delegate is asked whether a
// new packet may be started before flushing — PING and CONNECTION_CLOSE
// bypass the check, since congestion control never holds those back. If
// the delegate declines, it returns ok=false without flushing or adding
// anything (spec section 4.3, consume_retransmittable_control_frame).
func (a *Assembler) addRetransmittableControlFrame(level protocol.EncryptionLevel, f wire.Frame, txType protocol.TransmissionType) (bool, error) {
	ctx := a.context(level)

	needed := f.Length(a.version)
	if back := ctx.back(); back != nil {
		needed += frameExpansion(back.Frame, a.version)
	}

	if !ctx.budget.FitOrClearSoft(needed) {
		if !a.delegate.ShouldGeneratePacket(true, level == protocol.EncryptionInitial || level == protocol.EncryptionHandshake) && !bypassesShouldGeneratePacket(f) {
			return false, nil
		}
		if _, err := a.FlushCurrentPacket(level); err != nil {
			return false, err
		}
		ctx = a.context(level)
		if !ctx.budget.FitOrClearSoft(needed) {
			return false, &qerr.FailedToSerializePacketError{Reason: "frame does not fit in an empty packet"}
		}
	}

	ctx.addFrame(f, true, true, txType)
	ctx.budget.Add(needed)
	if a.logger != nil {
		wire.LogFrame(a.logger, f, true)
	}
	return true, nil
}

// FlushCurrentPacket seals whatever has accumulated at level and hands it
// to the delegate. An empty packet with no pending padding is a no-op
// (spec section 8, idempotence).
func (a *Assembler) FlushCurrentPacket(level protocol.EncryptionLevel) (*SerializedPacket, error) {
	ctx := a.context(level)
	if ctx.IsEmpty() {
		return nil, nil
	}

	idx := levelIndex(level)
	ctx.packetNumber = a.nextPacketNumber[idx]
	ctx.packetNumberLen = protocol.PacketNumberLengthForHeader(ctx.packetNumber, ctx.largestAcked)

	s := &Serializer{assembler: a}
	var flusher Flusher
	pkt, err := flusher.Flush(ctx, func(ctx *packetContext) (*SerializedPacket, error) {
		return s.serialize(ctx, a.maxPacketLength)
	})
	if err != nil {
		a.delegate.OnUnrecoverableError(err)
		if a.tracer != nil {
			trigger := "internal_error"
			if _, ok := err.(*qerr.MissingEncryptionKeysError); ok {
				trigger = "key_unavailable"
			}
			a.tracer.OnPacketDropped(qlogPacketType(level), trigger)
		}
		return nil, err
	}

	a.nextPacketNumber[idx] = ctx.packetNumber + 1

	pkt.Fate = a.delegate.GetSerializedPacketFate(pkt.IsPathMTUProbePacket, level)
	a.delegate.OnSerializedPacket(pkt)
	if a.metrics != nil {
		a.metrics.packetsSerialized.Inc()
		a.metrics.bytesEmitted.Add(float64(pkt.Length()))
		a.metrics.packetSize.Observe(float64(pkt.Length()))
	}
	if a.tracer != nil {
		a.tracer.OnPacketSent(qlogPacketType(level), pkt.PacketNumber, pkt.Length(), pkt.TransmissionType.String(), false)
	}
	return pkt, nil
}
