package wire

import (
	"bytes"
	"fmt"
	"time"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/qerr"
	"github.com/quicforge/quicpacker/internal/utils"
)

// ParseNextFrame reads one frame from r, dispatching on its type byte. This
// core never needs to parse frames in production — it only ever writes
// them — but round-trip tests use this as the independent "other side" of
// the codec, the way the teacher's own frame_parser.go did for the full
// protocol stack.
func ParseNextFrame(r *bytes.Reader, version protocol.VersionNumber) (Frame, error) {
	typeByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if err := r.UnreadByte(); err != nil {
		return nil, err
	}

	if FrameType(typeByte).IsStreamFrameType() {
		return parseStreamFrame(r, version)
	}

	switch FrameType(typeByte) {
	case PaddingFrameType:
		r.ReadByte()
		return &PaddingFrame{}, nil
	case PingFrameType:
		r.ReadByte()
		return &PingFrame{}, nil
	case AckFrameType, AckECNFrameType:
		return parseAckFrame(r, typeByte == byte(AckECNFrameType))
	case CryptoFrameType:
		return parseCryptoFrame(r)
	case ResetStreamFrameType:
		return parseResetStreamFrame(r)
	case StopSendingFrameType:
		return parseStopSendingFrame(r)
	case MaxDataFrameType:
		r.ReadByte()
		v, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &MaxDataFrame{MaximumData: protocol.ByteCount(v)}, nil
	case MaxStreamDataFrameType:
		r.ReadByte()
		sid, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		v, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &MaxStreamDataFrame{StreamID: protocol.StreamID(sid), MaximumStreamData: protocol.ByteCount(v)}, nil
	case MaxStreamsBidiFrameType, MaxStreamsUniFrameType:
		st := protocol.StreamTypeBidi
		if FrameType(typeByte) == MaxStreamsUniFrameType {
			st = protocol.StreamTypeUni
		}
		r.ReadByte()
		v, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &MaxStreamsFrame{Type: st, MaxStreams: v}, nil
	case DataBlockedFrameType:
		r.ReadByte()
		v, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &DataBlockedFrame{MaximumData: protocol.ByteCount(v)}, nil
	case StreamDataBlockedFrameType:
		r.ReadByte()
		sid, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		v, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &StreamDataBlockedFrame{StreamID: protocol.StreamID(sid), MaximumStreamData: protocol.ByteCount(v)}, nil
	case StreamsBlockedBidiFrameType, StreamsBlockedUniFrameType:
		st := protocol.StreamTypeBidi
		if FrameType(typeByte) == StreamsBlockedUniFrameType {
			st = protocol.StreamTypeUni
		}
		r.ReadByte()
		v, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &StreamsBlockedFrame{Type: st, StreamLimit: v}, nil
	case NewConnectionIDFrameType:
		return parseNewConnectionIDFrame(r)
	case RetireConnectionIDFrameType:
		r.ReadByte()
		v, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &RetireConnectionIDFrame{SequenceNumber: v}, nil
	case PathChallengeFrameType:
		r.ReadByte()
		var data [8]byte
		if _, err := r.Read(data[:]); err != nil {
			return nil, err
		}
		return &PathChallengeFrame{Data: data}, nil
	case PathResponseFrameType:
		r.ReadByte()
		var data [8]byte
		if _, err := r.Read(data[:]); err != nil {
			return nil, err
		}
		return &PathResponseFrame{Data: data}, nil
	case ConnectionCloseFrameType, ApplicationCloseFrameType:
		return parseConnectionCloseFrame(r, typeByte == byte(ApplicationCloseFrameType))
	case HandshakeDoneFrameType:
		r.ReadByte()
		return &HandshakeDoneFrame{}, nil
	case DatagramNoLengthFrameType, DatagramWithLengthFrameType:
		return parseDatagramFrame(r, typeByte == byte(DatagramWithLengthFrameType))
	default:
		return nil, fmt.Errorf("wire: unknown frame type %#x", typeByte)
	}
}

func parseStreamFrame(r *bytes.Reader, version protocol.VersionNumber) (*StreamFrame, error) {
	typeByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	f := &StreamFrame{}
	hasOffset := typeByte&0x04 != 0
	f.DataLenPresent = typeByte&0x02 != 0
	f.Fin = typeByte&0x01 != 0

	sid, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	f.StreamID = protocol.StreamID(sid)

	if hasOffset {
		off, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		f.Offset = protocol.ByteCount(off)
	}

	var length uint64
	if f.DataLenPresent {
		length, err = utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
	} else {
		length = uint64(r.Len())
	}
	data := make([]byte, length)
	if _, err := r.Read(data); err != nil {
		return nil, err
	}
	f.Data = data
	return f, nil
}

func parseCryptoFrame(r *bytes.Reader) (*CryptoFrame, error) {
	r.ReadByte()
	off, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	length, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if _, err := r.Read(data); err != nil {
		return nil, err
	}
	return &CryptoFrame{Offset: protocol.ByteCount(off), Data: data}, nil
}

func parseResetStreamFrame(r *bytes.Reader) (*ResetStreamFrame, error) {
	r.ReadByte()
	sid, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	ec, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	fs, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &ResetStreamFrame{StreamID: protocol.StreamID(sid), ErrorCode: qerr.ErrorCode(ec), FinalSize: protocol.ByteCount(fs)}, nil
}

func parseStopSendingFrame(r *bytes.Reader) (*StopSendingFrame, error) {
	r.ReadByte()
	sid, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	ec, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &StopSendingFrame{StreamID: protocol.StreamID(sid), ErrorCode: qerr.ErrorCode(ec)}, nil
}

func parseNewConnectionIDFrame(r *bytes.Reader) (*NewConnectionIDFrame, error) {
	r.ReadByte()
	seq, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	retire, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	cidLen, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	cid := make([]byte, cidLen)
	if _, err := r.Read(cid); err != nil {
		return nil, err
	}
	var token [16]byte
	if _, err := r.Read(token[:]); err != nil {
		return nil, err
	}
	return &NewConnectionIDFrame{
		SequenceNumber:      seq,
		RetirePriorTo:       retire,
		ConnectionID:        protocol.ParseConnectionID(cid),
		StatelessResetToken: token,
	}, nil
}

func parseConnectionCloseFrame(r *bytes.Reader, isApp bool) (*ConnectionCloseFrame, error) {
	r.ReadByte()
	ec, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	f := &ConnectionCloseFrame{IsApplicationError: isApp, ErrorCode: qerr.ErrorCode(ec)}
	if !isApp {
		ft, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		f.FrameType = ft
	}
	reasonLen, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	reason := make([]byte, reasonLen)
	if _, err := r.Read(reason); err != nil {
		return nil, err
	}
	f.ReasonPhrase = string(reason)
	return f, nil
}

func parseDatagramFrame(r *bytes.Reader, hasLen bool) (*DatagramFrame, error) {
	r.ReadByte()
	f := &DatagramFrame{DataLenPresent: hasLen}
	var length uint64
	if hasLen {
		var err error
		length, err = utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
	} else {
		length = uint64(r.Len())
	}
	data := make([]byte, length)
	if _, err := r.Read(data); err != nil {
		return nil, err
	}
	f.Data = data
	return f, nil
}

func parseAckFrame(r *bytes.Reader, hasECN bool) (*AckFrame, error) {
	r.ReadByte()
	largest, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	delay, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	numRanges, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	firstRangeLen, err := utils.ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	f := GetAckFrame()
	f.DelayTime = time.Duration(delay<<ackDelayExponent) * time.Microsecond
	last := protocol.PacketNumber(largest)
	first := last - protocol.PacketNumber(firstRangeLen)
	f.AckRanges = append(f.AckRanges, AckRange{FirstPacketNumber: first, LastPacketNumber: last})

	for i := uint64(0); i < numRanges; i++ {
		gap, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		rangeLen, err := utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		last = first - protocol.PacketNumber(gap) - 2
		first = last - protocol.PacketNumber(rangeLen)
		f.AckRanges = append(f.AckRanges, AckRange{FirstPacketNumber: first, LastPacketNumber: last})
	}

	if hasECN {
		f.ECNPresent = true
		f.ECT0, err = utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		f.ECT1, err = utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		f.ECNCE, err = utils.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}
