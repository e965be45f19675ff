package wire

import (
	"bytes"

	"github.com/quicforge/quicpacker/internal/protocol"
	"github.com/quicforge/quicpacker/internal/utils"
)

// A DataBlockedFrame tells the peer we have connection-level data to send
// but are blocked by its MAX_DATA limit (RFC 9000 section 19.12).
type DataBlockedFrame struct {
	MaximumData protocol.ByteCount
}

func (f *DataBlockedFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(DataBlockedFrameType))
	utils.WriteVarInt(b, uint64(f.MaximumData))
	return nil
}

// Length of a written frame.
func (f *DataBlockedFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.MaximumData)))
}

// A StreamDataBlockedFrame is the per-stream counterpart of DataBlockedFrame
// (RFC 9000 section 19.13).
type StreamDataBlockedFrame struct {
	StreamID          protocol.StreamID
	MaximumStreamData protocol.ByteCount
}

func (f *StreamDataBlockedFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(byte(StreamDataBlockedFrameType))
	utils.WriteVarInt(b, uint64(f.StreamID))
	utils.WriteVarInt(b, uint64(f.MaximumStreamData))
	return nil
}

// Length of a written frame.
func (f *StreamDataBlockedFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(uint64(f.StreamID))) + protocol.ByteCount(utils.VarIntLen(uint64(f.MaximumStreamData)))
}

// A StreamsBlockedFrame tells the peer we'd open more streams of Type but
// are blocked by its stream-count limit (RFC 9000 section 19.14).
type StreamsBlockedFrame struct {
	Type        protocol.StreamType
	StreamLimit uint64
}

func (f *StreamsBlockedFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	switch f.Type {
	case protocol.StreamTypeBidi:
		b.WriteByte(byte(StreamsBlockedBidiFrameType))
	case protocol.StreamTypeUni:
		b.WriteByte(byte(StreamsBlockedUniFrameType))
	}
	utils.WriteVarInt(b, f.StreamLimit)
	return nil
}

// Length of a written frame.
func (f *StreamsBlockedFrame) Length(protocol.VersionNumber) protocol.ByteCount {
	return 1 + protocol.ByteCount(utils.VarIntLen(f.StreamLimit))
}
