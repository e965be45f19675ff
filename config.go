package quicpacker

import (
	"errors"

	"github.com/quicforge/quicpacker/internal/protocol"
)

var errInvalidMaxDatagramFrameSize = errors.New("quicpacker: invalid value for Config.MaxDatagramFrameSize")

// Config carries this core's four tunables (spec section 6). Unlike the
// teacher's connection-level Config, none of these touch flow control,
// stream limits or timeouts — those belong to collaborators this core
// never sees.
type Config struct {
	// FullyPadCryptoHandshakePackets pads every packet carrying a CRYPTO
	// frame to the full MTU, hiding the handshake's size on the wire.
	FullyPadCryptoHandshakePackets bool

	// MaxDatagramFrameSize upper-bounds a DATAGRAM frame's payload so its
	// length field always fits the header budget the assembler assumes.
	MaxDatagramFrameSize protocol.ByteCount

	// LetConnectionHandlePings lets bare PING frames through without the
	// control-frame bookkeeping the assembler otherwise requires.
	LetConnectionHandlePings bool

	// EnforceSinglePacketCHLO aborts the connection (CryptoChloTooLargeError)
	// rather than splitting a ClientHello across more than one Initial
	// packet.
	EnforceSinglePacketCHLO bool
}

// Clone returns a shallow copy of c.
func (c *Config) Clone() *Config {
	copy := *c
	return &copy
}

func validateConfig(config *Config) error {
	if config == nil {
		return nil
	}
	if config.MaxDatagramFrameSize < 0 {
		return errInvalidMaxDatagramFrameSize
	}
	return nil
}

// populateConfig fills in defaults for every field a caller left zero. It
// may be called with nil.
func populateConfig(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}
	maxDatagramFrameSize := config.MaxDatagramFrameSize
	if maxDatagramFrameSize == 0 {
		maxDatagramFrameSize = protocol.MaxOutgoingPacketSize
	}
	return &Config{
		FullyPadCryptoHandshakePackets: config.FullyPadCryptoHandshakePackets,
		MaxDatagramFrameSize:           maxDatagramFrameSize,
		LetConnectionHandlePings:       config.LetConnectionHandlePings,
		EnforceSinglePacketCHLO:        config.EnforceSinglePacketCHLO,
	}
}
