// Package testaead provides a real AEAD implementation for exercising the
// serializer's sealing path in tests, grounded the same way quic-go's own
// internal/handshake sealer wraps a cipher.AEAD: one key and IV per
// encryption level, with the packet number XORed into the IV to build each
// packet's nonce.
package testaead

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/quicforge/quicpacker/internal/protocol"
)

type levelKeys struct {
	aead cipher.AEAD
	iv   []byte
}

// Sealer implements the core's AEADSealer interface with ChaCha20-Poly1305
// over one independent key per encryption level. Levels with no installed
// key report EncryptInPlace as 0, matching the MissingEncryptionKeysError
// path a real connection hits before a handshake completes.
type Sealer struct {
	levels [4]*levelKeys
}

// NewSealer builds a Sealer with no keys installed. Call InstallKey for
// each level the test needs to actually encrypt.
func NewSealer() *Sealer {
	return &Sealer{}
}

// InstallKey generates a fresh random key and IV for level. Returns the
// Sealer so calls can be chained while building up a test fixture.
func (s *Sealer) InstallKey(level protocol.EncryptionLevel) *Sealer {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	iv := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(iv); err != nil {
		panic(err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		panic(err)
	}
	s.levels[level-1] = &levelKeys{aead: aead, iv: iv}
	return s
}

// DropKey removes the key installed for level, if any, so callers can
// exercise the MissingEncryptionKeysError path after a key rotation.
func (s *Sealer) DropKey(level protocol.EncryptionLevel) {
	s.levels[level-1] = nil
}

func (s *Sealer) nonce(level protocol.EncryptionLevel, pn protocol.PacketNumber) []byte {
	k := s.levels[level-1]
	nonce := make([]byte, len(k.iv))
	copy(nonce, k.iv)
	var pnBytes [8]byte
	binary.BigEndian.PutUint64(pnBytes[:], uint64(pn))
	offset := len(nonce) - 8
	for i := 0; i < 8; i++ {
		nonce[offset+i] ^= pnBytes[i]
	}
	return nonce
}

// EncryptInPlace implements quicpacker.AEADSealer.
func (s *Sealer) EncryptInPlace(level protocol.EncryptionLevel, pn protocol.PacketNumber, associatedDataStart, plaintextLen int, buf []byte) int {
	k := s.levels[level-1]
	if k == nil {
		return 0
	}
	payloadStart := len(buf) - plaintextLen
	aad := buf[associatedDataStart:payloadStart]
	plaintext := buf[payloadStart : payloadStart+plaintextLen]
	sealed := k.aead.Seal(plaintext[:0], s.nonce(level, pn), plaintext, aad)
	return len(sealed)
}
