package utils

import "crypto/rand"

// RandomBit returns a cryptographically random single bit, used as a
// fallback source of randomness by packages that don't carry the session's
// RandomSource (spec §6's "Randomness source").
func RandomBit() (bool, error) {
	b := make([]byte, 1)
	if _, err := rand.Read(b); err != nil {
		return false, err
	}
	return b[0]&1 == 1, nil
}
