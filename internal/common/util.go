package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandByteArray returns size bytes from crypto/rand. It panics if the
// system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandHexString returns 2*size hex characters encoding size random bytes.
// bookctl keygen uses it for token signing keys.
func MakeRandHexString(size int) (string, error) {
	if size <= 0 {
		return "", nil
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes b in place. Password buffers are wiped with it once
// the key derivation is done. Nil is a no-op.
func WipeByteArray(b []byte) {
	clear(b)
}
