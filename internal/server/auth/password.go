package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"runtime"
	"strings"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/semaphore"
)

// KDF parameters. Changing any of them invalidates every stored secret.
const (
	SaltLength      = 16
	KeyLength       = 32
	Iterations      = 10000
	SecretDelimiter = ":"
)

// Hasher derives salted PBKDF2-HMAC-SHA256 hashes and verifies passwords
// against them. It is safe for concurrent use; the number of derivations
// running at once is capped so a burst of logins cannot starve the process.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher returns a Hasher allowing at most concurrency parallel
// derivations. Values below 1 mean runtime.GOMAXPROCS(0).
func NewHasher(concurrency int) *Hasher {
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Hasher{sem: semaphore.NewWeighted(int64(concurrency))}
}

// Hash returns base64(salt) + ":" + base64(hash) for plaintext using a fresh
// random salt.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(SaltLength)

	key, err := h.derive(ctx, plaintext, salt)
	if err != nil {
		return "", err
	}

	b64 := base64.StdEncoding
	return b64.EncodeToString(salt) + SecretDelimiter + b64.EncodeToString(key), nil
}

// Verify reports whether plaintext matches storedSecret.
// A storedSecret that does not decode into two non-empty segments yields
// (false, common.ErrMalformedStoredSecret). A cancelled context while waiting
// for a derivation slot yields (false, ctx.Err()).
func (h *Hasher) Verify(ctx context.Context, storedSecret, plaintext string) (bool, error) {
	salt, expected, err := decodeSecret(storedSecret)
	if err != nil {
		return false, err
	}

	key, err := h.derive(ctx, plaintext, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

func (h *Hasher) derive(ctx context.Context, plaintext string, salt []byte) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer h.sem.Release(1)

	pw := []byte(plaintext)
	defer common.WipeByteArray(pw)

	return pbkdf2.Key(pw, salt, Iterations, KeyLength, sha256.New), nil
}

func decodeSecret(storedSecret string) (salt, hash []byte, err error) {
	parts := strings.Split(storedSecret, SecretDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, common.ErrMalformedStoredSecret
	}

	b64 := base64.StdEncoding
	salt, err = b64.DecodeString(parts[0])
	if err != nil || len(salt) == 0 {
		return nil, nil, common.ErrMalformedStoredSecret
	}
	hash, err = b64.DecodeString(parts[1])
	if err != nil || len(hash) == 0 {
		return nil, nil, common.ErrMalformedStoredSecret
	}

	return salt, hash, nil
}
