// internal/rng/csprng.go
package rng

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// CSPRNG uses AES-CTR under the hood. It is seeded once from crypto/rand.
type CSPRNG struct {
	mu     sync.Mutex
	block  cipher.Block
	stream cipher.Stream
}

// NewCSPRNG initializes an AES-CTR generator seeded from crypto/rand.
func NewCSPRNG() (*CSPRNG, error) {
	// 1) Generate a 256-bit AES key from crypto/rand
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("rng: failed to get seed from crypto/rand: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("rng: aes.NewCipher failed: %w", err)
	}

	// 2) Initialize counter to a random IV (128 bits)
	var iv [16]byte
	if _, err := io.ReadFull(rand.Reader, iv[:]); err != nil {
		return nil, fmt.Errorf("rng: failed to get IV from crypto/rand: %w", err)
	}

	return &CSPRNG{
		block:  block,
		stream: cipher.NewCTR(block, iv[:]),
	}, nil
}

// Read fills buf with cryptographically secure random bytes (AES-CTR output).
func (c *CSPRNG) Read(buf []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// buf is initially zero, so XORing the keystream in leaves pure keystream.
	c.stream.XORKeyStream(buf, buf)
	return len(buf), nil
}

// Uint64 returns a single 64-bit random word.
func (c *CSPRNG) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := c.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// IntN returns a uniform random int in [0, n). Rejection sampling avoids the
// modulo bias a bare `x % n` would introduce.
func (c *CSPRNG) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("rng: IntN called with n=%d", n)
	}
	max := uint64(n)
	// Largest multiple of n that fits in a uint64.
	limit := (^uint64(0) / max) * max
	for {
		v, err := c.Uint64()
		if err != nil {
			return 0, err
		}
		if v < limit {
			return int(v % max), nil
		}
	}
}
