package rng

import (
	"fmt"
	"math/rand"
)

// Source yields uniform random integers for the weighted draw. The draw's
// fairness requirement is statistical uniformity, so a seeded math/rand source
// is acceptable in tests; production uses the AES-CTR CSPRNG.
type Source interface {
	IntN(n int) (int, error)
}

var defaultSource *CSPRNG

func init() {
	var err error
	defaultSource, err = NewCSPRNG()
	if err != nil {
		panic("rng: failed to initialize AES-CTR CSPRNG: " + err.Error())
	}
}

// Default returns the process-wide CSPRNG-backed source.
func Default() Source {
	return defaultSource
}

// SeededSource is a deterministic Source for reproducible draws in tests.
type SeededSource struct {
	r *rand.Rand
}

// NewSeeded returns a Source backed by math/rand with the given seed.
func NewSeeded(seed int64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewSource(seed))}
}

// IntN returns a uniform random int in [0, n).
func (s *SeededSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("rng: IntN called with n=%d", n)
	}
	return s.r.Intn(n), nil
}
