package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// cryptoSource implements Source using crypto/rand. Not replayable.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
// Panics if n <= 0 or crypto/rand fails.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// SeededSource is a deterministic Source that counts its draws so that a
// battle can be snapshotted and replayed from the same point.
// It is not safe for concurrent use.
type SeededSource struct {
	seed int64
	rng  *mrand.Rand
	pos  int64
}

// NewSeededSource creates a deterministic Source from seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{seed: seed, rng: mrand.New(mrand.NewSource(seed))}
}

// RestoreSeededSource recreates the Source for seed advanced by position draws.
//
// Postcondition: the returned Source yields the same sequence the original
// produced after its position-th draw.
func RestoreSeededSource(seed, position int64) *SeededSource {
	s := NewSeededSource(seed)
	for s.pos < position {
		s.rng.Int63()
		s.pos++
	}
	return s
}

// Intn returns a deterministic int in [0, n). Panics if n <= 0.
func (s *SeededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.pos++
	// Int63 is drawn exactly once per call so RestoreSeededSource can skip ahead.
	return int(s.rng.Int63() % int64(n))
}

// Seed returns the seed the source was created with.
func (s *SeededSource) Seed() int64 { return s.seed }

// Position returns the number of draws made so far.
func (s *SeededSource) Position() int64 { return s.pos }

// Sequence is a scripted Source that returns queued values in order,
// reducing each modulo n. Once exhausted it returns 0.
// Used to force exact outcomes in tests and tutorials.
type Sequence struct {
	values []int
	next   int
}

// NewSequence creates a Sequence yielding values in order.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Intn returns the next queued value modulo n.
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	if s.next >= len(s.values) {
		return 0
	}
	v := s.values[s.next]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Remaining reports how many queued values have not been consumed.
func (s *Sequence) Remaining() int { return len(s.values) - s.next }
