package authenticity

import (
	"math"
	"math/rand/v2"
	"sync"
)

// MaxNoise is the exclusive upper bound of the uncertainty term.
const MaxNoise = 0.1

// NoiseSource supplies the bounded uncertainty term added to every score.
// Implementations must be safe for concurrent use.
type NoiseSource interface {
	Noise() float64
}

// NoiseFunc adapts a function to NoiseSource.
type NoiseFunc func() float64

// Noise implements NoiseSource.
func (f NoiseFunc) Noise() float64 { return f() }

// ZeroNoise always returns 0. It is the default and keeps evaluation fully
// deterministic.
type ZeroNoise struct{}

// Noise implements NoiseSource.
func (ZeroNoise) Noise() float64 { return 0 }

// FixedNoise always returns the same value.
type FixedNoise float64

// Noise implements NoiseSource.
func (f FixedNoise) Noise() float64 { return float64(f) }

// SequenceNoise replays a fixed sequence of values, cycling when exhausted.
type SequenceNoise struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceNoise creates a source that yields values in order.
func NewSequenceNoise(values ...float64) *SequenceNoise {
	return &SequenceNoise{values: values}
}

// Noise implements NoiseSource.
func (s *SequenceNoise) Noise() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// SeededNoise draws uniformly from [0, MaxNoise) using a seeded PCG generator.
// Two sources with the same seed produce the same sequence.
type SeededNoise struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededNoise creates a seeded noise source.
func NewSeededNoise(seed uint64) *SeededNoise {
	return &SeededNoise{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Noise implements NoiseSource.
func (s *SeededNoise) Noise() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * MaxNoise
}

// clampNoise forces v into [0, MaxNoise).
func clampNoise(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v >= MaxNoise:
		return math.Nextafter(MaxNoise, 0)
	default:
		return v
	}
}
