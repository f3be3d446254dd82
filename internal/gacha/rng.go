package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// cryptoRNG is the production source; it falls back to math/rand/v2 if the OS pool fails.
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	// top 53 bits fill the mantissa exactly
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// seededRNG is replayable: same seed, same session.
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// Uniform returns a value in [lo, hi).
func Uniform(rng RandomSource, lo, hi float64) float64 {
	if rng == nil {
		rng = DefaultRNG()
	}
	return lo + rng.Float64()*(hi-lo)
}

// Intn returns an int in [0, n). n <= 0 yields 0.
func Intn(rng RandomSource, n int) int {
	if n <= 0 {
		return 0
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
