package gacha

import "github.com/pkg/errors"

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// Draw is one Bernoulli trial with success probability p.
// p <= 0 never hits, p >= 1 always hits, anything between compares rng.Float64() < p.
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// Chance is Draw for probabilities already validated by config; invalid p counts as a miss.
func Chance(p float64, rng RandomSource) bool {
	hit, err := Draw(p, rng)
	return err == nil && hit
}
