package gacha

import (
	"math"

	"github.com/pkg/errors"
)

var ErrInvalidWeight = errors.New("invalid weight; must be finite and > 0")

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

func validateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return ErrInvalidWeight
	}
	return nil
}
