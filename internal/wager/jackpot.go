package wager

import (
	"math"
	"sync"
)

// Jackpot is a progressive pool fed by a fraction of every stake and paid out whole
// on an apex kill. The contribution is bookkeeping; it is not taken from the balance.
type Jackpot struct {
	mu   sync.Mutex
	seed int64
	rate float64
	pool int64
}

// NewJackpot returns nil when both seed and rate are zero, which disables the pool.
func NewJackpot(seed int64, rate float64) *Jackpot {
	if seed <= 0 && rate <= 0 {
		return nil
	}
	return &Jackpot{seed: seed, rate: rate, pool: seed}
}

// Contribute tracks floor(stake*rate) into the pool.
func (j *Jackpot) Contribute(stake int64) {
	if j == nil || j.rate <= 0 {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pool += int64(math.Floor(float64(stake) * j.rate))
}

// Claim returns the pool and resets it to the seed.
func (j *Jackpot) Claim() int64 {
	if j == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	won := j.pool
	j.pool = j.seed
	return won
}

func (j *Jackpot) Value() int64 {
	if j == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pool
}
