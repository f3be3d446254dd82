package gacha

// PitySystem is a hard pity counter: once Streak+1 reaches Pity, the next draw hits.
type PitySystem struct {
	Pity   int // guaranteed hit on this draw index; <= 0 disables pity
	Streak int // misses since the last hit
	RNG    RandomSource
}

func NewPitySystem(pity int, rng RandomSource) *PitySystem {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &PitySystem{Pity: pity, RNG: rng}
}

// Due reports whether the next draw is forced.
func (ps *PitySystem) Due() bool {
	return ps.Pity > 0 && ps.Streak+1 >= ps.Pity
}

// Draw rolls with probability p, honoring the pity threshold.
// Streak resets on a hit and grows on a miss.
func (ps *PitySystem) Draw(p float64) (bool, error) {
	if ps.Pity <= 0 {
		return Draw(p, ps.RNG)
	}
	if ps.Due() {
		ps.Streak = 0
		return true, nil
	}
	hit, err := Draw(p, ps.RNG)
	if err != nil {
		return false, err
	}
	ps.record(hit)
	return hit, nil
}

func (ps *PitySystem) record(hit bool) {
	if hit {
		ps.Streak = 0
	} else {
		ps.Streak++
	}
}
