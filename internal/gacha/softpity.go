package gacha

import "github.com/pkg/errors"

// Easing shapes the ramp between StartAt and the hard pity.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var ErrSoftPityConfig = errors.New("invalid soft pity config")

// SoftPityConfig ramps the hit probability from StartAt up to TargetProb at Pity-1.
// Pity=50, StartAt=40, TargetProb=0.3: draws 40..49 since the last hit climb to 0.3.
type SoftPityConfig struct {
	Pity       int
	StartAt    int
	TargetProb float64
	Easing     Easing
}

func (c *SoftPityConfig) normalize() error {
	if c.Pity <= 1 {
		return errors.Wrap(ErrSoftPityConfig, "pity must be > 1")
	}
	if c.TargetProb <= 0 || c.TargetProb >= 1 {
		return errors.Wrap(ErrSoftPityConfig, "target must be in (0,1)")
	}
	if c.StartAt < 0 {
		c.StartAt = 0
	}
	if c.StartAt >= c.Pity-1 {
		return errors.Wrap(ErrSoftPityConfig, "start_at leaves no room to ramp")
	}
	if c.Easing == "" {
		c.Easing = EaseLinear
	}
	return nil
}

// SoftPitySystem is a PitySystem with an optional ramp before the guarantee.
type SoftPitySystem struct {
	PitySystem
	Soft *SoftPityConfig
}

// NewSoftPitySystem returns a plain hard pity when soft is nil.
func NewSoftPitySystem(pity int, soft *SoftPityConfig, rng RandomSource) (*SoftPitySystem, error) {
	if rng == nil {
		rng = DefaultRNG()
	}
	if soft != nil {
		soft.Pity = pity
		if err := soft.normalize(); err != nil {
			return nil, err
		}
	}
	return &SoftPitySystem{PitySystem: PitySystem{Pity: pity, RNG: rng}, Soft: soft}, nil
}

// EffectiveProb is the probability the next draw would use for base probability pBase.
func (s *SoftPitySystem) EffectiveProb(pBase float64) float64 {
	if s.Due() {
		return 1
	}
	if s.Soft == nil || s.Streak < s.Soft.StartAt {
		return pBase
	}
	span := float64(s.Pity - 1 - s.Soft.StartAt)
	if span <= 0 {
		return pBase
	}
	t := clamp01(float64(s.Streak-s.Soft.StartAt) / span)
	switch s.Soft.Easing {
	case EaseOutQuad:
		t = 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			t = 4 * t * t * t
		} else {
			u := -2*t + 2
			t = 1 - u*u*u/2
		}
	}
	p := pBase + (s.Soft.TargetProb-pBase)*t
	if p < 0 {
		p = 0
	}
	// stay below 1 so only the hard pity guarantees
	if p > 0.999999999999 {
		p = 0.999999999999
	}
	return p
}

func (s *SoftPitySystem) Draw(pBase float64) (bool, error) {
	if s.Pity <= 0 {
		return Draw(pBase, s.RNG)
	}
	if s.Due() {
		s.Streak = 0
		return true, nil
	}
	hit, err := Draw(s.EffectiveProb(pBase), s.RNG)
	if err != nil {
		return false, err
	}
	s.record(hit)
	return hit, nil
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
