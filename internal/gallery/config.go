package gallery

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// Config holds every tunable of the simulation. DefaultConfig returns the reference values.
type Config struct {
	Width, Height float64

	TickRate   int // simulated ticks per second
	MaxCatchUp int // ticks run per Advance before dropping the backlog

	SpawnChance float64 // per tick
	SpawnMargin float64 // vertical margin for spawn positions
	ExitMargin  float64 // distance past the far edge before a target is dropped
	SpawnBias   float64 // amplitude of the sinusoidal vy at spawn
	Wobble      float64 // amplitude of the per-tick vertical wiggle
	Tiers       []TierSpec

	ProjectileSpeed  float64
	HitRadiusDivisor float64
	CritChance       float64
	CritMultiplier   int
	ReferenceUnit    int64 // smallest stake; payouts scale by cost / ReferenceUnit

	Sparks          int
	SparkSpeed      float64
	SparkLife       int
	SparkLifeJitter int
	TextLife        int
	TextRise        float64

	ApexPity       int     // guaranteed apex on this spawn count; 0 disables
	ApexSoftStart  int     // spawn count where the apex chance starts ramping; 0 disables
	ApexSoftTarget float64 // apex chance reached right before the pity
	ApexSoftEasing string

	JackpotRate float64 // fraction of each stake tracked into the jackpot pool
}

const (
	ColorHit    = "#FFFF00"
	ColorKill   = "#00FF00"
	ColorReward = "#FFD700"
)

func DefaultConfig() Config {
	return Config{
		Width:            1280,
		Height:           720,
		TickRate:         60,
		MaxCatchUp:       5,
		SpawnChance:      0.03,
		SpawnMargin:      50,
		ExitMargin:       100,
		SpawnBias:        0.5,
		Wobble:           0.5,
		Tiers:            DefaultTiers(),
		ProjectileSpeed:  15,
		HitRadiusDivisor: 1.5,
		CritChance:       0.1,
		CritMultiplier:   2,
		ReferenceUnit:    10,
		Sparks:           8,
		SparkSpeed:       3,
		SparkLife:        20,
		SparkLifeJitter:  10,
		TextLife:         60,
		TextRise:         1,
	}
}

// TickDuration is the simulated length of one tick.
func (c Config) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// Turret is the fixed firing anchor at the bottom center of the field.
func (c Config) Turret() (x, y float64) {
	return c.Width / 2, c.Height
}

// Spec returns the stat profile of t.
func (c Config) Spec(t Tier) (TierSpec, bool) {
	for _, s := range c.Tiers {
		if s.Tier == t {
			return s, true
		}
	}
	return TierSpec{}, false
}

// Check rejects configurations the engine cannot run with.
func (c Config) Check() error {
	switch {
	case !(c.Width > 0) || !(c.Height > 0):
		return errors.New("field dimensions must be > 0")
	case c.SpawnChance < 0 || c.SpawnChance > 1 || math.IsNaN(c.SpawnChance):
		return errors.New("spawn chance must be in [0,1]")
	case c.CritChance < 0 || c.CritChance > 1 || math.IsNaN(c.CritChance):
		return errors.New("crit chance must be in [0,1]")
	case c.CritMultiplier < 1:
		return errors.New("crit multiplier must be >= 1")
	case !(c.ProjectileSpeed > 0):
		return errors.New("projectile speed must be > 0")
	case !(c.HitRadiusDivisor > 0):
		return errors.New("hit radius divisor must be > 0")
	case c.ReferenceUnit <= 0:
		return errors.New("reference unit must be > 0")
	case len(c.Tiers) == 0:
		return errors.New("at least one tier is required")
	case c.JackpotRate < 0 || c.JackpotRate > 1:
		return errors.New("jackpot rate must be in [0,1]")
	case c.Sparks < 0 || c.SparkLifeJitter < 0:
		return errors.New("sparks and spark life jitter must be >= 0")
	case c.SparkLife <= 0 || c.TextLife <= 0:
		return errors.New("spark and text lifetimes must be >= 1")
	case !(c.SparkSpeed >= 0) || !(c.TextRise >= 0):
		return errors.New("spark speed and text rise must be >= 0")
	}
	seen := map[Tier]bool{}
	for _, s := range c.Tiers {
		if seen[s.Tier] {
			return errors.Errorf("tier %s listed twice", s.Tier)
		}
		seen[s.Tier] = true
		if s.HP <= 0 || s.Reward <= 0 || !(s.Size > 0) || !(s.Weight > 0) {
			return errors.Errorf("tier %s: weight, hp, reward and size must be > 0", s.Tier)
		}
	}
	return nil
}
