package config

import (
	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/wager"
)

// Settings is a validated, fully defaulted tuning: the engine config plus the
// economy a session is opened with.
type Settings struct {
	Version      string
	Engine       gallery.Config
	Stakes       []int64
	StartBalance int64
	TopUp        int64
	JackpotSeed  int64
	JackpotRate  float64
}

const (
	// DefaultStartBalance is the purse a session opens with when nothing configures it.
	DefaultStartBalance int64 = 10000
	DefaultTopUp        int64 = 5000
)

// DefaultSettings is the reference tuning with no files involved.
func DefaultSettings() Settings {
	return Settings{
		Engine:       gallery.DefaultConfig(),
		Stakes:       append([]int64(nil), wager.DefaultStakes...),
		StartBalance: DefaultStartBalance,
		TopUp:        DefaultTopUp,
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Resolve applies everything cfg sets on top of DefaultSettings.
func Resolve(cfg RawConfig) (Settings, error) {
	s := DefaultSettings()
	s.Version = cfg.Version
	e := &s.Engine

	set(&e.Width, cfg.Field.Width)
	set(&e.Height, cfg.Field.Height)
	set(&e.TickRate, cfg.Field.TickRate)
	set(&e.MaxCatchUp, cfg.Field.MaxCatchUp)

	set(&e.SpawnChance, cfg.Spawn.Chance)
	set(&e.SpawnMargin, cfg.Spawn.Margin)
	set(&e.ExitMargin, cfg.Spawn.ExitMargin)
	set(&e.SpawnBias, cfg.Spawn.Bias)
	set(&e.Wobble, cfg.Spawn.Wobble)

	for name, t := range cfg.Tiers {
		tier, err := gallery.ParseTier(name)
		if err != nil {
			return Settings{}, errors.Wrap(err, "tiers")
		}
		if t == nil {
			continue
		}
		for i := range e.Tiers {
			if e.Tiers[i].Tier != tier {
				continue
			}
			ts := &e.Tiers[i]
			set(&ts.Weight, t.Weight)
			set(&ts.HP, t.HP)
			set(&ts.Reward, t.Reward)
			set(&ts.Size, t.Size)
			set(&ts.Speed, t.Speed)
			set(&ts.SpeedJitter, t.SpeedJitter)
		}
	}

	set(&e.ProjectileSpeed, cfg.Combat.ProjectileSpeed)
	set(&e.HitRadiusDivisor, cfg.Combat.HitRadiusDivisor)
	set(&e.CritChance, cfg.Combat.CritChance)
	set(&e.CritMultiplier, cfg.Combat.CritMultiplier)

	set(&e.Sparks, cfg.Feedback.Sparks)
	set(&e.SparkSpeed, cfg.Feedback.SparkSpeed)
	set(&e.SparkLife, cfg.Feedback.SparkLife)
	set(&e.SparkLifeJitter, cfg.Feedback.SparkLifeJitter)
	set(&e.TextLife, cfg.Feedback.TextLife)
	set(&e.TextRise, cfg.Feedback.TextRise)

	if a := cfg.Apex; a != nil {
		set(&e.ApexPity, a.Pity)
		if a.Soft != nil {
			set(&e.ApexSoftStart, a.Soft.StartAt)
			set(&e.ApexSoftTarget, a.Soft.Target)
			e.ApexSoftEasing = a.Soft.Easing
			if e.ApexSoftEasing == "" {
				e.ApexSoftEasing = string(gacha.EaseLinear)
			}
		}
	}

	if w := cfg.Wager; w != nil {
		if len(w.Stakes) > 0 {
			s.Stakes = append([]int64(nil), w.Stakes...)
		}
		set(&s.StartBalance, w.StartBalance)
		set(&s.TopUp, w.TopUp)
	}
	if _, err := wager.NewLadder(s.Stakes); err != nil {
		return Settings{}, err
	}
	e.ReferenceUnit = s.Stakes[0]

	if j := cfg.Jackpot; j != nil {
		set(&s.JackpotSeed, j.Seed)
		set(&s.JackpotRate, j.Rate)
		e.JackpotRate = s.JackpotRate
	}

	if err := e.Check(); err != nil {
		return Settings{}, errors.Wrap(err, "resolved config")
	}
	return s, nil
}
