package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/gallery"
)

// ValidateRaw checks semantic constraints of a RawConfig and reports all of them at once.
func ValidateRaw(cfg RawConfig) error {
	var errs []string
	positive := func(name string, v *float64) {
		if v != nil && !(*v > 0) {
			errs = append(errs, name+" must be > 0")
		}
	}
	unit := func(name string, v *float64) {
		if v != nil && !(*v >= 0 && *v <= 1) {
			errs = append(errs, name+" must be in [0,1]")
		}
	}

	// field
	positive("field.width", cfg.Field.Width)
	positive("field.height", cfg.Field.Height)
	if cfg.Field.TickRate != nil && *cfg.Field.TickRate <= 0 {
		errs = append(errs, "field.tick_rate must be >= 1")
	}
	if cfg.Field.MaxCatchUp != nil && *cfg.Field.MaxCatchUp <= 0 {
		errs = append(errs, "field.max_catch_up must be >= 1")
	}

	// spawn
	unit("spawn.chance", cfg.Spawn.Chance)
	if cfg.Spawn.Margin != nil && *cfg.Spawn.Margin < 0 {
		errs = append(errs, "spawn.margin must be >= 0")
	}
	if cfg.Spawn.Margin != nil && cfg.Field.Height != nil && 2*(*cfg.Spawn.Margin) >= *cfg.Field.Height {
		errs = append(errs, "spawn.margin must leave room inside field.height")
	}

	// tiers
	for name, t := range cfg.Tiers {
		if _, err := gallery.ParseTier(name); err != nil {
			errs = append(errs, fmt.Sprintf("tiers.%s: unknown tier", name))
			continue
		}
		if t == nil {
			continue
		}
		positive("tiers."+name+".weight", t.Weight)
		positive("tiers."+name+".size", t.Size)
		if t.HP != nil && *t.HP <= 0 {
			errs = append(errs, fmt.Sprintf("tiers.%s.hp must be >= 1", name))
		}
		if t.Reward != nil && *t.Reward <= 0 {
			errs = append(errs, fmt.Sprintf("tiers.%s.reward must be >= 1", name))
		}
		if t.Speed != nil && *t.Speed < 0 {
			errs = append(errs, fmt.Sprintf("tiers.%s.speed must be >= 0", name))
		}
	}

	// combat
	positive("combat.projectile_speed", cfg.Combat.ProjectileSpeed)
	positive("combat.hit_radius_divisor", cfg.Combat.HitRadiusDivisor)
	unit("combat.crit_chance", cfg.Combat.CritChance)
	if cfg.Combat.CritMultiplier != nil && *cfg.Combat.CritMultiplier < 1 {
		errs = append(errs, "combat.crit_multiplier must be >= 1")
	}

	// feedback
	nonNegative := func(name string, v *int) {
		if v != nil && *v < 0 {
			errs = append(errs, name+" must be >= 0")
		}
	}
	nonNegative("feedback.sparks", cfg.Feedback.Sparks)
	nonNegative("feedback.spark_life_jitter", cfg.Feedback.SparkLifeJitter)
	if cfg.Feedback.SparkLife != nil && *cfg.Feedback.SparkLife <= 0 {
		errs = append(errs, "feedback.spark_life must be >= 1")
	}
	if cfg.Feedback.TextLife != nil && *cfg.Feedback.TextLife <= 0 {
		errs = append(errs, "feedback.text_life must be >= 1")
	}
	if v := cfg.Feedback.SparkSpeed; v != nil && !(*v >= 0) {
		errs = append(errs, "feedback.spark_speed must be >= 0")
	}
	if v := cfg.Feedback.TextRise; v != nil && !(*v >= 0) {
		errs = append(errs, "feedback.text_rise must be >= 0")
	}

	// apex pity (optional)
	if cfg.Apex != nil {
		if cfg.Apex.Pity != nil && *cfg.Apex.Pity < 0 {
			errs = append(errs, "apex.pity must be >= 0 (0 disables)")
		}
		if s := cfg.Apex.Soft; s != nil {
			if cfg.Apex.Pity == nil || *cfg.Apex.Pity == 0 {
				errs = append(errs, "apex.soft requires apex.pity")
			} else if s.StartAt != nil && (*s.StartAt < 0 || *s.StartAt >= *cfg.Apex.Pity) {
				errs = append(errs, "apex.soft.start_at must satisfy 0 <= start_at < pity")
			}
			if s.Target != nil && !(*s.Target > 0 && *s.Target < 1) {
				errs = append(errs, "apex.soft.target must be in (0,1)")
			}
			switch gacha.Easing(s.Easing) {
			case "", gacha.EaseLinear, gacha.EaseOutQuad, gacha.EaseInOutCubic:
			default:
				errs = append(errs, "apex.soft.easing must be one of: linear, easeOutQuad, easeInOutCubic")
			}
		}
	}

	// wager (optional)
	if cfg.Wager != nil {
		for i, s := range cfg.Wager.Stakes {
			if s <= 0 || (i > 0 && s <= cfg.Wager.Stakes[i-1]) {
				errs = append(errs, fmt.Sprintf("wager.stakes[%d] must be > 0 and above the previous rung", i))
			}
		}
		if cfg.Wager.StartBalance != nil && *cfg.Wager.StartBalance < 0 {
			errs = append(errs, "wager.start_balance must be >= 0")
		}
		if cfg.Wager.TopUp != nil && *cfg.Wager.TopUp < 0 {
			errs = append(errs, "wager.top_up must be >= 0")
		}
	}

	// jackpot (optional)
	if cfg.Jackpot != nil {
		if cfg.Jackpot.Seed != nil && *cfg.Jackpot.Seed < 0 {
			errs = append(errs, "jackpot.seed must be >= 0")
		}
		unit("jackpot.rate", cfg.Jackpot.Rate)
	}

	if len(errs) > 0 {
		return errors.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
