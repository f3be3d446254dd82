// types.go
package config

// RawConfig mirrors the tuning YAML. Every scalar is a pointer so a profile can
// tell "not set" from zero and only override what it names.
type RawConfig struct {
	Version  string              `yaml:"version"`
	Field    FieldCfg            `yaml:"field"`
	Spawn    SpawnCfg            `yaml:"spawn"`
	Tiers    map[string]*TierCfg `yaml:"tiers,omitempty"`
	Combat   CombatCfg           `yaml:"combat"`
	Feedback FeedbackCfg         `yaml:"feedback"`
	Apex     *ApexCfg            `yaml:"apex,omitempty"`
	Wager    *WagerCfg           `yaml:"wager,omitempty"`
	Jackpot  *JackpotCfg         `yaml:"jackpot,omitempty"`
	Notes    string              `yaml:"notes,omitempty"`
}

type FieldCfg struct {
	Width      *float64 `yaml:"width"`
	Height     *float64 `yaml:"height"`
	TickRate   *int     `yaml:"tick_rate"`
	MaxCatchUp *int     `yaml:"max_catch_up"`
}

type SpawnCfg struct {
	Chance     *float64 `yaml:"chance"`
	Margin     *float64 `yaml:"margin"`
	ExitMargin *float64 `yaml:"exit_margin"`
	Bias       *float64 `yaml:"bias"`
	Wobble     *float64 `yaml:"wobble"`
}

type TierCfg struct {
	Weight      *float64 `yaml:"weight"`
	HP          *int     `yaml:"hp"`
	Reward      *int64   `yaml:"reward"`
	Size        *float64 `yaml:"size"`
	Speed       *float64 `yaml:"speed"`
	SpeedJitter *float64 `yaml:"speed_jitter,omitempty"`
}

type CombatCfg struct {
	ProjectileSpeed  *float64 `yaml:"projectile_speed"`
	HitRadiusDivisor *float64 `yaml:"hit_radius_divisor"`
	CritChance       *float64 `yaml:"crit_chance"`
	CritMultiplier   *int     `yaml:"crit_multiplier"`
}

type FeedbackCfg struct {
	Sparks          *int     `yaml:"sparks"`
	SparkSpeed      *float64 `yaml:"spark_speed"`
	SparkLife       *int     `yaml:"spark_life"`
	SparkLifeJitter *int     `yaml:"spark_life_jitter"`
	TextLife        *int     `yaml:"text_life"`
	TextRise        *float64 `yaml:"text_rise"`
}

type ApexCfg struct {
	Pity *int     `yaml:"pity"`
	Soft *SoftCfg `yaml:"soft,omitempty"`
}

type SoftCfg struct {
	StartAt *int     `yaml:"start_at,omitempty"`
	Target  *float64 `yaml:"target,omitempty"`
	Easing  string   `yaml:"easing,omitempty"`
}

type WagerCfg struct {
	Stakes       []int64 `yaml:"stakes,omitempty"`
	StartBalance *int64  `yaml:"start_balance"`
	TopUp        *int64  `yaml:"top_up"` // chips granted per top-up request; 0 disables
}

type JackpotCfg struct {
	Seed *int64   `yaml:"seed"`
	Rate *float64 `yaml:"rate"`
}
