package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultKey = "$default"

// ErrNoDefault means the base directory has no games/default.yaml.
var ErrNoDefault = errors.New("default tuning not found")

// Paths locates the tuning files under a base directory.
type Paths struct {
	BaseDir string
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "games", "default.yaml")
}

func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "games", profile+".yaml")
}

// Loader reads tuning YAML and merges default <- profile, caching the result.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged returns the default tuning overridden by the profile, if any.
// The default file is required; a missing profile file is not an error.
func (l *Loader) LoadMerged(profile string) (RawConfig, error) {
	key := profile
	if key == "" {
		key = defaultKey
	}
	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	def, found, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, errors.Wrap(err, "read default")
	}
	if !found {
		return RawConfig{}, errors.Wrap(ErrNoDefault, l.paths.DefaultPath())
	}
	merged := def
	if profile != "" {
		prof, _, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, errors.Wrapf(err, "read profile %s", profile)
		}
		merged = mergeRaw(def, prof)
	}

	l.mu.Lock()
	l.cache[defaultKey] = def
	l.cache[key] = merged
	l.mu.Unlock()
	return merged, nil
}

// Invalidate drops the cache; the next load rereads the files.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// Load is LoadMerged + ValidateRaw + Resolve.
func (l *Loader) Load(profile string) (Settings, error) {
	raw, err := l.LoadMerged(profile)
	if err != nil {
		return Settings{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return Settings{}, err
	}
	return Resolve(raw)
}

func readYAML(path string) (RawConfig, bool, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, true, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, true, nil
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}

// mergeRaw overlays b on a: every field b sets wins; slices are replaced whole.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	out.Field = FieldCfg{
		Width:      pick(a.Field.Width, b.Field.Width),
		Height:     pick(a.Field.Height, b.Field.Height),
		TickRate:   pick(a.Field.TickRate, b.Field.TickRate),
		MaxCatchUp: pick(a.Field.MaxCatchUp, b.Field.MaxCatchUp),
	}
	out.Spawn = SpawnCfg{
		Chance:     pick(a.Spawn.Chance, b.Spawn.Chance),
		Margin:     pick(a.Spawn.Margin, b.Spawn.Margin),
		ExitMargin: pick(a.Spawn.ExitMargin, b.Spawn.ExitMargin),
		Bias:       pick(a.Spawn.Bias, b.Spawn.Bias),
		Wobble:     pick(a.Spawn.Wobble, b.Spawn.Wobble),
	}
	out.Combat = CombatCfg{
		ProjectileSpeed:  pick(a.Combat.ProjectileSpeed, b.Combat.ProjectileSpeed),
		HitRadiusDivisor: pick(a.Combat.HitRadiusDivisor, b.Combat.HitRadiusDivisor),
		CritChance:       pick(a.Combat.CritChance, b.Combat.CritChance),
		CritMultiplier:   pick(a.Combat.CritMultiplier, b.Combat.CritMultiplier),
	}
	out.Feedback = FeedbackCfg{
		Sparks:          pick(a.Feedback.Sparks, b.Feedback.Sparks),
		SparkSpeed:      pick(a.Feedback.SparkSpeed, b.Feedback.SparkSpeed),
		SparkLife:       pick(a.Feedback.SparkLife, b.Feedback.SparkLife),
		SparkLifeJitter: pick(a.Feedback.SparkLifeJitter, b.Feedback.SparkLifeJitter),
		TextLife:        pick(a.Feedback.TextLife, b.Feedback.TextLife),
		TextRise:        pick(a.Feedback.TextRise, b.Feedback.TextRise),
	}

	// tiers merge per tier and per stat
	if len(b.Tiers) > 0 {
		out.Tiers = make(map[string]*TierCfg, len(a.Tiers)+len(b.Tiers))
		// an empty tier entry (`boss:` with no stats) decodes to nil and overrides nothing
		for name, t := range a.Tiers {
			if t == nil {
				continue
			}
			c := *t
			out.Tiers[name] = &c
		}
		for name, t := range b.Tiers {
			if t == nil {
				if _, ok := out.Tiers[name]; !ok {
					out.Tiers[name] = nil
				}
				continue
			}
			base, ok := out.Tiers[name]
			if !ok || base == nil {
				c := *t
				out.Tiers[name] = &c
				continue
			}
			out.Tiers[name] = &TierCfg{
				Weight:      pick(base.Weight, t.Weight),
				HP:          pick(base.HP, t.HP),
				Reward:      pick(base.Reward, t.Reward),
				Size:        pick(base.Size, t.Size),
				Speed:       pick(base.Speed, t.Speed),
				SpeedJitter: pick(base.SpeedJitter, t.SpeedJitter),
			}
		}
	}

	switch {
	case b.Apex == nil:
	case a.Apex == nil:
		c := *b.Apex
		out.Apex = &c
	default:
		c := ApexCfg{Pity: pick(a.Apex.Pity, b.Apex.Pity), Soft: a.Apex.Soft}
		if b.Apex.Soft != nil {
			c.Soft = b.Apex.Soft
		}
		out.Apex = &c
	}

	switch {
	case b.Wager == nil:
	case a.Wager == nil:
		c := *b.Wager
		out.Wager = &c
	default:
		c := WagerCfg{
			Stakes:       a.Wager.Stakes,
			StartBalance: pick(a.Wager.StartBalance, b.Wager.StartBalance),
			TopUp:        pick(a.Wager.TopUp, b.Wager.TopUp),
		}
		if len(b.Wager.Stakes) > 0 {
			c.Stakes = append([]int64(nil), b.Wager.Stakes...)
		}
		out.Wager = &c
	}

	switch {
	case b.Jackpot == nil:
	case a.Jackpot == nil:
		c := *b.Jackpot
		out.Jackpot = &c
	default:
		out.Jackpot = &JackpotCfg{Seed: pick(a.Jackpot.Seed, b.Jackpot.Seed), Rate: pick(a.Jackpot.Rate, b.Jackpot.Rate)}
	}
	return out
}
