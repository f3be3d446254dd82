package gallery

import (
	"math"

	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/gacha"
)

// Spawner creates targets at the field edges. Tiers come from the weighted table;
// with apex pity configured the apex roll goes through a pity counter first.
type Spawner struct {
	cfg      *Config
	table    *gacha.Weighted[TierSpec]
	rest     *gacha.Weighted[TierSpec] // table without the apex tier
	apexProb float64
	pity     *gacha.SoftPitySystem
}

func NewSpawner(cfg *Config, rng gacha.RandomSource) (*Spawner, error) {
	weights := make([]float64, len(cfg.Tiers))
	apex := -1
	for i, s := range cfg.Tiers {
		weights[i] = s.Weight
		if s.Tier == ApexTier {
			apex = i
		}
	}
	table, err := gacha.NewWeighted(cfg.Tiers, weights)
	if err != nil {
		return nil, errors.Wrap(err, "tier table")
	}
	s := &Spawner{cfg: cfg, table: table}
	if cfg.ApexPity > 0 && apex >= 0 {
		var soft *gacha.SoftPityConfig
		if cfg.ApexSoftStart > 0 {
			soft = &gacha.SoftPityConfig{
				StartAt:    cfg.ApexSoftStart,
				TargetProb: cfg.ApexSoftTarget,
				Easing:     gacha.Easing(cfg.ApexSoftEasing),
			}
		}
		pity, err := gacha.NewSoftPitySystem(cfg.ApexPity, soft, rng)
		if err != nil {
			return nil, errors.Wrap(err, "apex pity")
		}
		s.pity = pity
		s.apexProb = table.Prob(apex)
		s.rest = table.Without(apex)
	}
	return s, nil
}

// ShouldSpawn is the independent per-tick spawn roll.
func (s *Spawner) ShouldSpawn(rng gacha.RandomSource) bool {
	return gacha.Chance(s.cfg.SpawnChance, rng)
}

// Draw picks the tier profile for the next target.
func (s *Spawner) Draw(rng gacha.RandomSource) TierSpec {
	if s.pity == nil {
		return s.table.Pick(rng)
	}
	s.pity.RNG = rng
	apex, err := s.pity.Draw(s.apexProb)
	if err == nil && apex {
		spec, _ := s.cfg.Spec(ApexTier)
		return spec
	}
	if s.rest == nil {
		return s.table.Pick(rng)
	}
	return s.rest.Pick(rng)
}

// Spawn builds a target entering from a random side. simMs is the simulated clock.
func (s *Spawner) Spawn(id uint64, simMs float64, rng gacha.RandomSource) Target {
	left := gacha.Intn(rng, 2) == 0
	y := gacha.Uniform(rng, s.cfg.SpawnMargin, s.cfg.Height-s.cfg.SpawnMargin)
	spec := s.Draw(rng)
	speed := spec.Speed
	if spec.SpeedJitter > 0 {
		speed += gacha.Uniform(rng, 0, spec.SpeedJitter)
	}
	x, vx := -spec.Size, speed
	if !left {
		x, vx = s.cfg.Width+spec.Size, -speed
	}
	return Target{
		ID:     id,
		X:      x,
		Y:      y,
		VX:     vx,
		VY:     math.Sin(simMs/1000) * s.cfg.SpawnBias,
		Tier:   spec.Tier,
		HP:     spec.HP,
		MaxHP:  spec.HP,
		Reward: spec.Reward,
		Size:   spec.Size,
		Phase:  gacha.Uniform(rng, 0, 2*math.Pi),
	}
}
