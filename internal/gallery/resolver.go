package gallery

import (
	"math"

	"github.com/xtding233/shooting-gallery/internal/gacha"
)

// Hit is one projectile striking one target.
type Hit struct {
	Projectile uint64
	Target     uint64
	X, Y       float64 // impact point
	Damage     int
	Critical   bool
}

// Kill is a target destroyed this tick and what it pays.
type Kill struct {
	Target     uint64
	Projectile uint64
	Tier       Tier
	X, Y       float64
	Cost       int64
	Payout     int64
}

// Outcome is the economic result of one resolution pass. Nothing in it has been
// applied to a wallet or turned into particles yet.
type Outcome struct {
	Hits   []Hit
	Kills  []Kill
	Credit int64
}

// Payout is reward * cost / unit, floored.
func Payout(reward, cost, unit int64) int64 {
	if unit <= 0 {
		return 0
	}
	return reward * cost / unit
}

// InHitRadius reports whether (x, y) is strictly inside the target's generous hitbox.
func InHitRadius(x, y float64, t *Target, divisor float64) bool {
	return math.Hypot(x-t.X, y-t.Y) < t.Size/divisor
}

// Resolve tests each projectile against the targets in pool order. A projectile is
// consumed by the first target it overlaps; a target is removed once its hp reaches 0.
// Only entity state is touched here.
func Resolve(targets *Pool[Target], projectiles *Pool[Projectile], cfg *Config, rng gacha.RandomSource) Outcome {
	var out Outcome
	projectiles.Each(func(pid uint64, b *Projectile) bool {
		targets.Each(func(tid uint64, t *Target) bool {
			if !InHitRadius(b.X, b.Y, t, cfg.HitRadiusDivisor) {
				return true
			}
			crit := gacha.Chance(cfg.CritChance, rng)
			dmg := b.Power
			if crit {
				dmg *= cfg.CritMultiplier
			}
			t.HP -= dmg
			out.Hits = append(out.Hits, Hit{Projectile: pid, Target: tid, X: b.X, Y: b.Y, Damage: dmg, Critical: crit})
			projectiles.Remove(pid)

			if t.HP <= 0 {
				t.HP = 0
				pay := Payout(t.Reward, b.Cost, cfg.ReferenceUnit)
				out.Kills = append(out.Kills, Kill{
					Target:     tid,
					Projectile: pid,
					Tier:       t.Tier,
					X:          t.X,
					Y:          t.Y,
					Cost:       b.Cost,
					Payout:     pay,
				})
				out.Credit += pay
				targets.Remove(tid)
			}
			return false
		})
		return true
	})
	return out
}
