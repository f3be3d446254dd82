package gallery

import "math"

// moveTargets advances targets and drops the ones that left past the far edge.
func moveTargets(p *Pool[Target], cfg *Config, simMs float64) {
	p.Each(func(id uint64, t *Target) bool {
		t.X += t.VX
		t.Y += t.VY + math.Sin(simMs/500+t.Phase)*cfg.Wobble
		if (t.VX > 0 && t.X > cfg.Width+cfg.ExitMargin) || (t.VX < 0 && t.X < -cfg.ExitMargin) {
			p.Remove(id)
		}
		return true
	})
}

// moveProjectiles drops shots that leave the field on any side. No refund.
func moveProjectiles(p *Pool[Projectile], cfg *Config) {
	p.Each(func(id uint64, b *Projectile) bool {
		b.X += b.VX
		b.Y += b.VY
		if b.X < 0 || b.X > cfg.Width || b.Y < 0 || b.Y > cfg.Height {
			p.Remove(id)
		}
		return true
	})
}

func ageParticles(p *Pool[Particle]) {
	p.Each(func(id uint64, pt *Particle) bool {
		pt.X += pt.VX
		pt.Y += pt.VY
		pt.Life--
		if pt.Life <= 0 {
			p.Remove(id)
		}
		return true
	})
}
