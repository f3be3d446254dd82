package gallery

import "math"

// validAim rejects non-finite points, points outside the field and the turret itself.
func (c Config) validAim(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	if x < 0 || x > c.Width || y < 0 || y > c.Height {
		return false
	}
	tx, ty := c.Turret()
	return x != tx || y != ty
}

// newProjectile launches a shot from the turret toward (x, y) at the fixed speed.
func (c Config) newProjectile(id uint64, x, y float64, stake int64) Projectile {
	tx, ty := c.Turret()
	dx, dy := x-tx, y-ty
	d := math.Hypot(dx, dy)
	return Projectile{
		ID:    id,
		X:     tx,
		Y:     ty,
		VX:    dx / d * c.ProjectileSpeed,
		VY:    dy / d * c.ProjectileSpeed,
		Power: int(stake),
		Cost:  stake,
	}
}
