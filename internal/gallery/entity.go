package gallery

// Target is a destructible moving entity. 0 <= HP <= MaxHP while it is live.
type Target struct {
	ID     uint64
	X, Y   float64
	VX, VY float64
	Tier   Tier
	HP     int
	MaxHP  int
	Reward int64
	Size   float64
	Phase  float64 // wobble phase offset
}

// FacingRight is derived from the direction of travel.
func (t *Target) FacingRight() bool { return t.VX > 0 }

func (t *Target) HPRatio() float64 {
	if t.MaxHP <= 0 {
		return 0
	}
	return float64(t.HP) / float64(t.MaxHP)
}

// Projectile is one fired shot. Cost was charged when it was created.
type Projectile struct {
	ID     uint64
	X, Y   float64
	VX, VY float64
	Power  int
	Cost   int64
}

// Particle is visual feedback only.
type Particle struct {
	ID     uint64
	X, Y   float64
	VX, VY float64
	Life   int // frames left
	Color  string
	Text   string
}
