package gallery

// Snapshot is a read-only copy of the live pools for a rendering pass.
type Snapshot struct {
	Tick        uint64           `json:"tick" msgpack:"tick"`
	Width       float64          `json:"width" msgpack:"w"`
	Height      float64          `json:"height" msgpack:"h"`
	TurretX     float64          `json:"turret_x" msgpack:"tx"`
	TurretY     float64          `json:"turret_y" msgpack:"ty"`
	Jackpot     int64            `json:"jackpot,omitempty" msgpack:"jp,omitempty"`
	Targets     []TargetView     `json:"targets" msgpack:"targets"`
	Projectiles []ProjectileView `json:"projectiles" msgpack:"projectiles"`
	Particles   []ParticleView   `json:"particles" msgpack:"particles"`
}

type TargetView struct {
	ID          uint64  `json:"id" msgpack:"id"`
	X           float64 `json:"x" msgpack:"x"`
	Y           float64 `json:"y" msgpack:"y"`
	VX          float64 `json:"vx" msgpack:"vx"`
	VY          float64 `json:"vy" msgpack:"vy"`
	Tier        string  `json:"tier" msgpack:"tier"`
	Size        float64 `json:"size" msgpack:"size"`
	HPRatio     float64 `json:"hp" msgpack:"hp"`
	FacingRight bool    `json:"facing_right" msgpack:"fr"`
}

type ProjectileView struct {
	ID    uint64  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Power int     `json:"power" msgpack:"power"`
}

type ParticleView struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Life  int     `json:"life" msgpack:"life"`
	Color string  `json:"color" msgpack:"color"`
	Text  string  `json:"text,omitempty" msgpack:"text,omitempty"`
}

// Snapshot copies the current pools. After Release it is empty but still carries the field geometry.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, ty := e.cfg.Turret()
	s := Snapshot{
		Tick:        e.tick,
		Width:       e.cfg.Width,
		Height:      e.cfg.Height,
		TurretX:     tx,
		TurretY:     ty,
		Jackpot:     e.jackpot.Value(),
		Targets:     make([]TargetView, 0, e.targets.Len()),
		Projectiles: make([]ProjectileView, 0, e.projectiles.Len()),
		Particles:   make([]ParticleView, 0, e.particles.Len()),
	}
	e.targets.Each(func(id uint64, t *Target) bool {
		s.Targets = append(s.Targets, TargetView{
			ID:          id,
			X:           t.X,
			Y:           t.Y,
			VX:          t.VX,
			VY:          t.VY,
			Tier:        t.Tier.String(),
			Size:        t.Size,
			HPRatio:     t.HPRatio(),
			FacingRight: t.FacingRight(),
		})
		return true
	})
	e.projectiles.Each(func(id uint64, b *Projectile) bool {
		s.Projectiles = append(s.Projectiles, ProjectileView{ID: id, X: b.X, Y: b.Y, Power: b.Power})
		return true
	})
	e.particles.Each(func(_ uint64, p *Particle) bool {
		s.Particles = append(s.Particles, ParticleView{X: p.X, Y: p.Y, Life: p.Life, Color: p.Color, Text: p.Text})
		return true
	})
	return s
}
