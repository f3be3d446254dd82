package gallery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/wager"
)

// seqRNG replays a fixed script of uniforms, cycling when it runs out.
type seqRNG struct {
	vals []float64
	i    int
}

func (s *seqRNG) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

type rig struct {
	engine *Engine
	purse  *wager.Purse
	events []Event
}

// quietConfig never spawns on its own and moves targets in straight lines.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.SpawnChance = 0
	cfg.Wobble = 0
	cfg.SpawnBias = 0
	return cfg
}

func newRig(t *testing.T, cfg Config, balance int64, jackpot *wager.Jackpot) *rig {
	t.Helper()
	r := &rig{purse: wager.NewPurse(balance)}
	e, err := NewEngine(cfg, Options{
		RNG:      gacha.NewSeededRNG(42),
		Wallet:   r.purse,
		Notifier: NotifierFunc(func(ev Event) { r.events = append(r.events, ev) }),
		Jackpot:  jackpot,
	})
	require.NoError(t, err)
	r.engine = e
	return r
}

// settleShots steps until no projectile is in flight.
func (r *rig) settleShots(t *testing.T) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if len(r.engine.Snapshot().Projectiles) == 0 {
			return
		}
		require.NoError(t, r.engine.Step())
	}
	t.Fatalf("projectiles still in flight after 500 ticks")
}

func (r *rig) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
