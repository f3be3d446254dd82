package gallery

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xtding233/shooting-gallery/internal/gacha"
)

// emitter turns resolution results into particles and events.
type emitter struct {
	cfg    *Config
	nextID func() uint64
}

// burst is a radial ring of sparks.
func (em emitter) burst(x, y float64, color string, rng gacha.RandomSource) []Particle {
	n := em.cfg.Sparks
	out := make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		life := em.cfg.SparkLife
		if em.cfg.SparkLifeJitter > 0 {
			life += gacha.Intn(rng, em.cfg.SparkLifeJitter)
		}
		out = append(out, Particle{
			ID:    em.nextID(),
			X:     x,
			Y:     y,
			VX:    math.Cos(a) * em.cfg.SparkSpeed,
			VY:    math.Sin(a) * em.cfg.SparkSpeed,
			Life:  life,
			Color: color,
		})
	}
	return out
}

// rewardText floats the payout upward from the kill position.
func (em emitter) rewardText(x, y float64, amount int64) Particle {
	return Particle{
		ID:    em.nextID(),
		X:     x,
		Y:     y,
		VY:    -em.cfg.TextRise,
		Life:  em.cfg.TextLife,
		Color: ColorReward,
		Text:  strconv.FormatInt(amount, 10),
	}
}

func insufficientFunds(tick uint64, stake int64) Event {
	return Event{
		Kind:        EventInsufficientFunds,
		Description: "INSUFFICIENT FUNDS! ADD COINS!",
		Amount:      stake,
		Tick:        tick,
	}
}

func apexDefeated(tick uint64, payout int64) Event {
	return Event{
		Kind:        EventApexDefeated,
		Description: fmt.Sprintf("APEX DEFEATED! HUGE WIN: %d", payout),
		Amount:      payout,
		Tick:        tick,
	}
}
