package sim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/config"
	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/wager"
)

// Policy is the auto-fire strategy of a simulated player.
type Policy struct {
	Every int   // fire once every this many ticks
	Stake int64 // fixed stake per shot
	Lead  bool  // aim where the target will be when the shot arrives
}

// Params describe one Monte Carlo run.
type Params struct {
	Trials   int
	Ticks    int // ticks per trial
	Seed     uint64
	Settings config.Settings
	Policy   Policy
}

// Trial is the economic result of one simulated session.
type Trial struct {
	Cost      int64
	Payout    int64 // includes jackpot wins
	Shots     int
	Kills     int
	ApexKills int
	Broke     bool // ran out of balance before the last tick
}

func (t Trial) Net() int64 { return t.Payout - t.Cost }

// Report aggregates trials. RTP is total payout over total cost.
type Report struct {
	Params    Params
	Net       gacha.Stats
	Cost      int64
	Payout    int64
	Shots     int
	Kills     int
	ApexKills int
	Broke     int
	RTP       float64
}

func (p Params) check() error {
	switch {
	case p.Trials <= 0:
		return errors.New("trials must be > 0")
	case p.Ticks <= 0:
		return errors.New("ticks must be > 0")
	case p.Policy.Every <= 0:
		return errors.New("fire interval must be > 0")
	case p.Policy.Stake <= 0:
		return errors.Wrapf(gallery.ErrInvalidBet, "stake %d", p.Policy.Stake)
	}
	return nil
}

// Run plays Trials independent sessions. Trial i is seeded with Seed+i, so a
// run is reproducible.
func Run(p Params) (Report, error) {
	if err := p.check(); err != nil {
		return Report{}, err
	}
	rep := Report{Params: p}
	stats, err := gacha.RunMonteCarlo(p.Trials, func(i int) (float64, error) {
		t, err := RunTrial(p.Settings, p.Policy, p.Ticks, gacha.NewSeededRNG(p.Seed+uint64(i)))
		if err != nil {
			return 0, errors.Wrapf(err, "trial %d", i)
		}
		rep.Cost += t.Cost
		rep.Payout += t.Payout
		rep.Shots += t.Shots
		rep.Kills += t.Kills
		rep.ApexKills += t.ApexKills
		if t.Broke {
			rep.Broke++
		}
		return float64(t.Net()), nil
	})
	if err != nil {
		return Report{}, err
	}
	rep.Net = stats
	if rep.Cost > 0 {
		rep.RTP = float64(rep.Payout) / float64(rep.Cost)
	}
	return rep, nil
}

// RunTrial simulates one session of the given length.
func RunTrial(settings config.Settings, pol Policy, ticks int, rng gacha.RandomSource) (Trial, error) {
	purse := wager.NewPurse(settings.StartBalance)
	var t Trial
	eng, err := gallery.NewEngine(settings.Engine, gallery.Options{
		RNG:     rng,
		Wallet:  purse,
		Jackpot: wager.NewJackpot(settings.JackpotSeed, settings.JackpotRate),
		Notifier: gallery.NotifierFunc(func(ev gallery.Event) {
			switch ev.Kind {
			case gallery.EventApexDefeated:
				t.ApexKills++
			case gallery.EventInsufficientFunds:
				t.Broke = true
			}
		}),
	})
	if err != nil {
		return Trial{}, err
	}
	defer eng.Release()

	cfg := eng.Config()
	for i := 1; i <= ticks; i++ {
		if err := eng.Step(); err != nil {
			return Trial{}, err
		}
		if i%pol.Every != 0 || t.Broke {
			continue
		}
		x, y, ok := aim(eng.Snapshot(), cfg, pol.Lead)
		if !ok {
			continue
		}
		_, err := eng.Fire(x, y, pol.Stake)
		switch {
		case err == nil:
			t.Shots++
		case errors.Is(err, gallery.ErrInsufficientFunds), errors.Is(err, gallery.ErrInvalidAim):
		default:
			return Trial{}, err
		}
	}

	totals := purse.Totals()
	t.Cost = -totals[wager.KindWager]
	t.Payout = totals[wager.KindPayout] + totals[wager.KindJackpot]
	for _, e := range purse.Journal() {
		if e.Kind == wager.KindPayout {
			t.Kills++
		}
	}
	return t, nil
}

// aim picks the target nearest the turret. With lead on it solves one step of
// the intercept: aim where the target will be after the projectile's flight time.
func aim(snap gallery.Snapshot, cfg gallery.Config, lead bool) (float64, float64, bool) {
	best := -1
	bestD := math.Inf(1)
	for i, tv := range snap.Targets {
		if tv.X < 0 || tv.X > cfg.Width {
			continue
		}
		d := math.Hypot(tv.X-snap.TurretX, tv.Y-snap.TurretY)
		if d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	tv := snap.Targets[best]
	x, y := tv.X, tv.Y
	if lead {
		// the projectile is first moved on the tick after it is fired
		steps := math.Ceil(bestD/cfg.ProjectileSpeed) + 1
		x += tv.VX * steps
		y += tv.VY * steps
	}
	if x < 0 || x > cfg.Width || y < 0 || y > cfg.Height {
		return 0, 0, false
	}
	return x, y, true
}
