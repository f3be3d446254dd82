package gallery

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/wager"
)

// Options wires the engine to its collaborators. Nil fields get defaults:
// crypto RNG, a discarding notifier and no jackpot. Wallet is required.
type Options struct {
	RNG      gacha.RandomSource
	Wallet   Wallet
	Notifier Notifier
	Jackpot  *wager.Jackpot
}

// Engine owns the three entity pools and runs one tick at a time.
// Fire and Step are serialized by the engine lock; notifications are
// delivered after the lock is released.
type Engine struct {
	mu sync.Mutex

	cfg      Config
	rng      gacha.RandomSource
	wallet   Wallet
	notifier Notifier
	jackpot  *wager.Jackpot

	targets     *Pool[Target]
	projectiles *Pool[Projectile]
	particles   *Pool[Particle]

	spawner *Spawner
	emit    emitter

	nextID   uint64
	tick     uint64
	released bool
	pending  []Event
}

func NewEngine(cfg Config, opts Options) (*Engine, error) {
	if err := cfg.Check(); err != nil {
		return nil, errors.Wrap(err, "engine config")
	}
	if opts.Wallet == nil {
		return nil, errors.New("engine requires a wallet")
	}
	if opts.RNG == nil {
		opts.RNG = gacha.DefaultRNG()
	}
	if opts.Notifier == nil {
		opts.Notifier = discard{}
	}
	e := &Engine{
		cfg:         cfg,
		rng:         opts.RNG,
		wallet:      opts.Wallet,
		notifier:    opts.Notifier,
		jackpot:     opts.Jackpot,
		targets:     NewPool[Target](),
		projectiles: NewPool[Projectile](),
		particles:   NewPool[Particle](),
	}
	sp, err := NewSpawner(&e.cfg, e.rng)
	if err != nil {
		return nil, err
	}
	e.spawner = sp
	e.emit = emitter{cfg: &e.cfg, nextID: e.newID}
	return e, nil
}

func (e *Engine) newID() uint64 {
	e.nextID++
	return e.nextID
}

func (e *Engine) Config() Config { return e.cfg }

// Tick returns the number of ticks run so far.
func (e *Engine) Tick() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// simMs is the simulated clock in milliseconds.
func (e *Engine) simMs() float64 {
	return float64(e.tick) * 1000 / float64(max(e.cfg.TickRate, 1))
}

// Fire charges stake and launches a projectile toward (x, y). The projectile
// joins the pool immediately and is first moved and tested on the next Step.
func (e *Engine) Fire(x, y float64, stake int64) (uint64, error) {
	e.mu.Lock()
	id, err := e.fireLocked(x, y, stake)
	events := e.takePending()
	e.mu.Unlock()
	e.deliver(events)
	return id, err
}

func (e *Engine) fireLocked(x, y float64, stake int64) (uint64, error) {
	if e.released {
		return 0, ErrStopped
	}
	if !e.cfg.validAim(x, y) {
		return 0, ErrInvalidAim
	}
	if stake <= 0 {
		return 0, errors.Wrapf(ErrInvalidBet, "stake %d", stake)
	}
	id := e.newID()
	entry := wager.Entry{Kind: wager.KindWager, Amount: -stake, Ref: id, Tick: e.tick}
	if d, ok := e.wallet.(debiter); ok {
		if !d.TryDebit(entry) {
			e.pending = append(e.pending, insufficientFunds(e.tick, stake))
			return 0, ErrInsufficientFunds
		}
	} else {
		if e.wallet.Balance() < stake {
			e.pending = append(e.pending, insufficientFunds(e.tick, stake))
			return 0, ErrInsufficientFunds
		}
		e.wallet.Apply(entry)
	}
	e.jackpot.Contribute(stake)

	p := e.cfg.newProjectile(id, x, y, stake)
	if err := e.projectiles.Add(id, &p); err != nil {
		return 0, err
	}
	return id, nil
}

// Place inserts a target as-is, assigning it a fresh identity.
func (e *Engine) Place(t Target) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return 0, ErrStopped
	}
	if t.MaxHP <= 0 {
		t.MaxHP = t.HP
	}
	if t.HP <= 0 || t.HP > t.MaxHP {
		return 0, errors.Wrapf(ErrPoolCorruption, "placed target hp %d/%d", t.HP, t.MaxHP)
	}
	t.ID = e.newID()
	if err := e.targets.Add(t.ID, &t); err != nil {
		return 0, err
	}
	return t.ID, nil
}

// Step runs one tick: spawn, move, resolve, settle. An ErrPoolCorruption
// result means the pools can no longer be trusted.
func (e *Engine) Step() error {
	e.mu.Lock()
	err := e.stepLocked()
	events := e.takePending()
	e.mu.Unlock()
	e.deliver(events)
	return err
}

func (e *Engine) stepLocked() error {
	if e.released {
		return ErrStopped
	}
	e.tick++
	now := e.simMs()

	if e.spawner.ShouldSpawn(e.rng) {
		t := e.spawner.Spawn(e.newID(), now, e.rng)
		if err := e.targets.Add(t.ID, &t); err != nil {
			return err
		}
	}

	moveTargets(e.targets, &e.cfg, now)
	moveProjectiles(e.projectiles, &e.cfg)
	ageParticles(e.particles)

	out := Resolve(e.targets, e.projectiles, &e.cfg, e.rng)
	if err := e.settle(out); err != nil {
		return err
	}

	e.targets.Compact()
	e.projectiles.Compact()
	e.particles.Compact()
	return e.checkLocked()
}

// settle applies an Outcome: balance credits, particles and events.
func (e *Engine) settle(out Outcome) error {
	for _, h := range out.Hits {
		if err := e.addParticles(e.emit.burst(h.X, h.Y, ColorHit, e.rng)); err != nil {
			return err
		}
	}
	for _, k := range out.Kills {
		total := k.Payout
		e.wallet.Apply(wager.Entry{Kind: wager.KindPayout, Amount: k.Payout, Ref: k.Target, Tick: e.tick})
		if k.Tier == ApexTier {
			if won := e.jackpot.Claim(); won > 0 {
				e.wallet.Apply(wager.Entry{Kind: wager.KindJackpot, Amount: won, Ref: k.Target, Tick: e.tick})
				total += won
			}
		}
		if err := e.addParticles(e.emit.burst(k.X, k.Y, ColorKill, e.rng)); err != nil {
			return err
		}
		txt := e.emit.rewardText(k.X, k.Y, total)
		if err := e.particles.Add(txt.ID, &txt); err != nil {
			return err
		}
		if k.Tier == ApexTier {
			e.pending = append(e.pending, apexDefeated(e.tick, total))
		}
	}
	return nil
}

func (e *Engine) addParticles(ps []Particle) error {
	for i := range ps {
		if err := e.particles.Add(ps[i].ID, &ps[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkLocked verifies the pool invariants after a tick.
func (e *Engine) checkLocked() error {
	var err error
	e.targets.Each(func(id uint64, t *Target) bool {
		if t.HP <= 0 || t.HP > t.MaxHP {
			err = errors.Wrapf(ErrPoolCorruption, "target %d live with hp %d/%d", id, t.HP, t.MaxHP)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	e.projectiles.Each(func(id uint64, b *Projectile) bool {
		if b.Cost <= 0 || b.Power <= 0 {
			err = errors.Wrapf(ErrPoolCorruption, "projectile %d with cost %d power %d", id, b.Cost, b.Power)
			return false
		}
		return true
	})
	return err
}

// Release discards all pools. Every later Fire or Step returns ErrStopped.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = true
	e.targets.Clear()
	e.projectiles.Clear()
	e.particles.Clear()
	e.pending = nil
}

func (e *Engine) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

func (e *Engine) takePending() []Event {
	ev := e.pending
	e.pending = nil
	return ev
}

func (e *Engine) deliver(events []Event) {
	for _, ev := range events {
		e.notifier.Notify(ev)
	}
}
