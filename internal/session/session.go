package session

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/config"
	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/wager"
)

// DefaultEventBuffer is the per-subscriber channel capacity.
const DefaultEventBuffer = 32

var ErrTopUpDisabled = errors.New("top-up disabled")

// Options are the shell-side hooks a session is opened with.
type Options struct {
	RNG gacha.RandomSource
	// OnEnter runs once before the session is handed out; an error aborts it.
	OnEnter func(*Session) error
	// OnFrame receives a snapshot after every scheduler frame.
	OnFrame func(gallery.Snapshot)
	// OnHalt is called when the simulation stops itself on pool corruption.
	OnHalt      func(*Session, error)
	EventBuffer int
}

// Session binds one player's purse and stake ladder to a running engine.
type Session struct {
	ID string

	purse   *wager.Purse
	jackpot *wager.Jackpot
	topUp   int64
	engine  *gallery.Engine
	sched   *gallery.Scheduler

	mu      sync.Mutex
	ladder  *wager.Ladder
	subs    map[int]chan gallery.Event
	nextSub int
	closed  bool
	buffer  int
}

// Status is the shell's view of the economic state.
type Status struct {
	ID      string  `json:"id" msgpack:"id"`
	Balance int64   `json:"balance" msgpack:"balance"`
	Stake   int64   `json:"stake" msgpack:"stake"`
	Stakes  []int64 `json:"stakes" msgpack:"stakes"`
	Tick    uint64  `json:"tick" msgpack:"tick"`
	Jackpot int64   `json:"jackpot,omitempty" msgpack:"jackpot,omitempty"`
	Net     int64   `json:"net" msgpack:"net"`
	Score   int64   `json:"score" msgpack:"score"` // rewards and jackpots won, never reduced
	Closed  bool    `json:"closed" msgpack:"closed"`
}

func New(id string, cfg config.Settings, opts Options) (*Session, error) {
	ladder, err := wager.NewLadder(cfg.Stakes)
	if err != nil {
		return nil, errors.Wrap(err, "stakes")
	}
	s := &Session{
		ID:      id,
		purse:   wager.NewPurse(cfg.StartBalance),
		jackpot: wager.NewJackpot(cfg.JackpotSeed, cfg.JackpotRate),
		topUp:   cfg.TopUp,
		ladder:  ladder,
		subs:    make(map[int]chan gallery.Event),
		buffer:  opts.EventBuffer,
	}
	if s.buffer <= 0 {
		s.buffer = DefaultEventBuffer
	}
	engCfg := cfg.Engine
	engCfg.ReferenceUnit = ladder.Unit()
	eng, err := gallery.NewEngine(engCfg, gallery.Options{
		RNG:      opts.RNG,
		Wallet:   s.purse,
		Notifier: gallery.NotifierFunc(s.publish),
		Jackpot:  s.jackpot,
	})
	if err != nil {
		return nil, err
	}
	s.engine = eng
	s.sched = gallery.NewScheduler(eng)
	s.sched.OnFrame = opts.OnFrame
	s.sched.OnHalt = func(err error) {
		log.Printf("[session %s] halted: %v", s.ID, err)
		if opts.OnHalt != nil {
			opts.OnHalt(s, err)
		}
	}

	if opts.OnEnter != nil {
		if err := opts.OnEnter(s); err != nil {
			s.sched.Stop()
			return nil, errors.Wrap(err, "enter hook")
		}
	}
	log.Printf("[session %s] started balance=%d stake=%d", s.ID, s.purse.Balance(), ladder.Current())
	return s, nil
}

func (s *Session) Engine() *gallery.Engine       { return s.engine }
func (s *Session) Scheduler() *gallery.Scheduler { return s.sched }
func (s *Session) Purse() *wager.Purse           { return s.purse }

// Run drives the scheduler in real time until ctx is done or the session closes.
func (s *Session) Run(ctx context.Context) error {
	return s.sched.Run(ctx)
}

// Fire launches a shot at the current stake.
func (s *Session) Fire(x, y float64) (uint64, error) {
	return s.engine.Fire(x, y, s.Stake())
}

func (s *Session) Stake() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ladder.Current()
}

func (s *Session) BetUp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ladder.Up()
}

func (s *Session) BetDown() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ladder.Down()
}

// TopUp grants the configured chip bundle and returns the new balance.
func (s *Session) TopUp() (int64, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	switch {
	case closed || s.engine.Released():
		return 0, gallery.ErrStopped
	case s.topUp <= 0:
		return 0, ErrTopUpDisabled
	}
	bal := s.purse.Apply(wager.Entry{Kind: wager.KindTopUp, Amount: s.topUp, Tick: s.engine.Tick()})
	log.Printf("[session %s] top-up %d balance=%d", s.ID, s.topUp, bal)
	return bal, nil
}

func (s *Session) Snapshot() gallery.Snapshot { return s.engine.Snapshot() }

func (s *Session) Status() Status {
	s.mu.Lock()
	st := Status{ID: s.ID, Stake: s.ladder.Current(), Stakes: s.ladder.Stakes(), Closed: s.closed}
	s.mu.Unlock()
	st.Balance = s.purse.Balance()
	st.Net = st.Balance - s.purse.Start()
	totals := s.purse.Totals()
	st.Score = totals[wager.KindPayout] + totals[wager.KindJackpot]
	st.Tick = s.engine.Tick()
	st.Jackpot = s.jackpot.Value()
	return st
}

// Subscribe returns a buffered channel of game events and a cancel func.
// A subscriber that falls behind loses events; the engine never waits on it.
func (s *Session) Subscribe() (<-chan gallery.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan gallery.Event, s.buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Session) publish(ev gallery.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close stops the simulation, releases the pools and closes every subscriber.
func (s *Session) Close() {
	s.sched.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	log.Printf("[session %s] closed balance=%d", s.ID, s.purse.Balance())
}

// Done is closed once the simulation has stopped.
func (s *Session) Done() <-chan struct{} { return s.sched.Done() }
