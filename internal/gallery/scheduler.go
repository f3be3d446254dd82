package gallery

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Scheduler drives the engine at a fixed simulated tick rate and hands a
// snapshot to the render hook once per frame. After Stop returns no tick runs.
type Scheduler struct {
	engine *Engine
	step   time.Duration
	catch  int

	// OnFrame is the rendering pass; it runs after the frame's ticks, outside the lock.
	OnFrame func(Snapshot)
	// OnHalt is called once when a tick fails with pool corruption.
	OnHalt func(error)

	mu      sync.Mutex
	acc     time.Duration
	stopped bool
	err     error
	quit    chan struct{}
}

func NewScheduler(e *Engine) *Scheduler {
	cfg := e.Config()
	return &Scheduler{
		engine: e,
		step:   cfg.TickDuration(),
		catch:  max(cfg.MaxCatchUp, 1),
		quit:   make(chan struct{}),
	}
}

func (s *Scheduler) Engine() *Engine { return s.engine }

// Tick runs exactly one tick and one render pass.
func (s *Scheduler) Tick() error {
	s.mu.Lock()
	err := s.tickLocked()
	s.mu.Unlock()
	if err != nil {
		s.halted(err)
		return err
	}
	s.render()
	return nil
}

// Advance feeds wall time into the accumulator and runs every whole tick it
// covers, up to the catch-up cap; the rest of a larger backlog is dropped.
func (s *Scheduler) Advance(elapsed time.Duration) (int, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0, ErrStopped
	}
	s.acc += elapsed
	ran := 0
	for s.acc >= s.step && ran < s.catch {
		if err := s.tickLocked(); err != nil {
			s.mu.Unlock()
			s.halted(err)
			return ran, err
		}
		s.acc -= s.step
		ran++
	}
	if s.acc >= s.step {
		s.acc %= s.step
	}
	s.mu.Unlock()
	if ran > 0 {
		s.render()
	}
	return ran, nil
}

func (s *Scheduler) tickLocked() error {
	if s.stopped {
		return ErrStopped
	}
	err := s.engine.Step()
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPoolCorruption) {
		s.err = err
		s.stopLocked()
	}
	return err
}

func (s *Scheduler) halted(err error) {
	if s.OnHalt != nil && errors.Is(err, ErrPoolCorruption) {
		s.OnHalt(err)
	}
}

func (s *Scheduler) render() {
	if s.OnFrame == nil {
		return
	}
	s.OnFrame(s.engine.Snapshot())
}

// Run ticks in real time until ctx is done, Stop is called or a tick fails.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.step)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-s.quit:
			return s.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if _, err := s.Advance(elapsed); err != nil {
				if errors.Is(err, ErrStopped) {
					return s.Err()
				}
				return err
			}
		}
	}
}

// Stop halts ticking and releases the engine's pools. It is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.quit)
	s.engine.Release()
}

func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Done is closed when the scheduler stops.
func (s *Scheduler) Done() <-chan struct{} { return s.quit }

// Err returns the corruption error that halted the scheduler, if any.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
