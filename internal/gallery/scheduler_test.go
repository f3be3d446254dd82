package gallery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerTickRendersOnce(t *testing.T) {
	r := newRig(t, quietConfig(), 100, nil)
	s := NewScheduler(r.engine)
	frames := 0
	s.OnFrame = func(snap Snapshot) {
		frames++
		assert.Equal(t, uint64(frames), snap.Tick)
	}
	require.NoError(t, s.Tick())
	require.NoError(t, s.Tick())
	assert.Equal(t, 2, frames)
}

func TestSchedulerAdvanceUsesFixedTimestep(t *testing.T) {
	r := newRig(t, quietConfig(), 100, nil)
	s := NewScheduler(r.engine)
	frames := 0
	s.OnFrame = func(Snapshot) { frames++ }

	n, err := s.Advance(10 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = s.Advance(10 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// a long stall is capped and the backlog dropped
	n, err = s.Advance(time.Second)
	require.NoError(t, err)
	assert.Equal(t, r.engine.Config().MaxCatchUp, n)
	n, err = s.Advance(0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, uint64(1+r.engine.Config().MaxCatchUp), r.engine.Tick())
	assert.Equal(t, 2, frames)
}

func TestNoTickAfterStop(t *testing.T) {
	r := newRig(t, quietConfig(), 100, nil)
	_, _ = r.engine.Place(Target{X: 100, Y: 100, HP: 10, Reward: 20, Size: 30})
	s := NewScheduler(r.engine)
	require.NoError(t, s.Tick())
	s.Stop()
	s.Stop()

	assert.True(t, s.Stopped())
	assert.ErrorIs(t, s.Tick(), ErrStopped)
	_, err := s.Advance(time.Second)
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, uint64(1), r.engine.Tick())
	assert.Empty(t, r.engine.Snapshot().Targets, "pools released")
	select {
	case <-s.Done():
	default:
		t.Fatal("Done must be closed after Stop")
	}
}

func TestCorruptionHaltsScheduler(t *testing.T) {
	r := newRig(t, quietConfig(), 100, nil)
	_, _ = r.engine.Place(Target{X: 100, Y: 100, HP: 10, Reward: 20, Size: 30})
	s := NewScheduler(r.engine)
	var halted error
	s.OnHalt = func(err error) {
		halted = err
		assert.True(t, s.Stopped())
	}
	r.engine.targets.Each(func(_ uint64, tg *Target) bool {
		tg.HP = tg.MaxHP + 1
		return true
	})

	err := s.Tick()
	assert.ErrorIs(t, err, ErrPoolCorruption)
	assert.ErrorIs(t, halted, ErrPoolCorruption)
	assert.ErrorIs(t, s.Err(), ErrPoolCorruption)
	assert.ErrorIs(t, s.Tick(), ErrStopped)
}

func TestRunStopsWithContext(t *testing.T) {
	r := newRig(t, quietConfig(), 100, nil)
	s := NewScheduler(r.engine)
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, s.Stopped())
	ticks := r.engine.Tick()
	assert.Greater(t, ticks, uint64(0))
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, ticks, r.engine.Tick())
}

func TestRunReturnsOnStop(t *testing.T) {
	r := newRig(t, quietConfig(), 100, nil)
	s := NewScheduler(r.engine)
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
