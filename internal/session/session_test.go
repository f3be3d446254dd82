package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/shooting-gallery/internal/config"
	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/wager"
)

func quietSettings(balance int64) config.Settings {
	s := config.DefaultSettings()
	s.Engine.SpawnChance = 0
	s.StartBalance = balance
	return s
}

func newSession(t *testing.T, balance int64, opts Options) *Session {
	t.Helper()
	opts.RNG = gacha.NewSeededRNG(7)
	s, err := New("test", quietSettings(balance), opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestFireUsesCurrentStake(t *testing.T) {
	s := newSession(t, 1000, Options{})
	_, err := s.Fire(100, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(990), s.Purse().Balance())

	assert.Equal(t, int64(50), s.BetUp())
	_, err = s.Fire(100, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(940), s.Purse().Balance())

	st := s.Status()
	assert.Equal(t, int64(50), st.Stake)
	assert.Equal(t, int64(-60), st.Net)
	assert.Equal(t, []int64{10, 50, 100, 500, 1000}, st.Stakes)
}

func TestBetSaturates(t *testing.T) {
	s := newSession(t, 0, Options{})
	assert.Equal(t, int64(10), s.BetDown())
	for i := 0; i < 10; i++ {
		s.BetUp()
	}
	assert.Equal(t, int64(1000), s.Stake())
}

func TestInsufficientFundsReachesSubscriber(t *testing.T) {
	s := newSession(t, 5, Options{})
	events, cancel := s.Subscribe()
	defer cancel()

	_, err := s.Fire(100, 100)
	require.True(t, errors.Is(err, gallery.ErrInsufficientFunds))
	assert.Equal(t, int64(5), s.Purse().Balance())

	select {
	case ev := <-events:
		assert.Equal(t, gallery.EventInsufficientFunds, ev.Kind)
		assert.Equal(t, "INSUFFICIENT FUNDS! ADD COINS!", ev.Description)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s := newSession(t, 0, Options{EventBuffer: 2})
	events, cancel := s.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_, _ = s.Fire(100, 100)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fire blocked on a full subscriber")
	}
	assert.Len(t, events, 2)
}

func TestEnterHookRunsOnce(t *testing.T) {
	calls := 0
	s := newSession(t, 100, Options{OnEnter: func(*Session) error { calls++; return nil }})
	_, _ = s.Fire(100, 100)
	assert.Equal(t, 1, calls)

	_, err := New("x", quietSettings(100), Options{OnEnter: func(*Session) error { return errors.New("denied") }})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestCloseStopsEverything(t *testing.T) {
	s := newSession(t, 100, Options{})
	events, _ := s.Subscribe()
	s.Close()

	_, err := s.Fire(100, 100)
	assert.True(t, errors.Is(err, gallery.ErrStopped))
	_, open := <-events
	assert.False(t, open)
	assert.True(t, s.Status().Closed)
	select {
	case <-s.Done():
	default:
		t.Fatal("scheduler still running")
	}

	late, _ := s.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	s := newSession(t, 100, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Engine().Tick() > 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not return")
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(quietSettings(250), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := m.Create(ctx)
	require.NoError(t, err)
	b, err := m.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, m.List(), 2)

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, int64(250), got.Purse().Balance())

	_, err = m.Get("not-a-uuid")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(m.Close("not-a-uuid"), ErrNotFound))
	require.NoError(t, m.Close(strings.ToUpper(a.ID)), "ids are matched in any case, as Get does")
	_, err = m.Get(a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(m.Close(a.ID), ErrNotFound))

	m.Update(quietSettings(9))
	c, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), c.Purse().Balance())

	m.CloseAll()
	assert.Empty(t, m.List())
}

func TestManagerForgetsCancelledSessions(t *testing.T) {
	m := NewManager(quietSettings(10), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	s, err := m.Create(ctx)
	require.NoError(t, err)
	cancel()
	<-s.Done()
	require.Eventually(t, func() bool { return len(m.List()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestTopUpIsJournaled(t *testing.T) {
	s := newSession(t, 0, Options{})
	bal, err := s.TopUp()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTopUp, bal)
	assert.Equal(t, config.DefaultTopUp, s.Purse().Totals()[wager.KindTopUp])

	_, err = s.Fire(100, 100)
	require.NoError(t, err)

	s.Close()
	_, err = s.TopUp()
	assert.True(t, errors.Is(err, gallery.ErrStopped))
}

func TestTopUpDisabled(t *testing.T) {
	settings := quietSettings(0)
	settings.TopUp = 0
	s, err := New("t", settings, Options{})
	require.NoError(t, err)
	defer s.Close()
	_, err = s.TopUp()
	assert.True(t, errors.Is(err, ErrTopUpDisabled))
}

func TestScoreCountsWinningsOnly(t *testing.T) {
	settings := quietSettings(100)
	settings.Engine.Wobble = 0
	settings.Engine.SpawnBias = 0
	s, err := New("score", settings, Options{RNG: gacha.NewSeededRNG(7)})
	require.NoError(t, err)
	defer s.Close()
	assert.Zero(t, s.Status().Score)

	_, err = s.Engine().Place(gallery.Target{X: 100, Y: 300, HP: 1, Reward: 20, Size: 30, Tier: gallery.TierSmall})
	require.NoError(t, err)
	_, err = s.Fire(100, 300)
	require.NoError(t, err)
	assert.Zero(t, s.Status().Score, "stakes do not count")

	for i := 0; i < 200 && len(s.Snapshot().Targets) > 0; i++ {
		require.NoError(t, s.Engine().Step())
	}
	require.Empty(t, s.Snapshot().Targets)

	st := s.Status()
	assert.Equal(t, int64(20), st.Score)
	assert.Equal(t, int64(110), st.Balance)

	_, err = s.TopUp()
	require.NoError(t, err)
	assert.Equal(t, int64(20), s.Status().Score, "chips are not winnings")
}
