package sim

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/shooting-gallery/internal/config"
	"github.com/xtding233/shooting-gallery/internal/gacha"
	"github.com/xtding233/shooting-gallery/internal/gallery"
)

func busySettings() config.Settings {
	s := config.DefaultSettings()
	s.Engine.SpawnChance = 0.1
	s.StartBalance = 1_000_000
	return s
}

func TestRunIsReproducible(t *testing.T) {
	p := Params{Trials: 8, Ticks: 1500, Seed: 99, Settings: busySettings(), Policy: Policy{Every: 5, Stake: 10, Lead: true}}
	a, err := Run(p)
	require.NoError(t, err)
	b, err := Run(p)
	require.NoError(t, err)

	assert.Equal(t, a.Net.Samples, b.Net.Samples)
	assert.Equal(t, a.Payout, b.Payout)
	assert.Equal(t, 8, a.Net.N)
}

func TestReportAccounting(t *testing.T) {
	p := Params{Trials: 10, Ticks: 2000, Seed: 1, Settings: busySettings(), Policy: Policy{Every: 4, Stake: 50, Lead: true}}
	rep, err := Run(p)
	require.NoError(t, err)

	require.Positive(t, rep.Shots)
	assert.Equal(t, int64(rep.Shots)*50, rep.Cost)
	assert.Positive(t, rep.Kills, "leading shots at a busy field should land")
	assert.InDelta(t, float64(rep.Payout)/float64(rep.Cost), rep.RTP, 1e-12)

	var sum float64
	for _, v := range rep.Net.Samples {
		sum += v
	}
	assert.InDelta(t, float64(rep.Payout-rep.Cost), sum, 1e-6)
}

func TestTrialStopsFiringWhenBroke(t *testing.T) {
	s := busySettings()
	s.StartBalance = 30
	tr, err := RunTrial(s, Policy{Every: 1, Stake: 10}, 600, gacha.NewSeededRNG(3))
	require.NoError(t, err)
	if tr.Broke {
		assert.GreaterOrEqual(t, tr.Cost, int64(30))
	}
	assert.Equal(t, tr.Cost, int64(tr.Shots)*10)
	assert.GreaterOrEqual(t, s.StartBalance+tr.Net(), int64(0))
}

func TestParamsValidation(t *testing.T) {
	_, err := Run(Params{Trials: 1, Ticks: 1, Settings: busySettings(), Policy: Policy{Every: 1}})
	assert.True(t, errors.Is(err, gallery.ErrInvalidBet))

	_, err = Run(Params{Trials: 0, Ticks: 1, Policy: Policy{Every: 1, Stake: 10}})
	assert.Error(t, err)
}

func TestAimLeadsMovingTarget(t *testing.T) {
	cfg := gallery.DefaultConfig()
	snap := gallery.Snapshot{TurretX: 640, TurretY: 720, Targets: []gallery.TargetView{
		{X: 640, Y: 420, VX: 2},
		{X: 100, Y: 100},
	}}
	x, y, ok := aim(snap, cfg, false)
	require.True(t, ok)
	assert.Equal(t, 640.0, x)
	assert.Equal(t, 420.0, y)

	x, _, ok = aim(snap, cfg, true)
	require.True(t, ok)
	assert.Equal(t, 640.0+2*21, x, "300px at 15px/tick is 20 ticks plus the launch tick")

	_, _, ok = aim(gallery.Snapshot{Targets: []gallery.TargetView{{X: -20, Y: 100}}}, cfg, false)
	assert.False(t, ok, "targets still off-field are skipped")
}
