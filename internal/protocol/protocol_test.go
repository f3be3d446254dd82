package protocol

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/xtding233/shooting-gallery/internal/gallery"
)

func TestFrameEnvelopeCarriesSnapshot(t *testing.T) {
	var seq Sequencer
	snap := gallery.Snapshot{
		Tick: 12, Width: 1280, Height: 720, TurretX: 640, TurretY: 720,
		Targets:   []gallery.TargetView{{ID: 3, X: 10, Y: 20, Tier: "boss", Size: 80, HPRatio: 0.5, FacingRight: true}},
		Particles: []gallery.ParticleView{{X: 1, Y: 2, Life: 60, Color: gallery.ColorReward, Text: "40"}},
	}
	b, err := Encode(seq.Frame(snap))
	require.NoError(t, err)

	env, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, KindFrame, env.Kind)
	assert.Equal(t, uint64(1), env.Seq)
	require.NotNil(t, env.Frame)
	assert.Equal(t, snap.Targets, env.Frame.Targets)
	assert.Equal(t, "40", env.Frame.Particles[0].Text)
}

func TestSequenceIsMonotonic(t *testing.T) {
	var seq Sequencer
	a := seq.Event(gallery.Event{Kind: gallery.EventApexDefeated})
	b := seq.Error(errors.New("x"))
	assert.Less(t, a.Seq, b.Seq)
}

func TestDecodeRejectsEmptyPayload(t *testing.T) {
	b, err := msgpack.Marshal(&Envelope{Kind: KindFrame})
	require.NoError(t, err)
	_, err = Decode(b)
	assert.True(t, errors.Is(err, ErrBadEnvelope))

	_, err = Decode([]byte{0xc1})
	assert.True(t, errors.Is(err, ErrBadEnvelope))
}

func TestCommands(t *testing.T) {
	b, err := EncodeCommand(Command{Op: OpFire, X: 3, Y: 4})
	require.NoError(t, err)
	c, err := DecodeCommand(b)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.X)

	b, _ = EncodeCommand(Command{Op: OpBet, Dir: "sideways"})
	_, err = DecodeCommand(b)
	assert.True(t, errors.Is(err, ErrBadCommand))

	b, _ = EncodeCommand(Command{Op: "reload"})
	_, err = DecodeCommand(b)
	assert.True(t, errors.Is(err, ErrBadCommand))
}
