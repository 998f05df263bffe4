package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/spider/pkg/motion"
	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

func TestNewWorld_Errors(t *testing.T) {
	_, err := NewWorld(nil, time.Millisecond, 1, 1)
	assert.ErrorIs(t, err, robot.ErrConfiguration)
	_, err = NewWorld([]string{"a"}, 0, 1, 1)
	assert.ErrorIs(t, err, robot.ErrConfiguration)
	_, err = NewWorld([]string{"a", "a"}, time.Millisecond, 1, 1)
	assert.ErrorIs(t, err, robot.ErrConfiguration)
	_, err = NewWorld([]string{"a"}, time.Millisecond, -1, 1)
	assert.ErrorIs(t, err, robot.ErrConfiguration)
}

func TestWorld_ConvergesToTarget(t *testing.T) {
	w, err := NewWorld([]string{"a", "b"}, time.Second/60, 30, 15)
	require.NoError(t, err)

	require.NoError(t, w.SetJointPositionTargets([]float64{0.5, -0.3}))
	w.Step()
	pos := w.JointPositions()
	assert.Greater(t, pos[0], 0.0)
	assert.Less(t, pos[1], 0.0)

	for range 5 * 60 {
		w.Step()
	}
	pos = w.JointPositions()
	assert.InDelta(t, 0.5, pos[0], 1e-3)
	assert.InDelta(t, -0.3, pos[1], 1e-3)
	assert.InDelta(t, (5*time.Second + time.Second/60).Seconds(), w.Elapsed().Seconds(), 1e-6)
}

func TestWorld_SetJointPositions(t *testing.T) {
	w, err := NewWorld([]string{"a", "b"}, time.Second/60, 30, 15)
	require.NoError(t, err)

	require.NoError(t, w.SetJointPositions([]float64{1, 2}))
	w.Step()
	assert.Equal(t, []float64{1, 2}, w.JointPositions())

	assert.ErrorIs(t, w.SetJointPositions([]float64{1}), robot.ErrDimensionMismatch)
	assert.ErrorIs(t, w.SetJointPositionTargets([]float64{1, 2, 3}), robot.ErrDimensionMismatch)
}

func newTestPort(t *testing.T) (*Port, *robot.Config) {
	t.Helper()
	cfg := robot.DefaultConfig()
	w, err := NewWorldFromConfig(cfg.Sim)
	require.NoError(t, err)
	p, err := NewPort(w, robot.DefaultLayout(), cfg.Sim.DOFNames)
	require.NoError(t, err)
	return p, cfg
}

func TestPort_MapsJointsToDOFs(t *testing.T) {
	p, _ := newTestPort(t)
	layout := robot.DefaultLayout()

	v, err := layout.Vector(map[robot.JointName]float64{robot.FRHip: 90, robot.BLTibia: -45})
	require.NoError(t, err)
	require.NoError(t, p.Write(context.Background(), v))

	names := p.World().DOFNames()
	targets := p.World().JointPositionTargets()
	for i, n := range names {
		switch n {
		case "Revolute_10":
			assert.InDelta(t, math.Pi/2, targets[i], 1e-12)
		case "Revolute_37":
			assert.InDelta(t, -math.Pi/4, targets[i], 1e-12)
		default:
			assert.Zero(t, targets[i], n)
		}
	}
}

func TestPort_Read(t *testing.T) {
	p, _ := newTestPort(t)
	w := p.World()

	pos := make([]float64, len(w.DOFNames()))
	for i, n := range w.DOFNames() {
		if n == "Revolute_4" {
			pos[i] = math.Pi / 6
		}
	}
	require.NoError(t, w.SetJointPositions(pos))

	v, err := p.Read(context.Background())
	require.NoError(t, err)
	i, err := robot.DefaultLayout().Index(robot.FLHip)
	require.NoError(t, err)
	assert.InDelta(t, 30, v[i], 1e-9)
}

func TestNewPort_UnknownDOF(t *testing.T) {
	cfg := robot.DefaultConfig()
	w, err := NewWorldFromConfig(cfg.Sim)
	require.NoError(t, err)

	names := map[robot.JointName]string{}
	for k, v := range cfg.Sim.DOFNames {
		names[k] = v
	}
	names[robot.FRHip] = "Revolute_99"
	_, err = NewPort(w, robot.DefaultLayout(), names)
	assert.ErrorIs(t, err, robot.ErrConfiguration)

	delete(names, robot.FRHip)
	_, err = NewPort(w, robot.DefaultLayout(), names)
	assert.ErrorIs(t, err, robot.ErrConfiguration)
}

func TestPort_DimensionMismatch(t *testing.T) {
	p, _ := newTestPort(t)
	assert.ErrorIs(t, p.Write(context.Background(), robot.Vector{1}), robot.ErrDimensionMismatch)
}

func TestPacer(t *testing.T) {
	p, _ := newTestPort(t)
	pacer := Pacer{World: p.World()}

	pacer.Step(time.Hour)
	assert.Equal(t, time.Second/60, p.World().Elapsed())

	require.NoError(t, pacer.Pause(context.Background(), 500*time.Millisecond))
	assert.Equal(t, 31*(time.Second/60), p.World().Elapsed())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pacer.Pause(ctx, time.Second), context.Canceled)
	assert.Equal(t, 31*(time.Second/60), p.World().Elapsed())
}

func TestPlayerInSim(t *testing.T) {
	p, cfg := newTestPort(t)
	layout := robot.DefaultLayout()
	pacer := Pacer{World: p.World()}

	player, err := motion.NewPlayer(context.Background(), p, pacer)
	require.NoError(t, err)
	lib, err := pose.NewLibrary(layout, cfg.PosesFor(true))
	require.NoError(t, err)
	stand, err := lib.Pose("stand")
	require.NoError(t, err)

	require.NoError(t, player.Play(context.Background(), stand, 1500*time.Millisecond, 60))
	assert.Equal(t, stand.Angles, player.Current())
	require.NoError(t, player.Pause(context.Background(), 5*time.Second))

	got, err := p.Read(context.Background())
	require.NoError(t, err)
	for i := range got {
		assert.InDelta(t, stand.Angles[i], got[i], 0.05, layout.Name(i))
	}

	// The simulator mirrors the back hips, so pulling moves them backwards.
	pull, err := lib.Delta("pull")
	require.NoError(t, err)
	require.NoError(t, player.Play(context.Background(), pull, 400*time.Millisecond, 10))
	bl, _ := layout.Index(robot.BLHip)
	fl, _ := layout.Index(robot.FLHip)
	assert.Equal(t, stand.Angles[bl]-1, player.Current()[bl])
	assert.Equal(t, stand.Angles[fl]+1, player.Current()[fl])
}
