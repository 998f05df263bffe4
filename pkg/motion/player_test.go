package motion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

// fakePort records every write and echoes the last one on read.
type fakePort struct {
	writes  []robot.Vector
	current robot.Vector
	failAt  int
}

func newFakePort(n int) *fakePort {
	return &fakePort{current: make(robot.Vector, n)}
}

func (f *fakePort) Write(_ context.Context, v robot.Vector) error {
	if f.failAt > 0 && len(f.writes)+1 == f.failAt {
		return errors.New("servo not responding")
	}
	f.writes = append(f.writes, v)
	f.current = v.Clone()
	return nil
}

func (f *fakePort) Read(context.Context) (robot.Vector, error) {
	return f.current.Clone(), nil
}

// countingPacer records step intervals and pauses.
type countingPacer struct {
	steps  []time.Duration
	pauses []time.Duration
}

func (c *countingPacer) Step(d time.Duration) { c.steps = append(c.steps, d) }

func (c *countingPacer) Pause(ctx context.Context, d time.Duration) error {
	c.pauses = append(c.pauses, d)
	return ctx.Err()
}

func newLibrary(t *testing.T) *pose.Library {
	t.Helper()
	lib, err := pose.NewLibrary(robot.DefaultLayout(), robot.DefaultConfig().Poses)
	require.NoError(t, err)
	return lib
}

func TestPlayer_StandFromZero(t *testing.T) {
	ctx := context.Background()
	port := newFakePort(robot.NumJoints)
	pacer := &countingPacer{}

	p, err := NewPlayer(ctx, port, pacer)
	require.NoError(t, err)

	stand, err := newLibrary(t).Pose("stand")
	require.NoError(t, err)

	require.NoError(t, p.Play(ctx, stand, 1500*time.Millisecond, 60))

	assert.Len(t, port.writes, 60)
	assert.Equal(t, stand.Angles, port.writes[59])
	assert.Equal(t, stand.Angles, p.Current())

	require.Len(t, pacer.steps, 60)
	assert.Equal(t, 25*time.Millisecond, pacer.steps[0])
}

func TestPlayer_DeltaAccumulates(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	p, err := NewPlayer(ctx, newFakePort(robot.NumJoints), NoWait{})
	require.NoError(t, err)

	stand, err := lib.Pose("stand")
	require.NoError(t, err)
	pull, err := lib.Delta("pull")
	require.NoError(t, err)

	require.NoError(t, p.Play(ctx, stand, 0, 1))
	require.NoError(t, p.Play(ctx, pull, 0, 5))
	require.NoError(t, p.Play(ctx, pull, 0, 5))

	want, err := lib.Apply(stand.Angles, pull)
	require.NoError(t, err)
	want, err = lib.Apply(want, pull)
	require.NoError(t, err)
	assert.True(t, p.Current().Equal(want, 1e-12))
	assert.Equal(t, -18.0, p.Current()[0])
}

func TestPlayer_DimensionMismatchLeavesState(t *testing.T) {
	ctx := context.Background()
	port := newFakePort(robot.NumJoints)
	p, err := NewPlayer(ctx, port, NoWait{})
	require.NoError(t, err)

	before := p.Current()
	err = p.Play(ctx, Absolute(robot.Vector{1, 2, 3}), time.Second, 10)
	assert.ErrorIs(t, err, robot.ErrDimensionMismatch)
	assert.Equal(t, before, p.Current())
	assert.Empty(t, port.writes)
}

func TestPlayer_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	port := newFakePort(2)
	p, err := NewPlayer(ctx, port, NoWait{})
	require.NoError(t, err)

	err = p.Play(ctx, Absolute(robot.Vector{1, 1}), time.Second, 0)
	assert.ErrorIs(t, err, robot.ErrInvalidArgument)

	err = p.Play(ctx, Absolute(robot.Vector{1, 1}), -time.Second, 10)
	assert.ErrorIs(t, err, robot.ErrInvalidArgument)

	assert.ErrorIs(t, p.Pause(ctx, -time.Second), robot.ErrInvalidArgument)
	assert.Empty(t, port.writes)
}

func TestPlayer_WriteFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	port := newFakePort(2)
	port.failAt = 3
	p, err := NewPlayer(ctx, port, NoWait{})
	require.NoError(t, err)

	err = p.Play(ctx, Absolute(robot.Vector{10, 10}), 0, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write step 3/5")
	assert.Equal(t, robot.Vector{0, 0}, p.Current())
	assert.Len(t, port.writes, 2)
}

func TestPlayer_Observer(t *testing.T) {
	ctx := context.Background()
	p, err := NewPlayer(ctx, newFakePort(1), NoWait{})
	require.NoError(t, err)

	var seen []robot.Vector
	p.Observe(func(v robot.Vector) { seen = append(seen, v) })
	require.NoError(t, p.Play(ctx, Absolute(robot.Vector{4}), 0, 4))

	assert.Equal(t, []robot.Vector{{1}, {2}, {3}, {4}}, seen)
}

func TestWallClock_PauseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := WallClock{}.Pause(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWallClock_Pause(t *testing.T) {
	start := time.Now()
	require.NoError(t, WallClock{}.Pause(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
