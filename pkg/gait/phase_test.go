package gait

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

func TestPhaseTarget(t *testing.T) {
	layout := robot.DefaultLayout()
	cfg := robot.DefaultConfig()
	base, err := layout.Vector(cfg.Poses.Poses["stand"])
	require.NoError(t, err)

	fr, err := ResolveLeg(layout, robot.FrontRight)
	require.NoError(t, err)
	step := cfg.Gait.Legs[robot.FrontRight]

	lifted, err := PhaseTarget(base, base, fr, step, robot.PhaseLift)
	require.NoError(t, err)
	assert.Equal(t, 30.0, lifted[fr.Hip])
	assert.Equal(t, 37.0, lifted[fr.Femur])
	assert.Equal(t, 3.0, lifted[fr.Tibia])

	// Other legs are untouched.
	for i := range base {
		if i != fr.Hip && i != fr.Femur && i != fr.Tibia {
			assert.Equal(t, base[i], lifted[i], "joint %s", layout.Name(i))
		}
	}

	lowered, err := PhaseTarget(lifted, base, fr, step, robot.PhaseLower)
	require.NoError(t, err)
	assert.Equal(t, 30.0, lowered[fr.Hip])
	assert.Equal(t, 55.0, lowered[fr.Femur])
	assert.Equal(t, -18.0, lowered[fr.Tibia])

	// The input is not modified.
	assert.Equal(t, 30.0, lifted[fr.Hip])
	assert.Equal(t, 3.0, lifted[fr.Tibia])
}

func TestPhaseTarget_BackResidual(t *testing.T) {
	layout := robot.DefaultLayout()
	cfg := robot.DefaultConfig()
	base, err := layout.Vector(cfg.Poses.Poses["stand"])
	require.NoError(t, err)

	bl, err := ResolveLeg(layout, robot.BackLeft)
	require.NoError(t, err)
	step := cfg.Gait.Legs[robot.BackLeft]

	v, err := PhaseTarget(base, base, bl, step, robot.PhaseLift)
	require.NoError(t, err)
	v, err = PhaseTarget(v, base, bl, step, robot.PhaseLower)
	require.NoError(t, err)

	assert.Equal(t, -5.0, v[bl.Hip])
	assert.Equal(t, 55.0, v[bl.Femur])
	assert.Equal(t, -17.0, v[bl.Tibia])
}

func TestPhaseTarget_Mirrored(t *testing.T) {
	layout := robot.DefaultLayout()
	cfg := robot.DefaultConfig()
	lib, err := pose.NewLibrary(layout, cfg.PosesFor(true))
	require.NoError(t, err)
	stand, err := lib.Pose("stand")
	require.NoError(t, err)
	base := stand.Angles

	bl, err := ResolveLeg(layout, robot.BackLeft)
	require.NoError(t, err)
	bl, err = bl.Mirrored(lib.Signs())
	require.NoError(t, err)
	step := cfg.Gait.Legs[robot.BackLeft]

	// The sim mirrors the back hips: the swing goes the same way as the pull.
	v, err := PhaseTarget(base, base, bl, step, robot.PhaseLift)
	require.NoError(t, err)
	assert.Equal(t, -20.0-15, v[bl.Hip])
	assert.Equal(t, 37.0, v[bl.Femur])
	assert.Equal(t, 3.0, v[bl.Tibia])

	v, err = PhaseTarget(v, base, bl, step, robot.PhaseLower)
	require.NoError(t, err)
	assert.Equal(t, -35.0, v[bl.Hip])
	assert.Equal(t, 55.0, v[bl.Femur])
	assert.Equal(t, -17.0, v[bl.Tibia])

	pull, err := lib.Delta("pull")
	require.NoError(t, err)
	v, err = lib.Apply(v, pull)
	require.NoError(t, err)
	assert.Equal(t, -36.0, v[bl.Hip])
}

func TestLegJoints_MirroredErrors(t *testing.T) {
	layout := robot.DefaultLayout()
	fr, err := ResolveLeg(layout, robot.FrontRight)
	require.NoError(t, err)

	_, err = fr.Mirrored(robot.Vector{1})
	assert.ErrorIs(t, err, robot.ErrDimensionMismatch)
}

func TestPhaseTarget_Absolute(t *testing.T) {
	layout := robot.DefaultLayout()
	base := layout.Zero()
	fl, err := ResolveLeg(layout, robot.FrontLeft)
	require.NoError(t, err)
	step := robot.LegStep{HipSwing: 25, Bend: 18, TibiaResidual: -3}

	// The hip lands on base+swing even after a pull moved it.
	current := base.Clone()
	current[fl.Hip] = 1
	v, err := PhaseTarget(current, base, fl, step, robot.PhaseLift)
	require.NoError(t, err)
	assert.Equal(t, 25.0, v[fl.Hip])
}

func TestPhaseTarget_Errors(t *testing.T) {
	layout := robot.DefaultLayout()
	fr, err := ResolveLeg(layout, robot.FrontRight)
	require.NoError(t, err)

	_, err = PhaseTarget(layout.Zero(), robot.Vector{1}, fr, robot.LegStep{}, robot.PhaseLift)
	assert.ErrorIs(t, err, robot.ErrDimensionMismatch)

	_, err = PhaseTarget(robot.Vector{1}, robot.Vector{1}, fr, robot.LegStep{}, robot.PhaseLift)
	assert.ErrorIs(t, err, robot.ErrDimensionMismatch)

	_, err = PhaseTarget(layout.Zero(), layout.Zero(), fr, robot.LegStep{}, "hop")
	assert.ErrorIs(t, err, robot.ErrInvalidArgument)
}

func TestResolveLeg_Unknown(t *testing.T) {
	layout, err := robot.NewLayout([]robot.JointName{robot.FRHip, robot.FRFemur})
	require.NoError(t, err)

	_, err = ResolveLeg(layout, robot.FrontRight)
	assert.ErrorIs(t, err, robot.ErrConfiguration)
}
