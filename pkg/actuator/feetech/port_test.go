package feetech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sts "github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/gwillem/spider/pkg/robot"
)

func busJoints(t *testing.T) []robot.JointCalibration {
	t.Helper()
	cal := robot.DefaultCalibration()
	for name, c := range cal {
		c.Channel++ // servo IDs start at 1
		cal[name] = c
	}
	joints, err := cal.Ordered(robot.DefaultLayout())
	require.NoError(t, err)
	return joints
}

func TestEncode(t *testing.T) {
	joints := busJoints(t)
	layout := robot.DefaultLayout()

	v, err := layout.Vector(map[robot.JointName]float64{robot.BLHip: 90, robot.FRFemur: 45})
	require.NoError(t, err)

	raw, err := Encode(joints, v)
	require.NoError(t, err)
	require.Len(t, raw, robot.NumJoints)

	bl, _ := layout.Index(robot.BLHip)
	fr, _ := layout.Index(robot.FRFemur)
	assert.Equal(t, robot.CenterTicks-1024, raw[bl+1]) // mirrored hip
	assert.Equal(t, robot.CenterTicks+512, raw[fr+1])
	assert.Equal(t, robot.CenterTicks, raw[2])

	_, err = Encode(joints, robot.Vector{1})
	assert.ErrorIs(t, err, robot.ErrDimensionMismatch)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	joints := busJoints(t)
	layout := robot.DefaultLayout()
	v := layout.Zero()
	for i := range v {
		v[i] = float64(i*10 - 50)
	}

	raw, err := Encode(joints, v)
	require.NoError(t, err)
	got, err := Decode(layout, joints, raw)
	require.NoError(t, err)
	for i := range v {
		assert.InDelta(t, v[i], got[i], 360.0/robot.TicksPerRevolution, layout.Name(i))
	}
}

func TestDecode_MissingServo(t *testing.T) {
	joints := busJoints(t)
	raw := map[int]int{1: 2048}
	_, err := Decode(robot.DefaultLayout(), joints, raw)
	assert.ErrorContains(t, err, "BL_FEMUR")
}

func TestHasIDs(t *testing.T) {
	servos := make([]sts.FoundServo, 0, 12)
	for id := 1; id <= 12; id++ {
		servos = append(servos, sts.FoundServo{ID: id})
	}
	assert.True(t, HasIDs(servos, 12))
	assert.False(t, HasIDs(servos[:11], 12))
	assert.True(t, Found{Servos: servos[:6]}.Complete(6))

	servos[3].ID = 42
	assert.False(t, HasIDs(servos, 12))
}
