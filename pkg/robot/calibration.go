package robot

import (
	"fmt"
	"math"
)

// Duty cycle limits for the 0-180 degree servo range (16-bit duty at 50 Hz).
const (
	DutyMin = 1000
	DutyMax = 9000

	// Serial-bus servos resolve 4096 ticks per revolution.
	TicksPerRevolution = 4096
	CenterTicks        = 2048
)

// JointCalibration holds the static mounting data for a single joint.
type JointCalibration struct {
	// PWM channel (GPIO pin) or bus servo ID.
	Channel int `json:"channel"`
	// Physical angle (degrees) that corresponds to logical zero.
	Offset float64 `json:"offset"`
	// +1 or -1, corrects for mirrored mounting.
	Direction int `json:"direction"`

	// Bus servo limits in raw ticks. Zero means unlimited.
	HomingTicks int `json:"homing_ticks,omitempty"`
	RangeMin    int `json:"range_min,omitempty"`
	RangeMax    int `json:"range_max,omitempty"`
}

// Calibration holds calibration data for all joints, keyed by joint name.
type Calibration map[JointName]JointCalibration

// DefaultCalibration centers every servo at 90 degrees and mirrors the left
// hips, matching the reference build.
func DefaultCalibration() Calibration {
	cal := make(Calibration, NumJoints)
	for i, name := range AllJoints() {
		dir := 1
		if name == BLHip || name == FLHip {
			dir = -1
		}
		cal[name] = JointCalibration{
			Channel:   i,
			Offset:    90,
			Direction: dir,
		}
	}
	return cal
}

// Physical converts a logical angle to the servo's physical angle.
func (c JointCalibration) Physical(logical float64) float64 {
	return c.Offset + logical*float64(c.direction())
}

// Logical converts a physical angle back to the logical frame.
func (c JointCalibration) Logical(physical float64) float64 {
	return (physical - c.Offset) * float64(c.direction())
}

func (c JointCalibration) direction() int {
	if c.Direction < 0 {
		return -1
	}
	return 1
}

// Duty returns the PWM duty value for a logical angle.
func (c JointCalibration) Duty(logical float64) uint16 {
	return DegreesToDuty(c.Physical(logical))
}

// DegreesToDuty converts a physical angle to a duty value. The angle is
// clamped to [0, 180] first, so out-of-range commands saturate.
func DegreesToDuty(deg float64) uint16 {
	if math.IsNaN(deg) {
		deg = 0
	}
	deg = math.Max(0, math.Min(180, deg))
	return uint16(math.Round(deg/180*(DutyMax-DutyMin) + DutyMin))
}

// Ticks converts a logical angle to a raw bus servo position, clamped to the
// calibrated range.
func (c JointCalibration) Ticks(logical float64) int {
	center := c.HomingTicks
	if center == 0 {
		center = CenterTicks
	}
	// Offset is relative to the 90 degree mechanical center on bus servos.
	deg := c.Physical(logical) - 90
	raw := center + int(math.Round(deg*TicksPerRevolution/360))
	if c.RangeMax > c.RangeMin {
		raw = max(c.RangeMin, min(c.RangeMax, raw))
	}
	return raw
}

// Degrees converts a raw bus servo position to a logical angle.
func (c JointCalibration) Degrees(raw int) float64 {
	center := c.HomingTicks
	if center == 0 {
		center = CenterTicks
	}
	deg := float64(raw-center)*360/TicksPerRevolution + 90
	return c.Logical(deg)
}

// Ordered returns the calibration of every joint in layout order, or
// ErrConfiguration if a joint has no entry or a name is not in the layout.
func (c Calibration) Ordered(layout *Layout) ([]JointCalibration, error) {
	for name := range c {
		if _, err := layout.Index(name); err != nil {
			return nil, fmt.Errorf("calibration: %w", err)
		}
	}
	out := make([]JointCalibration, layout.Len())
	for i, name := range layout.Names() {
		jc, ok := c[name]
		if !ok {
			return nil, fmt.Errorf("%w: no calibration for joint %s", ErrConfiguration, name)
		}
		if jc.Direction != 1 && jc.Direction != -1 {
			return nil, fmt.Errorf("%w: joint %s direction must be +1 or -1, got %d", ErrConfiguration, name, jc.Direction)
		}
		out[i] = jc
	}
	return out, nil
}

// Channels returns the channel of every joint in layout order.
func (c Calibration) Channels(layout *Layout) []int {
	ids := make([]int, 0, len(c))
	for _, name := range layout.Names() {
		if jc, ok := c[name]; ok {
			ids = append(ids, jc.Channel)
		}
	}
	return ids
}

// ByChannel returns joint name and calibration for a given channel.
func (c Calibration) ByChannel(ch int) (JointName, JointCalibration, bool) {
	for name, jc := range c {
		if jc.Channel == ch {
			return name, jc, true
		}
	}
	return "", JointCalibration{}, false
}
