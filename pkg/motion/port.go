// Package motion plays interpolated joint motions through an actuator.
package motion

import (
	"context"
	"fmt"

	"github.com/gwillem/spider/pkg/robot"
)

// Port is the actuator the player drives: PWM servos, bus servos or a
// simulated articulation.
type Port interface {
	// Write commands the actuator toward an absolute joint vector. It must
	// not block longer than one tick under normal operation.
	Write(ctx context.Context, v robot.Vector) error

	// Read returns the actuator's best estimate of the current joint angles.
	Read(ctx context.Context) (robot.Vector, error)
}

// Target resolves an absolute joint vector from the current one. Poses
// ignore the current vector, deltas add to it.
type Target interface {
	Resolve(current robot.Vector) (robot.Vector, error)
}

// Absolute is a target that always resolves to the same vector.
type Absolute robot.Vector

// Resolve returns a copy of the vector.
func (a Absolute) Resolve(current robot.Vector) (robot.Vector, error) {
	v := robot.Vector(a)
	if len(v) != len(current) {
		return nil, fmt.Errorf("%w: target has %d joints, state has %d", robot.ErrDimensionMismatch, len(v), len(current))
	}
	return v.Clone(), nil
}
