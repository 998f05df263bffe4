package gait

import (
	"fmt"

	"github.com/gwillem/spider/pkg/robot"
)

// LegJoints holds the layout indices of one leg's joints and their mirror
// signs. A zero sign counts as +1.
type LegJoints struct {
	Leg   robot.Leg
	Hip   int
	Femur int
	Tibia int

	HipSign, FemurSign, TibiaSign float64
}

// Mirrored returns the leg with its joint signs taken from a per-joint sign
// vector, as returned by pose.Library.Signs.
func (lj LegJoints) Mirrored(signs robot.Vector) (LegJoints, error) {
	for _, i := range []int{lj.Hip, lj.Femur, lj.Tibia} {
		if i < 0 || i >= len(signs) {
			return LegJoints{}, fmt.Errorf("%w: leg %s joint index %d out of range", robot.ErrDimensionMismatch, lj.Leg, i)
		}
	}
	lj.HipSign, lj.FemurSign, lj.TibiaSign = signs[lj.Hip], signs[lj.Femur], signs[lj.Tibia]
	return lj, nil
}

func sign(s float64) float64 {
	if s < 0 {
		return -1
	}
	return 1
}

// ResolveLeg looks up the joints of a leg in the layout.
func ResolveLeg(layout *robot.Layout, leg robot.Leg) (LegJoints, error) {
	hip, femur, tibia := robot.LegJoints(leg)
	lj := LegJoints{Leg: leg}
	var err error
	if lj.Hip, err = layout.Index(hip); err != nil {
		return LegJoints{}, err
	}
	if lj.Femur, err = layout.Index(femur); err != nil {
		return LegJoints{}, err
	}
	if lj.Tibia, err = layout.Index(tibia); err != nil {
		return LegJoints{}, err
	}
	return lj, nil
}

// PhaseTarget returns the joint vector after one step phase of a leg. Only
// the leg's joints change; they are placed relative to the base stance, so
// repeated steps never drift.
//
// Lift swings the hip forward and folds the leg: femur down by Bend, tibia up
// by Bend. Lower puts the femur back on the base and leaves TibiaResidual on
// the tibia; the hip keeps its swing until the body is pulled forward.
// Offsets follow the leg's mirror signs, the same way deltas do.
func PhaseTarget(current, base robot.Vector, leg LegJoints, step robot.LegStep, phase string) (robot.Vector, error) {
	if len(current) != len(base) {
		return nil, fmt.Errorf("%w: %d vs %d joints", robot.ErrDimensionMismatch, len(current), len(base))
	}
	for _, i := range []int{leg.Hip, leg.Femur, leg.Tibia} {
		if i < 0 || i >= len(current) {
			return nil, fmt.Errorf("%w: leg %s joint index %d out of range", robot.ErrDimensionMismatch, leg.Leg, i)
		}
	}

	next := current.Clone()
	switch phase {
	case robot.PhaseLift:
		next[leg.Hip] = base[leg.Hip] + sign(leg.HipSign)*step.HipSwing
		next[leg.Femur] = base[leg.Femur] - sign(leg.FemurSign)*step.Bend
		next[leg.Tibia] = base[leg.Tibia] + sign(leg.TibiaSign)*step.Bend
	case robot.PhaseLower:
		next[leg.Femur] = base[leg.Femur]
		next[leg.Tibia] = base[leg.Tibia] + sign(leg.TibiaSign)*step.TibiaResidual
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", robot.ErrInvalidArgument, phase)
	}
	return next, nil
}

// legTarget adapts PhaseTarget to motion.Target.
type legTarget struct {
	base  robot.Vector
	leg   LegJoints
	step  robot.LegStep
	phase string
}

func (t legTarget) Resolve(current robot.Vector) (robot.Vector, error) {
	return PhaseTarget(current, t.base, t.leg, t.step, t.phase)
}

func (t legTarget) String() string {
	return fmt.Sprintf("%s %s", t.leg.Leg, t.phase)
}
