// Package robot provides the joint model, interpolation and configuration
// for a 12-servo quadruped.
package robot

import "fmt"

// JointName identifies a joint on the robot.
type JointName string

// Leg identifies one of the four legs.
type Leg string

// Legs of the quadruped.
const (
	BackLeft   Leg = "BL"
	BackRight  Leg = "BR"
	FrontLeft  Leg = "FL"
	FrontRight Leg = "FR"
)

// Joint names, three per leg: hip (coxa), femur (knee) and tibia (last joint).
const (
	BLHip   JointName = "BL_HIP"
	BLFemur JointName = "BL_FEMUR"
	BLTibia JointName = "BL_TIBIA"

	BRHip   JointName = "BR_HIP"
	BRFemur JointName = "BR_FEMUR"
	BRTibia JointName = "BR_TIBIA"

	FLHip   JointName = "FL_HIP"
	FLFemur JointName = "FL_FEMUR"
	FLTibia JointName = "FL_TIBIA"

	FRHip   JointName = "FR_HIP"
	FRFemur JointName = "FR_FEMUR"
	FRTibia JointName = "FR_TIBIA"
)

// NumJoints is the joint count of the default layout.
const NumJoints = 12

// AllLegs returns the legs in layout order.
func AllLegs() []Leg {
	return []Leg{BackLeft, BackRight, FrontLeft, FrontRight}
}

// AllJoints returns all joint names in order (matching PWM channels 0-11).
func AllJoints() []JointName {
	return []JointName{
		BLHip, BLFemur, BLTibia,
		BRHip, BRFemur, BRTibia,
		FLHip, FLFemur, FLTibia,
		FRHip, FRFemur, FRTibia,
	}
}

// LegJoints returns the hip, femur and tibia names of a leg.
func LegJoints(leg Leg) (hip, femur, tibia JointName) {
	return JointName(leg + "_HIP"), JointName(leg + "_FEMUR"), JointName(leg + "_TIBIA")
}

// Front reports whether the leg is one of the two front legs.
func (l Leg) Front() bool {
	return l == FrontLeft || l == FrontRight
}

// Layout is the fixed mapping from joint names to vector indices. It is built
// once at startup and never changes.
type Layout struct {
	names []JointName
	index map[JointName]int
}

// NewLayout creates a layout with the joints in the given order.
func NewLayout(names []JointName) (*Layout, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: layout has no joints", ErrConfiguration)
	}
	l := &Layout{
		names: make([]JointName, len(names)),
		index: make(map[JointName]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: joint %d has no name", ErrConfiguration, i)
		}
		if _, dup := l.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate joint %s", ErrConfiguration, name)
		}
		l.names[i] = name
		l.index[name] = i
	}
	return l, nil
}

// DefaultLayout returns the 12-joint layout in firmware order.
func DefaultLayout() *Layout {
	l, err := NewLayout(AllJoints())
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of joints.
func (l *Layout) Len() int {
	return len(l.names)
}

// Names returns a copy of the joint names in index order.
func (l *Layout) Names() []JointName {
	return append([]JointName(nil), l.names...)
}

// Name returns the joint name at index i.
func (l *Layout) Name(i int) JointName {
	return l.names[i]
}

// Index returns the index of a joint, or ErrConfiguration if the joint is not
// part of the layout.
func (l *Layout) Index(name JointName) (int, error) {
	i, ok := l.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown joint %q", ErrConfiguration, name)
	}
	return i, nil
}

// Zero returns a zero vector sized for the layout.
func (l *Layout) Zero() Vector {
	return make(Vector, len(l.names))
}

// Vector builds a vector from a name -> angle table. Joints missing from the
// table are zero.
func (l *Layout) Vector(angles map[JointName]float64) (Vector, error) {
	v := l.Zero()
	for name, a := range angles {
		i, err := l.Index(name)
		if err != nil {
			return nil, err
		}
		v[i] = a
	}
	return v, nil
}

// Map converts a vector into a name -> angle table.
func (l *Layout) Map(v Vector) (map[JointName]float64, error) {
	if len(v) != len(l.names) {
		return nil, fmt.Errorf("%w: vector has %d joints, layout has %d", ErrDimensionMismatch, len(v), len(l.names))
	}
	m := make(map[JointName]float64, len(v))
	for i, a := range v {
		m[l.names[i]] = a
	}
	return m, nil
}
