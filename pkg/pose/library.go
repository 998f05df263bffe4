// Package pose holds the named absolute poses and relative deltas of the
// robot, and the table of mirrored joints used when a delta is applied.
package pose

import (
	"fmt"
	"sort"

	"github.com/gwillem/spider/pkg/robot"
)

// Pose is a named absolute joint configuration.
type Pose struct {
	Name   string
	Angles robot.Vector
}

// Resolve returns a copy of the pose angles. It fails if the pose does not
// fit the current vector.
func (p Pose) Resolve(current robot.Vector) (robot.Vector, error) {
	if len(p.Angles) != len(current) {
		return nil, fmt.Errorf("pose %s: %w: %d vs %d joints", p.Name, robot.ErrDimensionMismatch, len(p.Angles), len(current))
	}
	return p.Angles.Clone(), nil
}

func (p Pose) String() string {
	return "pose " + p.Name
}

// Delta is a named joint increment. The signs are the mirror table of the
// library the delta was taken from.
type Delta struct {
	Name   string
	Angles robot.Vector
	signs  robot.Vector
}

// Signed returns the increment with mirrored joints negated.
func (d Delta) Signed() (robot.Vector, error) {
	if d.signs == nil {
		return d.Angles.Clone(), nil
	}
	return d.Angles.Mul(d.signs)
}

// Resolve returns current plus the signed delta.
func (d Delta) Resolve(current robot.Vector) (robot.Vector, error) {
	signed, err := d.Signed()
	if err != nil {
		return nil, fmt.Errorf("delta %s: %w", d.Name, err)
	}
	out, err := current.Add(signed)
	if err != nil {
		return nil, fmt.Errorf("delta %s: %w", d.Name, err)
	}
	return out, nil
}

func (d Delta) String() string {
	return "delta " + d.Name
}

// Library is the read-only table of poses and deltas. It is built once at
// startup.
type Library struct {
	layout *robot.Layout
	poses  map[string]Pose
	deltas map[string]Delta
	signs  robot.Vector
}

// NewLibrary resolves every table against the layout. Any joint name missing
// from the layout fails with robot.ErrConfiguration.
func NewLibrary(layout *robot.Layout, cfg robot.PoseConfig) (*Library, error) {
	l := &Library{
		layout: layout,
		poses:  make(map[string]Pose, len(cfg.Poses)),
		deltas: make(map[string]Delta, len(cfg.Deltas)),
		signs:  make(robot.Vector, layout.Len()),
	}

	for i := range l.signs {
		l.signs[i] = 1
	}
	for _, name := range cfg.Mirror {
		i, err := layout.Index(name)
		if err != nil {
			return nil, fmt.Errorf("mirror table: %w", err)
		}
		l.signs[i] = -1
	}

	for name, angles := range cfg.Poses {
		v, err := layout.Vector(angles)
		if err != nil {
			return nil, fmt.Errorf("pose %s: %w", name, err)
		}
		l.poses[name] = Pose{Name: name, Angles: v}
	}

	for name, angles := range cfg.Deltas {
		v, err := layout.Vector(angles)
		if err != nil {
			return nil, fmt.Errorf("delta %s: %w", name, err)
		}
		l.deltas[name] = Delta{Name: name, Angles: v, signs: l.signs}
	}

	return l, nil
}

// Layout returns the joint layout the library was built for.
func (l *Library) Layout() *robot.Layout {
	return l.layout
}

// Pose returns a named pose.
func (l *Library) Pose(name string) (Pose, error) {
	p, ok := l.poses[name]
	if !ok {
		return Pose{}, fmt.Errorf("%w: unknown pose %q", robot.ErrConfiguration, name)
	}
	return Pose{Name: p.Name, Angles: p.Angles.Clone()}, nil
}

// Delta returns a named delta.
func (l *Library) Delta(name string) (Delta, error) {
	d, ok := l.deltas[name]
	if !ok {
		return Delta{}, fmt.Errorf("%w: unknown delta %q", robot.ErrConfiguration, name)
	}
	return Delta{Name: d.Name, Angles: d.Angles.Clone(), signs: l.signs}, nil
}

// NewDelta wraps an ad-hoc increment with the library's mirror table.
func (l *Library) NewDelta(name string, angles robot.Vector) (Delta, error) {
	if len(angles) != l.layout.Len() {
		return Delta{}, fmt.Errorf("delta %s: %w: %d vs %d joints", name, robot.ErrDimensionMismatch, len(angles), l.layout.Len())
	}
	return Delta{Name: name, Angles: angles.Clone(), signs: l.signs}, nil
}

// Apply returns v with the delta added.
func (l *Library) Apply(v robot.Vector, d Delta) (robot.Vector, error) {
	return d.Resolve(v)
}

// Remove returns v with the delta subtracted; it undoes Apply.
func (l *Library) Remove(v robot.Vector, d Delta) (robot.Vector, error) {
	signed, err := d.Signed()
	if err != nil {
		return nil, err
	}
	return v.Sub(signed)
}

// Mirrored reports whether deltas are sign-inverted on the joint.
func (l *Library) Mirrored(name robot.JointName) bool {
	i, err := l.layout.Index(name)
	if err != nil {
		return false
	}
	return l.signs[i] < 0
}

// Signs returns the mirror sign of every joint in layout order: -1 for
// mirrored joints, 1 otherwise.
func (l *Library) Signs() robot.Vector {
	return l.signs.Clone()
}

// PoseNames returns the pose names, sorted.
func (l *Library) PoseNames() []string {
	names := make([]string, 0, len(l.poses))
	for name := range l.poses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeltaNames returns the delta names, sorted.
func (l *Library) DeltaNames() []string {
	names := make([]string, 0, len(l.deltas))
	for name := range l.deltas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
