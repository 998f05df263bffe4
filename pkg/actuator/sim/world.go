// Package sim is a small articulated-body simulator standing in for the
// physical robot. Each DOF is a revolute joint driven by a PD controller
// towards its position target; positions are in radians.
package sim

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/robot"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "sim",
})

// World integrates a set of PD-driven joints with unit inertia.
type World struct {
	mu        sync.Mutex
	names     []string
	pos       []float64
	vel       []float64
	target    []float64
	stiffness float64
	damping   float64
	dt        time.Duration
	elapsed   time.Duration
}

// NewWorld creates a world with the given DOF names, all at rest at zero.
func NewWorld(names []string, dt time.Duration, stiffness, damping float64) (*World, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: world without DOFs", robot.ErrConfiguration)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: physics dt %s", robot.ErrConfiguration, dt)
	}
	if stiffness < 0 || damping < 0 {
		return nil, fmt.Errorf("%w: negative gains", robot.ErrConfiguration)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			return nil, fmt.Errorf("%w: bad or duplicate DOF name %q", robot.ErrConfiguration, n)
		}
		seen[n] = true
	}

	n := len(names)
	return &World{
		names:     slices.Clone(names),
		pos:       make([]float64, n),
		vel:       make([]float64, n),
		target:    make([]float64, n),
		stiffness: stiffness,
		damping:   damping,
		dt:        dt,
	}, nil
}

// NewWorldFromConfig builds the world of the configured asset. DOFs are
// ordered by name, as the asset reports them.
func NewWorldFromConfig(cfg robot.SimConfig) (*World, error) {
	names := slices.Sorted(maps.Values(cfg.DOFNames))
	names = slices.Compact(names)
	w, err := NewWorld(names, cfg.Dt.Duration, cfg.Stiffness, cfg.Damping)
	if err != nil {
		return nil, err
	}
	log.Debugf("world with %d DOFs, dt=%s kp=%.1f kd=%.1f", len(names), cfg.Dt, cfg.Stiffness, cfg.Damping)
	return w, nil
}

// DOFNames returns the DOF names in articulation order.
func (w *World) DOFNames() []string {
	return slices.Clone(w.names)
}

// Dt returns the physics step.
func (w *World) Dt() time.Duration {
	return w.dt
}

// Elapsed returns the simulated time.
func (w *World) Elapsed() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elapsed
}

func (w *World) check(v []float64) error {
	if len(v) != len(w.names) {
		return fmt.Errorf("%w: got %d values, world has %d DOFs", robot.ErrDimensionMismatch, len(v), len(w.names))
	}
	return nil
}

// SetJointPositionTargets sets the PD targets.
func (w *World) SetJointPositionTargets(targets []float64) error {
	if err := w.check(targets); err != nil {
		return err
	}
	w.mu.Lock()
	copy(w.target, targets)
	w.mu.Unlock()
	return nil
}

// SetJointPositions teleports the joints, zeroing their velocity. Targets
// follow so the joints stay put.
func (w *World) SetJointPositions(positions []float64) error {
	if err := w.check(positions); err != nil {
		return err
	}
	w.mu.Lock()
	copy(w.pos, positions)
	copy(w.target, positions)
	clear(w.vel)
	w.mu.Unlock()
	return nil
}

// JointPositions returns the current joint positions.
func (w *World) JointPositions() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.pos)
}

// JointPositionTargets returns the current PD targets.
func (w *World) JointPositionTargets() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.target)
}

// Step advances the world by one physics step (semi-implicit Euler).
func (w *World) Step() {
	w.mu.Lock()
	defer w.mu.Unlock()
	h := w.dt.Seconds()
	for i := range w.pos {
		acc := w.stiffness*(w.target[i]-w.pos[i]) - w.damping*w.vel[i]
		w.vel[i] += acc * h
		w.pos[i] += w.vel[i] * h
	}
	w.elapsed += w.dt
}
