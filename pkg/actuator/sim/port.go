package sim

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/gwillem/spider/pkg/robot"
)

// Port drives the simulated articulation with logical joint vectors in
// degrees.
type Port struct {
	world  *World
	layout *robot.Layout
	// dof[i] is the world index of layout joint i.
	dof []int
}

// NewPort maps every layout joint onto a DOF of the world.
func NewPort(world *World, layout *robot.Layout, dofNames map[robot.JointName]string) (*Port, error) {
	names := world.DOFNames()
	p := &Port{world: world, layout: layout, dof: make([]int, layout.Len())}
	for i, joint := range layout.Names() {
		dofName, ok := dofNames[joint]
		if !ok {
			return nil, fmt.Errorf("%w: no DOF name for joint %s", robot.ErrConfiguration, joint)
		}
		idx := slices.Index(names, dofName)
		if idx < 0 {
			return nil, fmt.Errorf("%w: joint %s maps to unknown DOF %q", robot.ErrConfiguration, joint, dofName)
		}
		p.dof[i] = idx
	}
	return p, nil
}

// World returns the simulated world.
func (p *Port) World() *World {
	return p.world
}

// Write sets the PD targets of the mapped DOFs. Unmapped DOFs keep their
// targets.
func (p *Port) Write(_ context.Context, v robot.Vector) error {
	if len(v) != len(p.dof) {
		return fmt.Errorf("%w: got %d angles, port has %d joints", robot.ErrDimensionMismatch, len(v), len(p.dof))
	}
	targets := p.world.JointPositionTargets()
	for i, deg := range v {
		targets[p.dof[i]] = deg * math.Pi / 180
	}
	return p.world.SetJointPositionTargets(targets)
}

// Read returns the measured joint positions in degrees.
func (p *Port) Read(context.Context) (robot.Vector, error) {
	pos := p.world.JointPositions()
	v := make(robot.Vector, len(p.dof))
	for i, d := range p.dof {
		v[i] = pos[d] * 180 / math.Pi
	}
	return v, nil
}
