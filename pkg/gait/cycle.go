// Package gait sequences poses, deltas and leg phases into a repeating
// locomotion cycle.
package gait

import (
	"fmt"
	"time"

	"github.com/gwillem/spider/pkg/motion"
	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

// Segment is one interpolated motion of the cycle, followed by an optional
// pause.
type Segment struct {
	Label    string
	Target   motion.Target
	Duration time.Duration
	Steps    int
	Pause    time.Duration
}

// Cycle is the ordered list of segments of one full gait cycle.
type Cycle []Segment

// BuildCycle resolves the configured cycle table against the pose library.
// Leg phases are placed relative to the gait's base pose.
func BuildCycle(cfg robot.GaitConfig, lib *pose.Library) (Cycle, error) {
	base, err := lib.Pose(cfg.BasePose)
	if err != nil {
		return nil, fmt.Errorf("base pose: %w", err)
	}

	cycle := make(Cycle, 0, len(cfg.Cycle))
	for i, e := range cfg.Cycle {
		seg := Segment{
			Duration: cfg.Phase.Duration.Duration,
			Steps:    cfg.Phase.Steps,
			Pause:    cfg.PhasePause.Duration,
		}
		if e.Motion != nil {
			seg.Duration = e.Motion.Duration.Duration
			seg.Steps = e.Motion.Steps
		}
		if e.Pause != nil {
			seg.Pause = e.Pause.Duration
		}

		switch {
		case e.Pose != "":
			p, err := lib.Pose(e.Pose)
			if err != nil {
				return nil, fmt.Errorf("cycle entry %d: %w", i, err)
			}
			seg.Label, seg.Target = p.String(), p
		case e.Delta != "":
			d, err := lib.Delta(e.Delta)
			if err != nil {
				return nil, fmt.Errorf("cycle entry %d: %w", i, err)
			}
			seg.Label, seg.Target = d.String(), d
		case e.Leg != "":
			step, ok := cfg.Legs[e.Leg]
			if !ok {
				return nil, fmt.Errorf("cycle entry %d: %w: no step parameters for leg %s", i, robot.ErrConfiguration, e.Leg)
			}
			lj, err := ResolveLeg(lib.Layout(), e.Leg)
			if err != nil {
				return nil, fmt.Errorf("cycle entry %d: %w", i, err)
			}
			if lj, err = lj.Mirrored(lib.Signs()); err != nil {
				return nil, fmt.Errorf("cycle entry %d: %w", i, err)
			}
			if e.Phase != robot.PhaseLift && e.Phase != robot.PhaseLower {
				return nil, fmt.Errorf("cycle entry %d: %w: unknown phase %q", i, robot.ErrConfiguration, e.Phase)
			}
			t := legTarget{base: base.Angles, leg: lj, step: step, phase: e.Phase}
			seg.Label, seg.Target = t.String(), t
		default:
			return nil, fmt.Errorf("cycle entry %d: %w: empty entry", i, robot.ErrConfiguration)
		}

		if seg.Steps < 1 || seg.Duration < 0 || seg.Pause < 0 {
			return nil, fmt.Errorf("cycle entry %d: %w: bad timing", i, robot.ErrConfiguration)
		}
		cycle = append(cycle, seg)
	}
	return cycle, nil
}

// Duration returns the nominal wall-clock length of one pass through the
// cycle, pauses included.
func (c Cycle) Duration() time.Duration {
	var d time.Duration
	for _, s := range c {
		d += s.Duration + s.Pause
	}
	return d
}
