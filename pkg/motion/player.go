package motion

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/robot"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "motion",
})

// Player drives interpolated motions through a Port, one write per tick.
// It owns the robot state.
type Player struct {
	port     Port
	pacer    Pacer
	state    *State
	observer func(robot.Vector)
}

// NewPlayer creates a player whose state starts at the port's current
// readout.
func NewPlayer(ctx context.Context, port Port, pacer Pacer) (*Player, error) {
	initial, err := port.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read initial joint angles: %w", err)
	}
	if pacer == nil {
		pacer = WallClock{}
	}
	return &Player{
		port:  port,
		pacer: pacer,
		state: newState(initial),
	}, nil
}

// Observe registers a callback that receives every written vector. It must
// be set before playing and must not block.
func (p *Player) Observe(fn func(robot.Vector)) {
	p.observer = fn
}

// State returns the robot state owned by the player.
func (p *Player) State() *State {
	return p.state
}

// Current returns a copy of the current joint vector.
func (p *Player) Current() robot.Vector {
	return p.state.Snapshot()
}

// Play moves from the current state to the resolved target in steps writes
// spread over duration. All arguments are checked before the first write.
// The state becomes the exact target after the last successful write; on a
// write error it keeps the previous target.
func (p *Player) Play(ctx context.Context, target Target, duration time.Duration, steps int) error {
	if steps < 1 {
		return fmt.Errorf("%w: steps must be >= 1, got %d", robot.ErrInvalidArgument, steps)
	}
	if duration < 0 {
		return fmt.Errorf("%w: negative duration %s", robot.ErrInvalidArgument, duration)
	}

	current := p.state.Snapshot()
	goal, err := target.Resolve(current)
	if err != nil {
		return err
	}
	seq, err := robot.Interpolate(current, goal, steps)
	if err != nil {
		return err
	}

	interval := duration / time.Duration(steps)
	log.Debugf("play %v over %s in %d steps", target, duration, steps)

	i := 0
	for v := range seq {
		i++
		if err := p.port.Write(ctx, v); err != nil {
			return fmt.Errorf("write step %d/%d: %w", i, steps, err)
		}
		if p.observer != nil {
			p.observer(v)
		}
		p.pacer.Step(interval)
	}

	p.state.set(goal)
	return nil
}

// Pause holds the current command for d.
func (p *Player) Pause(ctx context.Context, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative pause %s", robot.ErrInvalidArgument, d)
	}
	return p.pacer.Pause(ctx, d)
}
