package gait

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/motion"
	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

// State is the sequencer's state.
type State string

const (
	Idle         State = "idle"
	Initializing State = "initializing"
	Standing     State = "standing"
	Cycling      State = "cycling"
	Returning    State = "returning"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "gait",
})

// Status describes where the sequencer is. Cycle and Phase are 1-based and
// zero outside of the cycling state.
type Status struct {
	State   State  `json:"state"`
	Cycle   int    `json:"cycle"`
	Cycles  int    `json:"cycles"`
	Phase   int    `json:"phase"`
	Phases  int    `json:"phases"`
	Segment string `json:"segment,omitempty"`
}

// Event is emitted after every completed segment.
type Event struct {
	Status
	Angles robot.Vector
}

// Segment labels of the segments the sequencer adds around the cycle.
const (
	LabelInit   = "init"
	LabelStand  = "stand"
	LabelReset  = "reset"
	LabelReturn = "return"
)

// Sequencer replays the gait: neutral, stand, N cycles, neutral. Motion is
// only interrupted between segments.
type Sequencer struct {
	player  *motion.Player
	cfg     robot.GaitConfig
	cycle   Cycle
	neutral pose.Pose
	base    pose.Pose

	mu       sync.RWMutex
	status   Status
	listener func(Event)
}

// New builds a sequencer. Every pose, delta and leg the gait references is
// resolved here, so configuration errors surface before any motion.
func New(player *motion.Player, lib *pose.Library, cfg robot.GaitConfig) (*Sequencer, error) {
	neutral, err := lib.Pose(cfg.NeutralPose)
	if err != nil {
		return nil, fmt.Errorf("neutral pose: %w", err)
	}
	base, err := lib.Pose(cfg.BasePose)
	if err != nil {
		return nil, fmt.Errorf("base pose: %w", err)
	}
	cycle, err := BuildCycle(cfg, lib)
	if err != nil {
		return nil, err
	}

	return &Sequencer{
		player:  player,
		cfg:     cfg,
		cycle:   cycle,
		neutral: neutral,
		base:    base,
		status:  Status{State: Idle, Phases: len(cycle)},
	}, nil
}

// Listen registers a callback for segment events. It must be set before Run
// and must not block.
func (s *Sequencer) Listen(fn func(Event)) {
	s.listener = fn
}

// Cycle returns the resolved cycle table.
func (s *Sequencer) Cycle() Cycle {
	return s.cycle
}

// Status returns the current status.
func (s *Sequencer) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	s.status.State = st
	s.status.Cycle = 0
	s.status.Phase = 0
	s.status.Segment = ""
	s.mu.Unlock()
	log.Infof("state=%v", st)
}

func (s *Sequencer) setPhase(cycle, phase int, label string) {
	s.mu.Lock()
	s.status.Cycle = cycle
	s.status.Phase = phase
	s.status.Segment = label
	s.mu.Unlock()
}

// begin moves from idle to initializing, or fails if a run is in progress.
func (s *Sequencer) begin(cycles int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.State != Idle {
		return fmt.Errorf("already running (%s)", s.status.State)
	}
	s.status = Status{State: Initializing, Cycles: cycles, Phases: len(s.cycle)}
	return nil
}

// Run plays the whole sequence with the given number of gait cycles. When
// ctx is cancelled it stops at the next segment boundary, goes back to idle
// and returns the context error; the robot is left where the last segment
// ended (see Return).
func (s *Sequencer) Run(ctx context.Context, cycles int) error {
	if cycles < 0 {
		return fmt.Errorf("%w: negative cycle count %d", robot.ErrInvalidArgument, cycles)
	}
	if err := s.begin(cycles); err != nil {
		return err
	}
	log.Infof("state=%v cycles=%d", Initializing, cycles)

	err := s.run(ctx, cycles)
	s.setState(Idle)
	return err
}

func (s *Sequencer) run(ctx context.Context, cycles int) error {
	g := s.cfg

	if err := s.play(ctx, LabelInit, s.neutral, g.Init); err != nil {
		return err
	}
	if err := s.player.Pause(ctx, g.SettlePause.Duration); err != nil {
		return err
	}

	s.setState(Standing)
	if err := s.play(ctx, LabelStand, s.base, g.Stand); err != nil {
		return err
	}
	if err := s.player.Pause(ctx, g.SettlePause.Duration); err != nil {
		return err
	}

	for c := 1; c <= cycles; c++ {
		s.setState(Cycling)
		log.Infof("gait cycle %d/%d", c, cycles)

		for i, seg := range s.cycle {
			s.setPhase(c, i+1, seg.Label)
			if err := s.playSegment(ctx, seg); err != nil {
				return fmt.Errorf("cycle %d phase %d (%s): %w", c, i+1, seg.Label, err)
			}
			if err := s.player.Pause(ctx, seg.Pause); err != nil {
				return err
			}
		}

		// Back to the base stance so the cycle cannot creep.
		s.setPhase(c, len(s.cycle), LabelReset)
		if err := s.play(ctx, LabelReset, s.base, g.Reset); err != nil {
			return fmt.Errorf("cycle %d reset: %w", c, err)
		}
		if err := s.player.Pause(ctx, g.ResetPause.Duration); err != nil {
			return err
		}
		if err := s.player.Pause(ctx, g.CyclePause.Duration); err != nil {
			return err
		}
	}

	return s.returnHome(ctx)
}

// Return plays the neutral pose from wherever the robot is. It is meant for
// shutting down after a cancelled run.
func (s *Sequencer) Return(ctx context.Context) error {
	if err := s.begin(0); err != nil {
		return err
	}
	err := s.returnHome(ctx)
	s.setState(Idle)
	return err
}

func (s *Sequencer) returnHome(ctx context.Context) error {
	s.setState(Returning)
	return s.play(ctx, LabelReturn, s.neutral, s.cfg.Return)
}

func (s *Sequencer) play(ctx context.Context, label string, target motion.Target, m robot.Motion) error {
	return s.playSegment(ctx, Segment{
		Label:    label,
		Target:   target,
		Duration: m.Duration.Duration,
		Steps:    m.Steps,
	})
}

func (s *Sequencer) playSegment(ctx context.Context, seg Segment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	if err := s.player.Play(ctx, seg.Target, seg.Duration, seg.Steps); err != nil {
		return err
	}
	log.Debugf("segment %s done in %s", seg.Label, time.Since(start))

	if s.listener != nil {
		st := s.Status()
		st.Segment = seg.Label
		s.listener(Event{Status: st, Angles: s.player.Current()})
	}
	return nil
}
