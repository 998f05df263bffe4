// Package walk runs the gait against an actuator and reports progress.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/gait"
	"github.com/gwillem/spider/pkg/motion"
	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "walk",
})

// ErrAlreadyRunning is returned when a motion is requested while another
// one is playing.
var ErrAlreadyRunning = errors.New("already running")

// State is a snapshot of the robot, sent after every written step.
type State struct {
	Angles    map[robot.JointName]float64
	Gait      gait.Status
	Timestamp time.Time
	Error     error
}

// Status describes the controller for API clients.
type Status struct {
	Running   bool                        `json:"running"`
	RunID     string                      `json:"run_id,omitempty"`
	Gait      gait.Status                 `json:"gait"`
	Angles    map[robot.JointName]float64 `json:"angles"`
	LastError string                      `json:"last_error,omitempty"`
}

// Torquer is implemented by ports whose servos can be switched limp.
type Torquer interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
}

// Options tune a controller.
type Options struct {
	// Sim selects the simulator mirror table.
	Sim bool
	// Cycles is used when Run or Launch get a zero cycle count.
	Cycles int
}

// Controller owns the player and the sequencer of one robot.
type Controller struct {
	port   motion.Port
	cfg    *robot.Config
	lib    *pose.Library
	player *motion.Player
	seq    *gait.Sequencer
	cycles int

	mu      sync.RWMutex
	running bool
	runID   string
	cancel  context.CancelFunc
	lastErr error
	wg      sync.WaitGroup

	stateCh chan State
	logCh   chan string
}

// NewController wires a controller to a port. The player starts from the
// port's readout.
func NewController(ctx context.Context, port motion.Port, pacer motion.Pacer, cfg *robot.Config, opts Options) (*Controller, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	lib, err := pose.NewLibrary(layout, cfg.PosesFor(opts.Sim))
	if err != nil {
		return nil, fmt.Errorf("pose library: %w", err)
	}
	player, err := motion.NewPlayer(ctx, port, pacer)
	if err != nil {
		return nil, err
	}
	seq, err := gait.New(player, lib, cfg.Gait)
	if err != nil {
		return nil, fmt.Errorf("gait: %w", err)
	}

	cycles := opts.Cycles
	if cycles <= 0 {
		cycles = cfg.Gait.Cycles
	}

	c := &Controller{
		port:    port,
		cfg:     cfg,
		lib:     lib,
		player:  player,
		seq:     seq,
		cycles:  cycles,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}
	player.Observe(func(v robot.Vector) {
		angles, _ := layout.Map(v)
		c.sendState(State{Angles: angles, Gait: seq.Status(), Timestamp: time.Now()})
	})
	seq.Listen(func(e gait.Event) {
		if e.Phase > 0 {
			c.log("cycle %d/%d phase %d/%d: %s", e.Cycle, e.Cycles, e.Phase, e.Phases, e.Segment)
		} else {
			c.log("%s done", e.Segment)
		}
	})
	return c, nil
}

// Close stops any run and releases the port.
func (c *Controller) Close() error {
	c.Stop()
	c.wg.Wait()
	if cl, ok := c.port.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// States returns a channel that receives state updates. Only the newest
// state is kept.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Library returns the pose library.
func (c *Controller) Library() *pose.Library {
	return c.lib
}

// Poses returns the names of the known poses.
func (c *Controller) Poses() []string {
	return c.lib.PoseNames()
}

// Sequencer returns the gait sequencer.
func (c *Controller) Sequencer() *gait.Sequencer {
	return c.seq
}

// Cycles returns the default cycle count.
func (c *Controller) Cycles() int {
	return c.cycles
}

func (c *Controller) log(format string, args ...any) {
	log.Infof(format, args...)
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		select {
		case c.stateCh <- s:
		default:
		}
	}
}

func (c *Controller) acquire(runID string, cancel context.CancelFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrAlreadyRunning
	}
	c.running = true
	c.runID = runID
	c.cancel = cancel
	return nil
}

func (c *Controller) release(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.cancel = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		c.lastErr = err
	} else {
		c.lastErr = nil
	}
}

// Run plays the full sequence with the given number of cycles (zero for
// the default) and blocks until it is done. If ctx is cancelled the robot
// finishes its segment and returns to neutral.
func (c *Controller) Run(ctx context.Context, cycles int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := c.acquire(uuid.NewString(), cancel); err != nil {
		return err
	}
	err := c.run(ctx, cycles)
	c.release(err)
	return err
}

// Launch starts the sequence in the background and returns its run ID.
func (c *Controller) Launch(cycles int) (string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	runID := uuid.NewString()
	if err := c.acquire(runID, cancel); err != nil {
		cancel()
		return "", err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		err := c.run(ctx, cycles)
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log("Run %s failed: %v", runID, err)
		}
		c.release(err)
	}()
	return runID, nil
}

// Wait blocks until the background run, if any, has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Stop cancels the current run. It reports whether a run was active.
func (c *Controller) Stop() bool {
	c.mu.RLock()
	cancel := c.cancel
	c.mu.RUnlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}

func (c *Controller) run(ctx context.Context, cycles int) error {
	if cycles <= 0 {
		cycles = c.cycles
	}

	if t, ok := c.port.(Torquer); ok {
		if err := t.Enable(ctx); err != nil {
			c.log("Warning: failed to enable torque: %v", err)
		} else {
			c.log("Torque enabled")
		}
	}

	c.log("Walking %d cycles (%s per cycle)", cycles, c.seq.Cycle().Duration())
	err := c.seq.Run(ctx, cycles)
	if errors.Is(err, context.Canceled) {
		c.shutdown()
		return err
	}
	if err != nil {
		c.sendState(State{Gait: c.seq.Status(), Timestamp: time.Now(), Error: err})
		return err
	}
	c.log("Walk finished")
	return nil
}

func (c *Controller) shutdown() {
	c.log("Stopping, returning to neutral")
	if err := c.seq.Return(context.Background()); err != nil {
		c.log("Warning: failed to return: %v", err)
		return
	}
	c.log("Walk stopped")
}

// PlayPose moves to a named pose with the stand timing. Stop cancels it like
// a walk.
func (c *Controller) PlayPose(ctx context.Context, name string) error {
	p, err := c.lib.Pose(name)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := c.acquire(uuid.NewString(), cancel); err != nil {
		return err
	}
	m := c.cfg.Gait.Stand
	err = c.player.Play(ctx, p, m.Duration.Duration, m.Steps)
	c.release(err)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	c.log("Moved to %s", p)
	return nil
}

// Status returns the controller status.
func (c *Controller) Status() Status {
	c.mu.RLock()
	st := Status{Running: c.running, RunID: c.runID}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	c.mu.RUnlock()

	st.Gait = c.seq.Status()
	st.Angles, _ = c.lib.Layout().Map(c.player.Current())
	return st
}
