package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/actuator/feetech"
	"github.com/gwillem/spider/pkg/actuator/pwm"
	"github.com/gwillem/spider/pkg/actuator/sim"
	"github.com/gwillem/spider/pkg/motion"
	"github.com/gwillem/spider/pkg/robot"
	"github.com/gwillem/spider/pkg/walk"
)

// Targets the robot can be driven on.
const (
	targetPWM     = "pwm"
	targetFeetech = "feetech"
	targetSim     = "sim"
	targetDry     = "dry"
)

// TargetOptions are shared by every command that moves the robot.
type TargetOptions struct {
	Target string `short:"t" long:"target" default:"dry" choice:"pwm" choice:"feetech" choice:"sim" choice:"dry" description:"Where to send joint angles"`
	Yes    bool   `short:"y" long:"yes" description:"Do not ask before moving real hardware"`
	Fast   bool   `long:"fast" description:"Do not wait between steps (dry runs only)"`
}

func (t TargetOptions) hardware() bool {
	return t.Target == targetPWM || t.Target == targetFeetech
}

// rig is a port with the pacer that fits it.
type rig struct {
	port  motion.Port
	pacer motion.Pacer
	sim   bool
}

// closingPort closes the driver underneath a port that has no Close itself.
type closingPort struct {
	*pwm.Port
	closer io.Closer
}

func (p closingPort) Close() error {
	return p.closer.Close()
}

// loadConfig reads the configuration file, falling back to the defaults
// when it does not exist.
func loadConfig() (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(opts.Config)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("%s not found, using defaults", opts.Config)
		cfg = robot.DefaultConfig()
	} else if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Config, err)
	}
	return cfg, nil
}

func openRig(cfg *robot.Config, t TargetOptions) (*rig, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}

	switch t.Target {
	case targetPWM:
		if cfg.PWM.Port == "" {
			return nil, fmt.Errorf("%w: pwm.port is not set, see 'spider ports'", robot.ErrConfiguration)
		}
		driver, err := pwm.OpenBridge(cfg.PWM.Port, cfg.PWM.BaudRate)
		if err != nil {
			return nil, err
		}
		port, err := pwm.NewPort(driver, layout, cfg.Calibration, cfg.PWM.Frequency)
		if err != nil {
			driver.Close()
			return nil, err
		}
		return &rig{port: closingPort{Port: port, closer: driver}, pacer: motion.WallClock{}}, nil

	case targetFeetech:
		port, err := feetech.Open(cfg.Feetech, layout, cfg.Calibration)
		if err != nil {
			return nil, err
		}
		return &rig{port: port, pacer: motion.WallClock{}}, nil

	case targetSim:
		world, err := sim.NewWorldFromConfig(cfg.Sim)
		if err != nil {
			return nil, err
		}
		port, err := sim.NewPort(world, layout, cfg.Sim.DOFNames)
		if err != nil {
			return nil, err
		}
		return &rig{port: port, pacer: sim.Pacer{World: world}, sim: true}, nil

	default:
		port, err := pwm.NewPort(pwm.NewLogDriver(), layout, cfg.Calibration, cfg.PWM.Frequency)
		if err != nil {
			return nil, err
		}
		var pacer motion.Pacer = motion.WallClock{}
		if t.Fast {
			pacer = motion.NoWait{}
		}
		return &rig{port: port, pacer: pacer}, nil
	}
}

// newController loads the configuration, asks before moving real hardware
// and wires a walk controller to the target.
func newController(t TargetOptions, cycles int) (*walk.Controller, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if t.hardware() && !t.Yes {
		if !confirm(fmt.Sprintf("Move the robot on %s now?", t.Target)) {
			return nil, errors.New("aborted")
		}
	}

	r, err := openRig(cfg, t)
	if err != nil {
		return nil, err
	}
	ctrl, err := walk.NewController(context.Background(), r.port, r.pacer, cfg, walk.Options{Sim: r.sim, Cycles: cycles})
	if err != nil {
		if c, ok := r.port.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}
	return ctrl, nil
}

func confirm(title string) bool {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("Make sure the robot has room to move.").
				Affirmative("Go").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Fprintln(os.Stderr)
		return false
	}
	return ok
}
