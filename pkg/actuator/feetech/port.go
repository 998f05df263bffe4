// Package feetech drives the robot with Feetech STS serial-bus servos.
// Joint calibration channels are the servo IDs.
package feetech

import (
	"context"
	"fmt"
	"time"

	sts "github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/robot"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "feetech",
})

// Port represents the servo bus of one robot.
type Port struct {
	bus    *sts.Bus
	group  *sts.ServoGroup
	layout *robot.Layout
	joints []robot.JointCalibration
}

// OpenBus opens the serial bus.
func OpenBus(port string, baud int) (*sts.Bus, error) {
	if baud == 0 {
		baud = 1_000_000
	}
	bus, err := sts.NewBus(sts.BusConfig{
		Port:     port,
		BaudRate: baud,
		Protocol: sts.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus %s: %w", port, err)
	}
	return bus, nil
}

// Open connects to the bus described by cfg.
func Open(cfg robot.FeetechConfig, layout *robot.Layout, cal robot.Calibration) (*Port, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("%w: no feetech port configured", robot.ErrConfiguration)
	}
	joints, err := cal.Ordered(layout)
	if err != nil {
		return nil, err
	}
	bus, err := OpenBus(cfg.Port, cfg.BaudRate)
	if err != nil {
		return nil, err
	}
	log.Infof("bus open on %s", cfg.Port)
	return NewPort(bus, layout, joints), nil
}

// NewPort creates a port over an open bus.
func NewPort(bus *sts.Bus, layout *robot.Layout, joints []robot.JointCalibration) *Port {
	ids := make([]int, len(joints))
	for i, j := range joints {
		ids[i] = j.Channel
	}
	return &Port{
		bus:    bus,
		group:  sts.NewServoGroupByIDs(bus, ids...),
		layout: layout,
		joints: joints,
	}
}

// Close closes the bus connection.
func (p *Port) Close() error {
	return p.bus.Close()
}

// Enable enables torque on all servos.
func (p *Port) Enable(ctx context.Context) error {
	return p.group.EnableAll(ctx)
}

// Disable disables torque on all servos.
func (p *Port) Disable(ctx context.Context) error {
	return p.group.DisableAll(ctx)
}

// Write moves all servos with a single sync write.
func (p *Port) Write(ctx context.Context, v robot.Vector) error {
	raw, err := Encode(p.joints, v)
	if err != nil {
		return err
	}
	if err := p.group.SetPositions(ctx, raw); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	return nil
}

// Read reads all servo positions with a single sync read.
func (p *Port) Read(ctx context.Context) (robot.Vector, error) {
	raw, err := p.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	return Decode(p.layout, p.joints, raw)
}

// RawPositions reads the raw tick positions keyed by servo ID.
func (p *Port) RawPositions(ctx context.Context) (map[int]int, error) {
	raw, err := p.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	out := make(map[int]int, len(raw))
	for id, r := range raw {
		out[id] = r
	}
	return out, nil
}

// Joints returns the calibration of every joint in layout order.
func (p *Port) Joints() []robot.JointCalibration {
	return p.joints
}

// Encode converts logical angles into raw positions keyed by servo ID.
func Encode(joints []robot.JointCalibration, v robot.Vector) (sts.PositionMap, error) {
	if len(v) != len(joints) {
		return nil, fmt.Errorf("%w: got %d angles, bus has %d servos", robot.ErrDimensionMismatch, len(v), len(joints))
	}
	raw := make(sts.PositionMap, len(joints))
	for i, j := range joints {
		raw[j.Channel] = j.Ticks(v[i])
	}
	return raw, nil
}

// Decode converts raw positions keyed by servo ID into logical angles.
func Decode[M ~map[int]int](layout *robot.Layout, joints []robot.JointCalibration, raw M) (robot.Vector, error) {
	v := make(robot.Vector, len(joints))
	for i, j := range joints {
		r, ok := raw[j.Channel]
		if !ok {
			return nil, fmt.Errorf("no position for %s (id %d)", layout.Name(i), j.Channel)
		}
		v[i] = j.Degrees(r)
	}
	return v, nil
}
