// Package pwm drives hobby servos through 16-bit PWM duty cycles.
package pwm

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gwillem/spider/pkg/robot"
)

// DefaultFrequency is the servo refresh rate in Hz.
const DefaultFrequency = 50

var log = logrus.WithFields(logrus.Fields{
	"pkg": "pwm",
})

// Driver sets frequency and duty on numbered PWM channels.
type Driver interface {
	Configure(channel, hz int) error
	SetDuty(channel int, duty uint16) error
}

// Port maps logical joint angles onto PWM channels. Hobby servos have no
// feedback, so Read returns the last vector written.
type Port struct {
	driver Driver
	layout *robot.Layout
	joints []robot.JointCalibration

	mu   sync.Mutex
	echo robot.Vector
}

// NewPort configures every calibrated channel at hz and returns the port.
func NewPort(driver Driver, layout *robot.Layout, cal robot.Calibration, hz int) (*Port, error) {
	if hz <= 0 {
		return nil, fmt.Errorf("%w: pwm frequency %d", robot.ErrConfiguration, hz)
	}
	joints, err := cal.Ordered(layout)
	if err != nil {
		return nil, err
	}
	for i, j := range joints {
		if err := driver.Configure(j.Channel, hz); err != nil {
			return nil, fmt.Errorf("configure %s (channel %d): %w", layout.Name(i), j.Channel, err)
		}
	}
	log.Debugf("configured %d channels at %d Hz", len(joints), hz)

	return &Port{
		driver: driver,
		layout: layout,
		joints: joints,
		echo:   layout.Zero(),
	}, nil
}

// Duties returns the duty cycle of every joint for v, in layout order.
func (p *Port) Duties(v robot.Vector) ([]uint16, error) {
	if len(v) != len(p.joints) {
		return nil, fmt.Errorf("%w: got %d angles, port has %d joints", robot.ErrDimensionMismatch, len(v), len(p.joints))
	}
	duties := make([]uint16, len(v))
	for i, j := range p.joints {
		duties[i] = j.Duty(v[i])
	}
	return duties, nil
}

// Write sends one duty per joint. The echo is only updated when every
// channel accepted its duty.
func (p *Port) Write(_ context.Context, v robot.Vector) error {
	duties, err := p.Duties(v)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, d := range duties {
		ch := p.joints[i].Channel
		if err := p.driver.SetDuty(ch, d); err != nil {
			return fmt.Errorf("set %s (channel %d): %w", p.layout.Name(i), ch, err)
		}
	}
	p.echo = v.Clone()
	return nil
}

// Read returns the last vector written.
func (p *Port) Read(context.Context) (robot.Vector, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.echo.Clone(), nil
}
