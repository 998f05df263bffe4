//go:build tinygo

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/servo"
)

// servoPeriodMicros is one 50 Hz frame.
const servoPeriodMicros = 20000

var errFrequency = errors.New("servo outputs only run at 50 Hz")

// servoDriver maps PWM channels to GPIO pins driven by the servo driver.
type servoDriver struct {
	servos map[int]servo.Servo
}

func newServoDriver() *servoDriver {
	return &servoDriver{servos: make(map[int]servo.Servo)}
}

// Configure sets up the pin with the same number as the channel.
func (d *servoDriver) Configure(channel, hz int) error {
	if hz != 50 {
		return errFrequency
	}
	if _, ok := d.servos[channel]; ok {
		return nil
	}
	pin := machine.Pin(channel)
	s, err := servo.New(pwmGroup(pin), pin)
	if err != nil {
		return err
	}
	d.servos[channel] = s
	return nil
}

// SetDuty converts a 16-bit duty into a pulse width.
func (d *servoDriver) SetDuty(channel int, duty uint16) error {
	s, ok := d.servos[channel]
	if !ok {
		return errors.New("channel not configured")
	}
	s.SetMicroseconds(int16(uint32(duty) * servoPeriodMicros / 65536))
	return nil
}

// pwmGroup returns the PWM slice of an RP2040 pin.
func pwmGroup(pin machine.Pin) servo.PWM {
	switch (pin >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
