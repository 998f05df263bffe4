//go:build tinygo

// Command spider-pico is the microcontroller firmware. In gait mode it walks
// the default gait on 12 servos wired to GPIO 0-11. In bridge mode it
// applies freq/duty lines received on the USB serial console, so the host
// can drive the servos with 'spider walk --target pwm'.
//
//	tinygo flash -target pico ./cmd/spider-pico
//	tinygo flash -target pico -ldflags "-X main.mode=bridge" ./cmd/spider-pico
package main

import (
	"context"
	"time"

	"github.com/gwillem/spider/pkg/actuator/pwm"
	"github.com/gwillem/spider/pkg/bridge"
	"github.com/gwillem/spider/pkg/gait"
	"github.com/gwillem/spider/pkg/motion"
	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

// mode is "gait" or "bridge".
var mode = "gait"

func main() {
	// Give the USB console time to attach.
	time.Sleep(2 * time.Second)

	driver := newServoDriver()
	var err error
	if mode == "bridge" {
		err = runBridge(driver)
	} else {
		err = runGait(driver)
	}
	if err != nil {
		println("spider:", err.Error())
	}
	for {
		time.Sleep(time.Hour)
	}
}

func runGait(driver pwm.Driver) error {
	cfg := robot.DefaultConfig()
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	port, err := pwm.NewPort(driver, layout, cfg.Calibration, cfg.PWM.Frequency)
	if err != nil {
		return err
	}
	lib, err := pose.NewLibrary(layout, cfg.PosesFor(false))
	if err != nil {
		return err
	}

	ctx := context.Background()
	player, err := motion.NewPlayer(ctx, port, motion.WallClock{})
	if err != nil {
		return err
	}
	seq, err := gait.New(player, lib, cfg.Gait)
	if err != nil {
		return err
	}
	seq.Listen(func(e gait.Event) {
		println(string(e.State), e.Cycle, e.Phase, e.Segment)
	})

	println("spider: walking", cfg.Gait.Cycles, "cycles")
	return seq.Run(ctx, cfg.Gait.Cycles)
}

func runBridge(driver pwm.Driver) error {
	println("spider: bridge ready")
	return bridge.Decode(serialReader{}, func(c bridge.Command) error {
		var err error
		switch c.Kind {
		case bridge.Freq:
			err = driver.Configure(c.Channel, c.Value)
		case bridge.Duty:
			err = driver.SetDuty(c.Channel, uint16(c.Value))
		}
		if err != nil {
			println("spider:", err.Error())
		}
		return nil
	}, func(err error) {
		println("spider:", err.Error())
	})
}
