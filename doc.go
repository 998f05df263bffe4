// Package spider drives a 12-servo quadruped through poses and a
// repeating walking gait.
//
// Every motion is a linear interpolation between joint vectors, written to
// an actuator port one step at a time. Ports exist for hobby servos behind
// a PWM bridge, Feetech serial-bus servos, a small physics simulator and
// dry runs.
//
// # Installation
//
//	go install github.com/gwillem/spider/cmd/spider@latest
//
// # Usage
//
// Write a configuration file and check the gait it describes:
//
//	spider config init
//	spider config check
//
// Walk in the simulator, or on the robot:
//
//	spider walk --target sim --cycles 3
//	spider walk --target pwm --tui
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/spider: CLI with walk, pose, serve, ports, calibrate and config commands
//   - cmd/spider-pico: TinyGo firmware, standalone gait or PWM bridge
//   - pkg/robot: joint layout, vectors, interpolation, calibration and configuration
//   - pkg/pose: named poses and mirrored deltas
//   - pkg/motion: motion player and pacing
//   - pkg/gait: leg phases, gait cycle and sequencer
//   - pkg/actuator/pwm, pkg/actuator/feetech, pkg/actuator/sim: actuator ports
//   - pkg/bridge: host to microcontroller line protocol
//   - pkg/walk: walk controller
//   - pkg/api: HTTP control API
package spider
