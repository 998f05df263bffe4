package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const DefaultConfigFile = "spider.json"

// Gait phase names used by leg entries in the cycle table.
const (
	PhaseLift  = "lift"
	PhaseLower = "lower"
)

// Config holds the robot configuration
type Config struct {
	Joints      []JointName   `json:"joints"`
	Calibration Calibration   `json:"calibration"`
	Poses       PoseConfig    `json:"poses"`
	Gait        GaitConfig    `json:"gait"`
	PWM         PWMConfig     `json:"pwm"`
	Feetech     FeetechConfig `json:"feetech"`
	Sim         SimConfig     `json:"sim"`
}

// PoseConfig holds the named pose and delta tables. Joints missing from an
// entry are zero.
type PoseConfig struct {
	Poses  map[string]map[JointName]float64 `json:"poses"`
	Deltas map[string]map[JointName]float64 `json:"deltas,omitempty"`
	// Joints whose delta sign is inverted when a delta is applied.
	Mirror []JointName `json:"mirror,omitempty"`
}

// Motion is a duration split into interpolation steps.
type Motion struct {
	Duration Duration `json:"duration"`
	Steps    int      `json:"steps"`
}

// LegStep holds the per-leg swing parameters, relative to the base stance.
type LegStep struct {
	HipSwing float64 `json:"hip_swing"`
	Bend     float64 `json:"bend"`
	// Left on the tibia after landing. Negative values keep the foot from
	// dragging at touchdown.
	TibiaResidual float64 `json:"tibia_residual"`
}

// Entry is one row of the gait cycle table. Exactly one of Pose, Delta or Leg
// is set.
type Entry struct {
	Pose  string `json:"pose,omitempty"`
	Delta string `json:"delta,omitempty"`
	Leg   Leg    `json:"leg,omitempty"`
	Phase string `json:"phase,omitempty"`
	// Overrides the default phase motion when Steps > 0.
	Motion *Motion `json:"motion,omitempty"`
	// Overrides the default phase pause when set.
	Pause *Duration `json:"pause,omitempty"`
}

// GaitConfig holds gait timing and the cycle table.
type GaitConfig struct {
	NeutralPose string `json:"neutral_pose"`
	BasePose    string `json:"base_pose"`

	Init   Motion `json:"init"`
	Stand  Motion `json:"stand"`
	Phase  Motion `json:"phase"`
	Reset  Motion `json:"reset"`
	Return Motion `json:"return"`

	SettlePause Duration `json:"settle_pause"`
	PhasePause  Duration `json:"phase_pause"`
	ResetPause  Duration `json:"reset_pause"`
	CyclePause  Duration `json:"cycle_pause"`

	Legs   map[Leg]LegStep `json:"legs"`
	Cycle  []Entry         `json:"cycle"`
	Cycles int             `json:"cycles"`
}

// PWMConfig holds the PWM actuator settings.
type PWMConfig struct {
	Frequency int `json:"frequency"`
	// Serial port of the PWM bridge board.
	Port     string `json:"port,omitempty"`
	BaudRate int    `json:"baud_rate,omitempty"`
}

// FeetechConfig holds the serial-bus servo settings.
type FeetechConfig struct {
	Port     string `json:"port,omitempty"`
	BaudRate int    `json:"baud_rate,omitempty"`
}

// SimConfig holds the simulator settings.
type SimConfig struct {
	// Maps logical joints to the DOF names of the simulated asset.
	DOFNames  map[JointName]string `json:"dof_names"`
	Mirror    []JointName          `json:"mirror,omitempty"`
	Dt        Duration             `json:"dt"`
	Stiffness float64              `json:"stiffness"`
	Damping   float64              `json:"damping"`
}

// Duration is a time.Duration encoded as a string ("400ms") in JSON.
type Duration struct {
	time.Duration
}

// Seconds builds a Duration from fractional seconds.
func Seconds(s float64) Duration {
	return Duration{time.Duration(s * float64(time.Second))}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"400ms\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Stance angles of the reference build, in degrees.
const (
	BackHipAngle  = -20.0
	FrontHipAngle = 5.0
	FemurAngle    = 55.0
	TibiaAngle    = -15.0
)

// DefaultConfig returns the configuration of the reference build.
func DefaultConfig() *Config {
	stand := make(map[JointName]float64, NumJoints)
	pull := make(map[JointName]float64, 4)
	legs := make(map[Leg]LegStep, 4)
	for _, leg := range AllLegs() {
		hip, femur, tibia := LegJoints(leg)
		stand[hip] = BackHipAngle
		legs[leg] = LegStep{HipSwing: 15, Bend: 18, TibiaResidual: -2}
		if leg.Front() {
			stand[hip] = FrontHipAngle
			legs[leg] = LegStep{HipSwing: 25, Bend: 18, TibiaResidual: -3}
		}
		stand[femur] = FemurAngle
		stand[tibia] = TibiaAngle
		pull[hip] = 1.0
	}

	return &Config{
		Joints:      AllJoints(),
		Calibration: DefaultCalibration(),
		Poses: PoseConfig{
			Poses: map[string]map[JointName]float64{
				"neutral": {},
				"stand":   stand,
			},
			Deltas: map[string]map[JointName]float64{
				"pull": pull,
			},
		},
		Gait: GaitConfig{
			NeutralPose: "neutral",
			BasePose:    "stand",
			Init:        Motion{Duration: Seconds(1.0), Steps: 50},
			Stand:       Motion{Duration: Seconds(1.5), Steps: 60},
			Phase:       Motion{Duration: Seconds(0.4), Steps: 35},
			Reset:       Motion{Duration: Seconds(0.6), Steps: 40},
			Return:      Motion{Duration: Seconds(1.0), Steps: 50},
			SettlePause: Seconds(1.0),
			PhasePause:  Seconds(0.5),
			ResetPause:  Seconds(0.5),
			CyclePause:  Seconds(0.2),
			Legs:        legs,
			Cycle: []Entry{
				{Leg: FrontRight, Phase: PhaseLift},
				{Leg: FrontRight, Phase: PhaseLower},
				{Leg: BackLeft, Phase: PhaseLift},
				{Leg: BackLeft, Phase: PhaseLower},
				{Delta: "pull"},
				{Leg: FrontLeft, Phase: PhaseLift},
				{Leg: FrontLeft, Phase: PhaseLower},
				{Leg: BackRight, Phase: PhaseLift},
				{Leg: BackRight, Phase: PhaseLower},
				{Delta: "pull"},
			},
			Cycles: 5,
		},
		PWM: PWMConfig{
			Frequency: 50,
			BaudRate:  115200,
		},
		Feetech: FeetechConfig{
			BaudRate: 1_000_000,
		},
		Sim: SimConfig{
			DOFNames: map[JointName]string{
				FRHip: "Revolute_10", FRFemur: "Revolute_35", FRTibia: "Revolute_36",
				FLHip: "Revolute_4", FLFemur: "Revolute_33", FLTibia: "Revolute_34",
				BRHip: "Revolute_7", BRFemur: "Revolute_30", BRTibia: "Revolute_31",
				BLHip: "Revolute_1", BLFemur: "Revolute_32", BLTibia: "Revolute_37",
			},
			Mirror:    []JointName{BLHip, BRHip},
			Dt:        Duration{time.Second / 60},
			Stiffness: 30,
			Damping:   15,
		},
	}
}

// Layout builds the joint layout declared by the configuration.
func (c *Config) Layout() (*Layout, error) {
	return NewLayout(c.Joints)
}

// PosesFor returns the pose tables with the mirror table of the given
// target. The simulator asset has its own joint axes.
func (c *Config) PosesFor(sim bool) PoseConfig {
	pc := c.Poses
	if sim {
		pc.Mirror = c.Sim.Mirror
	}
	return pc
}

// Validate checks that every table only references known joints, poses and
// deltas, and that timings are usable. It returns an ErrConfiguration.
func (c *Config) Validate() error {
	layout, err := c.Layout()
	if err != nil {
		return err
	}
	if _, err := c.Calibration.Ordered(layout); err != nil {
		return err
	}
	for _, table := range []map[string]map[JointName]float64{c.Poses.Poses, c.Poses.Deltas} {
		for name, angles := range table {
			if _, err := layout.Vector(angles); err != nil {
				return fmt.Errorf("pose %q: %w", name, err)
			}
		}
	}
	for _, mirror := range [][]JointName{c.Poses.Mirror, c.Sim.Mirror} {
		for _, name := range mirror {
			if _, err := layout.Index(name); err != nil {
				return fmt.Errorf("mirror: %w", err)
			}
		}
	}
	for name := range c.Sim.DOFNames {
		if _, err := layout.Index(name); err != nil {
			return fmt.Errorf("sim dof names: %w", err)
		}
	}
	return c.Gait.validate(c.Poses)
}

func (g *GaitConfig) validate(pc PoseConfig) error {
	for _, name := range []string{g.NeutralPose, g.BasePose} {
		if _, ok := pc.Poses[name]; !ok {
			return fmt.Errorf("%w: gait references unknown pose %q", ErrConfiguration, name)
		}
	}
	motions := map[string]Motion{
		"init": g.Init, "stand": g.Stand, "phase": g.Phase, "reset": g.Reset, "return": g.Return,
	}
	for name, m := range motions {
		if err := m.validate(); err != nil {
			return fmt.Errorf("gait %s: %w", name, err)
		}
	}
	for _, d := range []Duration{g.SettlePause, g.PhasePause, g.ResetPause, g.CyclePause} {
		if d.Duration < 0 {
			return fmt.Errorf("%w: negative pause %s", ErrConfiguration, d)
		}
	}
	if g.Cycles < 0 {
		return fmt.Errorf("%w: negative cycle count %d", ErrConfiguration, g.Cycles)
	}
	for i, e := range g.Cycle {
		if err := e.validate(pc, g.Legs); err != nil {
			return fmt.Errorf("gait cycle entry %d: %w", i, err)
		}
	}
	return nil
}

func (m Motion) validate() error {
	if m.Steps < 1 {
		return fmt.Errorf("%w: steps must be >= 1, got %d", ErrConfiguration, m.Steps)
	}
	if m.Duration.Duration < 0 {
		return fmt.Errorf("%w: negative duration %s", ErrConfiguration, m.Duration)
	}
	return nil
}

func (e Entry) validate(pc PoseConfig, legs map[Leg]LegStep) error {
	set := 0
	for _, s := range []string{e.Pose, e.Delta, string(e.Leg)} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: exactly one of pose, delta or leg must be set", ErrConfiguration)
	}
	switch {
	case e.Pose != "":
		if _, ok := pc.Poses[e.Pose]; !ok {
			return fmt.Errorf("%w: unknown pose %q", ErrConfiguration, e.Pose)
		}
	case e.Delta != "":
		if _, ok := pc.Deltas[e.Delta]; !ok {
			return fmt.Errorf("%w: unknown delta %q", ErrConfiguration, e.Delta)
		}
	default:
		if _, ok := legs[e.Leg]; !ok {
			return fmt.Errorf("%w: no step parameters for leg %q", ErrConfiguration, e.Leg)
		}
		if e.Phase != PhaseLift && e.Phase != PhaseLower {
			return fmt.Errorf("%w: leg phase must be %q or %q, got %q", ErrConfiguration, PhaseLift, PhaseLower, e.Phase)
		}
	}
	if e.Motion != nil {
		if err := e.Motion.validate(); err != nil {
			return err
		}
	}
	if e.Pause != nil && e.Pause.Duration < 0 {
		return fmt.Errorf("%w: negative pause %s", ErrConfiguration, e.Pause)
	}
	return nil
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Fields absent from
// the file keep their default values.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the given config file exists
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
