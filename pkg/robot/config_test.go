package robot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	layout, err := cfg.Layout()
	require.NoError(t, err)

	stand, err := layout.Vector(cfg.Poses.Poses["stand"])
	require.NoError(t, err)
	assert.Equal(t, Vector{
		-20, 55, -15,
		-20, 55, -15,
		5, 55, -15,
		5, 55, -15,
	}, stand)
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spider.json")

	cfg := DefaultConfig()
	cfg.Gait.Cycles = 3
	cfg.Gait.Phase.Duration = Seconds(0.25)
	require.NoError(t, cfg.SaveTo(path))
	assert.True(t, ConfigExists(path))

	loaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Gait.Cycles)
	assert.Equal(t, 250*time.Millisecond, loaded.Gait.Phase.Duration.Duration)
	assert.Equal(t, cfg.Gait.Cycle, loaded.Gait.Cycle)
	assert.Equal(t, cfg.Calibration, loaded.Calibration)
}

func TestLoadConfigFrom_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spider.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gait": {"cycles": 2, "phase_pause": "100ms"}}`), 0644))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Gait.Cycles)
	assert.Equal(t, 100*time.Millisecond, cfg.Gait.PhasePause.Duration)
	assert.Equal(t, 35, cfg.Gait.Phase.Steps)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFrom_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spider.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gait": {"phase_pause": 5}}`), 0644))

	_, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestConfig_ValidateErrors(t *testing.T) {
	tests := map[string]func(c *Config){
		"unknown pose joint": func(c *Config) {
			c.Poses.Poses["stand"]["TAIL"] = 1
		},
		"unknown mirror joint": func(c *Config) {
			c.Poses.Mirror = []JointName{"TAIL"}
		},
		"unknown sim joint": func(c *Config) {
			c.Sim.DOFNames["TAIL"] = "Revolute_99"
		},
		"missing base pose": func(c *Config) {
			c.Gait.BasePose = "crouch"
		},
		"unknown delta entry": func(c *Config) {
			c.Gait.Cycle = append(c.Gait.Cycle, Entry{Delta: "wiggle"})
		},
		"bad phase": func(c *Config) {
			c.Gait.Cycle = append(c.Gait.Cycle, Entry{Leg: FrontLeft, Phase: "hop"})
		},
		"two kinds": func(c *Config) {
			c.Gait.Cycle = append(c.Gait.Cycle, Entry{Pose: "stand", Delta: "pull"})
		},
		"zero steps": func(c *Config) {
			c.Gait.Phase.Steps = 0
		},
		"negative pause": func(c *Config) {
			c.Gait.CyclePause = Seconds(-1)
		},
		"duplicate joint": func(c *Config) {
			c.Joints = append(c.Joints, BLHip)
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
		})
	}
}

func TestConfig_PosesFor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.PosesFor(false).Mirror)
	assert.Equal(t, []JointName{BLHip, BRHip}, cfg.PosesFor(true).Mirror)
}
