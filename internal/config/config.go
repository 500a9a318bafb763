// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-climb/internal/climb"
	"github.com/Faultbox/midgard-climb/internal/engine/character"
)

// Config holds all simulator settings.
type Config struct {
	Climb   climb.Config     `yaml:"climb"`
	Physics character.Config `yaml:"physics"`
	Sim     SimConfig        `yaml:"sim"`
	Logging LoggingConfig    `yaml:"logging"`
}

// SimConfig holds fixed-step loop settings.
type SimConfig struct {
	TickRate int    `yaml:"tick_rate" env:"SIM_TICK_RATE"` // steps per second
	Ticks    int    `yaml:"ticks" env:"SIM_TICKS"`         // 0 runs the scene script to its end
	Scene    string `yaml:"scene" env:"SIM_SCENE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"LOG_LEVEL"`
	LogFile string `yaml:"log_file" env:"LOG_FILE"`
	Console bool   `yaml:"console" env:"LOG_CONSOLE"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Climb:   climb.DefaultConfig(),
		Physics: character.DefaultConfig(),
		Sim: SimConfig{
			TickRate: 60,
			Ticks:    0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Console: true,
		},
	}
}

// Step returns the fixed time step in seconds.
func (c *Config) Step() float32 {
	return 1 / float32(c.Sim.TickRate)
}

// Validate checks every section and reports all problems together.
func (c *Config) Validate() error {
	err := multierr.Combine(c.Climb.Validate(), c.Physics.Validate())
	if c.Sim.TickRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("sim.tick_rate must be > 0, got %d", c.Sim.TickRate))
	}
	if c.Sim.Ticks < 0 {
		err = multierr.Append(err, fmt.Errorf("sim.ticks must be >= 0, got %d", c.Sim.Ticks))
	}
	return err
}

// syncPhysics makes falling under climb control use the locomotion gravity.
func (c *Config) syncPhysics() {
	c.Climb.Gravity = c.Physics.Gravity
	c.Climb.MaxFallSpeed = c.Physics.MaxFallSpeed
}
