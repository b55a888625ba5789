// Package config loads the host simulator settings from WATCH_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the host configuration.
type Config struct {
	Kernel   KernelConfig
	Headless HeadlessConfig
	Window   WindowConfig
	Logging  LogConfig
	Metrics  MetricsConfig
	Battery  BatteryConfig
}

// KernelConfig tunes the kernel loop.
type KernelConfig struct {
	FramePeriod       time.Duration `envconfig:"WATCH_FRAME_PERIOD" default:"33ms"`
	InactivityTimeout time.Duration `envconfig:"WATCH_INACTIVITY_TIMEOUT" default:"15s"`
	QueueSize         int           `envconfig:"WATCH_QUEUE_SIZE" default:"256"`
	Brightness        float32       `envconfig:"WATCH_BRIGHTNESS" default:"0.5"`
}

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Enabled bool   `envconfig:"WATCH_HEADLESS" default:"false"`
	Hz      int    `envconfig:"WATCH_HZ" default:"60"`
	Ticks   uint64 `envconfig:"WATCH_TICKS" default:"0"`
}

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width  int `envconfig:"WATCH_WIDTH" default:"240"`
	Height int `envconfig:"WATCH_HEIGHT" default:"240"`
	Scale  int `envconfig:"WATCH_SCALE" default:"2"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"WATCH_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"WATCH_LOG_DEV" default:"true"`
	// ConsoleRows is the height of the on-screen log overlay; zero hides it.
	ConsoleRows int `envconfig:"WATCH_CONSOLE_ROWS" default:"0"`
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	// Addr is the listen address of the metrics server; empty disables it.
	Addr string `envconfig:"WATCH_METRICS_ADDR" default:""`
}

// BatteryConfig seeds the simulated PMU.
type BatteryConfig struct {
	Percent  int  `envconfig:"WATCH_BATTERY_PERCENT" default:"80"`
	Charging bool `envconfig:"WATCH_CHARGING" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Kernel: KernelConfig{
			FramePeriod:       33 * time.Millisecond,
			InactivityTimeout: 15 * time.Second,
			QueueSize:         256,
			Brightness:        0.5,
		},
		Headless: HeadlessConfig{Hz: 60},
		Window:   WindowConfig{Width: 240, Height: 240, Scale: 2},
		Logging:  LogConfig{Level: "info", Development: true},
		Battery:  BatteryConfig{Percent: 80},
	}
}

// Validate rejects settings the runtime cannot use.
func (c *Config) Validate() error {
	switch {
	case c.Kernel.FramePeriod <= 0:
		return fmt.Errorf("config: frame period must be positive, got %v", c.Kernel.FramePeriod)
	case c.Kernel.InactivityTimeout < 0:
		return fmt.Errorf("config: inactivity timeout must not be negative, got %v", c.Kernel.InactivityTimeout)
	case c.Kernel.Brightness < 0 || c.Kernel.Brightness > 1:
		return fmt.Errorf("config: brightness must be within [0, 1], got %v", c.Kernel.Brightness)
	case c.Headless.Hz <= 0:
		return fmt.Errorf("config: hz must be positive, got %d", c.Headless.Hz)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: invalid screen %dx%d", c.Window.Width, c.Window.Height)
	case c.Battery.Percent < 0 || c.Battery.Percent > 100:
		return fmt.Errorf("config: battery percent must be within [0, 100], got %d", c.Battery.Percent)
	}
	return nil
}
