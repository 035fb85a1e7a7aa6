// Package config loads the server's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk server configuration.
type Config struct {
	Listen  ListenConfig  `yaml:"listen"`
	Game    GameConfig    `yaml:"game"`
	Motion  MotionConfig  `yaml:"motion"`
	Logging LoggingConfig `yaml:"logging"`
}

// ListenConfig selects the HTTP bind address.
type ListenConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GameConfig tunes the simulation loop and arena geometry.
type GameConfig struct {
	TickRate        int     `yaml:"tick_rate"`
	CatchupMaxTicks int     `yaml:"catchup_max_ticks"`
	ArenaWidth      float64 `yaml:"arena_width"`
	PaddleHalfWidth float64 `yaml:"paddle_half_width"`
	PaddleSpeed     float64 `yaml:"paddle_speed"`
	ClientDir       string  `yaml:"client_dir"`
}

// MotionConfig tunes the default pointer-smoothing behavior handed to new
// controllers.
type MotionConfig struct {
	EnableSmoothing bool    `yaml:"enable_smoothing"`
	SmoothingRate   float64 `yaml:"smoothing_rate"`
}

// LoggingConfig selects event sinks.
type LoggingConfig struct {
	Sinks    []string `yaml:"sinks"`
	JSONFile string   `yaml:"json_file"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Listen: ListenConfig{Host: "0.0.0.0", Port: 8080},
		Game: GameConfig{
			TickRate:        60,
			CatchupMaxTicks: 4,
			ArenaWidth:      800,
			PaddleHalfWidth: 40,
			PaddleSpeed:     480,
		},
		Motion: MotionConfig{
			EnableSmoothing: true,
			SmoothingRate:   0.15,
		},
		Logging: LoggingConfig{Sinks: []string{"console"}},
	}
}

// Load reads the configuration at path, layered over defaults. A missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values instead of rejecting them.
func (c *Config) normalize() {
	if c.Listen.Port <= 0 || c.Listen.Port > 65535 {
		c.Listen.Port = 8080
	}
	if c.Game.TickRate < 1 {
		c.Game.TickRate = 60
	}
	if c.Game.CatchupMaxTicks < 1 {
		c.Game.CatchupMaxTicks = 1
	}
	if c.Game.ArenaWidth <= 0 {
		c.Game.ArenaWidth = 800
	}
	if c.Game.PaddleHalfWidth <= 0 {
		c.Game.PaddleHalfWidth = 40
	}
	if c.Game.PaddleSpeed <= 0 {
		c.Game.PaddleSpeed = 480
	}
	if c.Motion.SmoothingRate < 0 {
		c.Motion.SmoothingRate = 0
	}
	if c.Motion.SmoothingRate > 1 {
		c.Motion.SmoothingRate = 1
	}
	if len(c.Logging.Sinks) == 0 {
		c.Logging.Sinks = []string{"console"}
	}
}

// Addr renders the bind address.
func (c ListenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
