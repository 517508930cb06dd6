// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the CLI commands.
// Command line flags override the values loaded here.
type Config struct {
	TickRate    time.Duration `env:"GAMESTATE_TICK_RATE" envDefault:"50ms"`
	QueueSize   int           `env:"GAMESTATE_QUEUE_SIZE" envDefault:"256"`
	HTTPAddr    string        `env:"GAMESTATE_HTTP_ADDR"`
	RedisAddr   string        `env:"GAMESTATE_REDIS_ADDR"`
	RedisPrefix string        `env:"GAMESTATE_REDIS_PREFIX" envDefault:"gamestate:"`
	LogLevel    string        `env:"GAMESTATE_LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"GAMESTATE_LOG_FORMAT" envDefault:"text"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the runner cannot work with.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %s", c.TickRate)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue size must be positive, got %d", c.QueueSize)
	}
	return nil
}
