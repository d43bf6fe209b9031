package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig configures the WebSocket listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig configures the redis mirror.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig configures the match rules and timers.
type GameConfig struct {
	TargetScore        int `yaml:"target_score"`        // points to win the match
	TurnTimeout        int `yaml:"turn_timeout"`        // seconds per move
	MatchmakingTimeout int `yaml:"matchmaking_timeout"` // seconds before autofill gives up
	AutofillInterval   int `yaml:"autofill_interval"`   // seconds between queue pulls
	ReconnectGrace     int `yaml:"reconnect_grace"`     // seconds a dropped seat is held
}

// TurnTimeoutDuration returns the per-move time limit.
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// MatchmakingTimeoutDuration returns the autofill deadline.
func (c *GameConfig) MatchmakingTimeoutDuration() time.Duration {
	return time.Duration(c.MatchmakingTimeout) * time.Second
}

// AutofillIntervalDuration returns the queue polling interval.
func (c *GameConfig) AutofillIntervalDuration() time.Duration {
	return time.Duration(c.AutofillInterval) * time.Second
}

// ReconnectGraceDuration returns the disconnect grace window.
func (c *GameConfig) ReconnectGraceDuration() time.Duration {
	return time.Duration(c.ReconnectGrace) * time.Second
}

// Load reads a YAML config file, filling defaults for omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1784
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.TargetScore == 0 {
		cfg.Game.TargetScore = 200
	}
	if cfg.Game.TurnTimeout == 0 {
		cfg.Game.TurnTimeout = 15
	}
	if cfg.Game.MatchmakingTimeout == 0 {
		cfg.Game.MatchmakingTimeout = 30
	}
	if cfg.Game.AutofillInterval == 0 {
		cfg.Game.AutofillInterval = 2
	}
	if cfg.Game.ReconnectGrace == 0 {
		cfg.Game.ReconnectGrace = 120
	}
}
