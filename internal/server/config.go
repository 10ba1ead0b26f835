package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/cardgolf/internal/golf"
)

// Config is the golf-server configuration, loaded from an HCL file.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains listener-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains engine and session lifecycle configuration.
type GameSettings struct {
	// MaxRounds caps the turn cycles per round; zero keeps the engine
	// default. Values above the default are rejected so a round can
	// never draw the deck empty.
	MaxRounds int `hcl:"max_rounds,optional"`
	// SessionTTLMinutes is how long an idle session survives before the
	// sweeper evicts it.
	SessionTTLMinutes int `hcl:"session_ttl_minutes,optional"`
	// MaxSessions bounds concurrent sessions; creates fail when full.
	MaxSessions int `hcl:"max_sessions,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     5000,
			LogLevel: "info",
		},
		Game: GameSettings{
			SessionTTLMinutes: 30,
			MaxSessions:       1000,
		},
	}
}

// LoadConfig loads configuration from an HCL file, applying defaults for
// missing values. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.SessionTTLMinutes == 0 {
		config.Game.SessionTTLMinutes = defaults.Game.SessionTTLMinutes
	}
	if config.Game.MaxSessions == 0 {
		config.Game.MaxSessions = defaults.Game.MaxSessions
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.SessionTTLMinutes < 1 {
		return fmt.Errorf("session TTL must be at least one minute, got %d", c.Game.SessionTTLMinutes)
	}
	if c.Game.MaxSessions < 1 {
		return fmt.Errorf("max sessions must be positive, got %d", c.Game.MaxSessions)
	}
	if c.Game.MaxRounds < 0 || c.Game.MaxRounds > golf.DefaultMaxRounds {
		return fmt.Errorf("max rounds must be between 0 and %d, got %d", golf.DefaultMaxRounds, c.Game.MaxRounds)
	}
	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionTTL returns the idle eviction window as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Game.SessionTTLMinutes) * time.Minute
}
