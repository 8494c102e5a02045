// Package config loads runtime settings from defaults, an optional file and
// ASTEROIDS_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/robertazzopardi/asteroids/sim"
)

// EnvPrefix is prepended to every environment override, e.g.
// ASTEROIDS_SERVER_ADDR for server.addr
const EnvPrefix = "ASTEROIDS"

// LogConfig holds logger settings
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// ServerConfig holds the websocket front-end settings
type ServerConfig struct {
	Addr        string        `json:"addr" mapstructure:"addr"`
	ClientDir   string        `json:"clientDir" mapstructure:"clientDir"`
	IdleTimeout time.Duration `json:"idleTimeout" mapstructure:"idleTimeout"`
}

// DBConfig holds the score ledger location
type DBConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// AuthConfig toggles pilot accounts
type AuthConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// SimConfig holds simulation tuning
type SimConfig struct {
	FieldSize        float64 `json:"fieldSize" mapstructure:"fieldSize"`
	TickRate         int     `json:"tickRate" mapstructure:"tickRate"`
	BroadcastRate    int     `json:"broadcastRate" mapstructure:"broadcastRate"`
	MaxDt            float64 `json:"maxDt" mapstructure:"maxDt"`
	MaxAsteroids     int     `json:"maxAsteroids" mapstructure:"maxAsteroids"`
	SpawnChance      float64 `json:"spawnChance" mapstructure:"spawnChance"`
	InitialAsteroids int     `json:"initialAsteroids" mapstructure:"initialAsteroids"`
	Seed             uint64  `json:"seed" mapstructure:"seed"`
}

// TUIConfig holds terminal front-end settings
type TUIConfig struct {
	Sound   bool   `json:"sound" mapstructure:"sound"`
	Profile string `json:"profile" mapstructure:"profile"`
}

// Config is the full settings tree
type Config struct {
	Log    LogConfig    `json:"log" mapstructure:"log"`
	Server ServerConfig `json:"server" mapstructure:"server"`
	DB     DBConfig     `json:"db" mapstructure:"db"`
	Auth   AuthConfig   `json:"auth" mapstructure:"auth"`
	Sim    SimConfig    `json:"sim" mapstructure:"sim"`
	TUI    TUIConfig    `json:"tui" mapstructure:"tui"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.clientDir", "../client/dist")
	v.SetDefault("server.idleTimeout", "2m")

	v.SetDefault("db.path", "asteroids.db")

	v.SetDefault("auth.enabled", true)

	v.SetDefault("sim.fieldSize", sim.DefaultFieldSize)
	v.SetDefault("sim.tickRate", 60)
	v.SetDefault("sim.broadcastRate", 30)
	v.SetDefault("sim.maxDt", sim.MaxDt)
	v.SetDefault("sim.maxAsteroids", sim.MaxAsteroids)
	v.SetDefault("sim.spawnChance", sim.SpawnChance)
	v.SetDefault("sim.initialAsteroids", sim.InitialAsteroids)
	v.SetDefault("sim.seed", 0)

	v.SetDefault("tui.sound", true)
	v.SetDefault("tui.profile", "")
}

// Load builds a Config. path may be empty, in which case only defaults and
// environment overrides apply. The file format follows its extension.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the simulation cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Sim.FieldSize <= 0:
		return fmt.Errorf("sim.fieldSize must be positive, got %v", c.Sim.FieldSize)
	case c.Sim.TickRate <= 0:
		return fmt.Errorf("sim.tickRate must be positive, got %d", c.Sim.TickRate)
	case c.Sim.BroadcastRate <= 0 || c.Sim.BroadcastRate > c.Sim.TickRate:
		return fmt.Errorf("sim.broadcastRate must be in [1, %d], got %d", c.Sim.TickRate, c.Sim.BroadcastRate)
	case c.Sim.SpawnChance < 0 || c.Sim.SpawnChance > 1:
		return fmt.Errorf("sim.spawnChance must be in [0, 1], got %v", c.Sim.SpawnChance)
	}
	return nil
}

// Params converts the sim section into simulation tuning
func (c *Config) Params() sim.Params {
	p := sim.DefaultParams()
	p.FieldSize = c.Sim.FieldSize
	p.SpawnChance = c.Sim.SpawnChance
	if c.Sim.MaxDt > 0 {
		p.MaxDt = c.Sim.MaxDt
	}
	if c.Sim.MaxAsteroids > 0 {
		p.MaxAsteroids = c.Sim.MaxAsteroids
	}
	if c.Sim.InitialAsteroids >= 0 {
		p.InitialAsteroids = c.Sim.InitialAsteroids
	}
	return p
}

// Rand returns a generator for a new world: fixed when sim.seed is set,
// otherwise seeded from crypto/rand
func (c *Config) Rand() *sim.Rand {
	if c.Sim.Seed != 0 {
		return sim.NewRand(c.Sim.Seed)
	}
	return sim.NewSeededRand()
}

// BroadcastEvery returns how many ticks pass between frame broadcasts
func (c *Config) BroadcastEvery() int {
	return c.Sim.TickRate / c.Sim.BroadcastRate
}
