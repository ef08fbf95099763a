// Package config loads the sbmetrics configuration: which team/season is
// being evaluated, the midfield zone window, pitch dimensions, and the
// bypass-label budgets.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ErrUnknownTeam is returned when a team name is not in the configured
// team table. Unknown names must fail to resolve, never default.
var ErrUnknownTeam = errors.New("unknown team name")

// Config is the complete application configuration.
type Config struct {
	Dataset DatasetConfig  `mapstructure:"dataset"`
	Zone    ZoneConfig     `mapstructure:"zone"`
	Pitch   PitchConfig    `mapstructure:"pitch"`
	Bypass  BypassConfig   `mapstructure:"bypass"`
	Teams   map[string]int `mapstructure:"teams"`
}

// DatasetConfig identifies the team-season under evaluation.
type DatasetConfig struct {
	TeamName string `mapstructure:"team_name"`
	Season   string `mapstructure:"season"`
}

// ZoneConfig is the midfield x-window on the 0-120 pitch-length axis.
type ZoneConfig struct {
	XMin float64 `mapstructure:"x_min"`
	XMax float64 `mapstructure:"x_max"`
}

// PitchConfig holds pitch dimensions (StatsBomb convention).
type PitchConfig struct {
	Length      float64 `mapstructure:"length"`
	Width       float64 `mapstructure:"width"`
	FinalThirdX float64 `mapstructure:"final_third_x"`
}

// BypassConfig holds the bypass-label budgets.
type BypassConfig struct {
	TimeSeconds float64 `mapstructure:"time_seconds"`
	MaxPasses   int     `mapstructure:"max_passes"`
}

// Load reads configuration from an optional YAML file and environment
// variables. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SBMETRICS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("zone.x_min", 40.0)
	v.SetDefault("zone.x_max", 80.0)

	v.SetDefault("pitch.length", 120.0)
	v.SetDefault("pitch.width", 80.0)
	v.SetDefault("pitch.final_third_x", 80.0)

	v.SetDefault("bypass.time_seconds", 10.0)
	v.SetDefault("bypass.max_passes", 3)

	// Known clubs with stable StatsBomb team ids. This is a closed set:
	// resolution of any name outside it is an error.
	v.SetDefault("teams", map[string]int{
		"Barcelona":         217,
		"Real Madrid":       220,
		"Atlético Madrid":   212,
		"Liverpool":         24,
		"Manchester City":   36,
		"Arsenal":           1,
		"Chelsea":           33,
		"Tottenham Hotspur": 38,
	})
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Zone.XMin < 0 || c.Zone.XMax > c.Pitch.Length || c.Zone.XMin >= c.Zone.XMax {
		return fmt.Errorf("zone window [%g, %g] is not a valid band on a pitch of length %g",
			c.Zone.XMin, c.Zone.XMax, c.Pitch.Length)
	}
	if c.Pitch.Length <= 0 || c.Pitch.Width <= 0 {
		return fmt.Errorf("pitch dimensions must be positive")
	}
	if c.Bypass.TimeSeconds <= 0 {
		return fmt.Errorf("bypass.time_seconds must be positive")
	}
	if c.Bypass.MaxPasses < 0 {
		return fmt.Errorf("bypass.max_passes must not be negative")
	}
	if len(c.Teams) == 0 {
		return fmt.Errorf("team table must not be empty")
	}
	return nil
}

// ResolveTeam maps a team name to its id using the configured table.
func (c *Config) ResolveTeam(name string) (int, error) {
	id, ok := c.Teams[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTeam, name)
	}
	return id, nil
}
