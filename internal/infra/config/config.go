// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Library   LibraryConfig             `yaml:"library"`
	Player    PlayerConfig              `yaml:"player"`
	Control   ControlConfig             `yaml:"control"`
	Log       LogConfig                 `yaml:"log"`
	LastFM    LastFMConfig              `yaml:"lastfm"`
	Playlists map[string]PlaylistConfig `yaml:"playlists"`
}

// LibraryConfig represents the track library configuration.
type LibraryConfig struct {
	DatabasePath string   `yaml:"database_path" default:"quaver.db"`
	MusicDirs    []string `yaml:"music_dirs" validate:"required,min=1"`
}

// PlayerConfig represents playback configuration.
type PlayerConfig struct {
	SampleRate     int     `yaml:"sample_rate" default:"44100" validate:"gte=8000,lte=192000"`
	PollIntervalMs int     `yaml:"poll_interval_ms" default:"100" validate:"gte=10,lte=1000"`
	Volume         float64 `yaml:"volume" default:"1.0" validate:"gte=0,lte=1"`
	Shuffle        bool    `yaml:"shuffle"`
	Repeat         string  `yaml:"repeat" default:"off" validate:"oneof=off track queue"`
}

// PollInterval returns the command poll interval as a duration.
func (c PlayerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// ControlConfig represents the control server configuration.
type ControlConfig struct {
	Addr string `yaml:"addr" default:"127.0.0.1:7711"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stderr"`
	Level  string `yaml:"level" default:"info"`
	File   string `yaml:"file"`
}

// LastFMConfig represents Last.fm scrobbling configuration.
type LastFMConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	APISecret  string `yaml:"api_secret"`
	SessionKey string `yaml:"session_key"`
}

// PlaylistConfig represents a smart playlist definition.
type PlaylistConfig struct {
	Rules []RuleConfig `yaml:"rules" validate:"required,min=1,dive"`
}

// RuleConfig represents a single rule within a smart playlist.
type RuleConfig struct {
	Name     string         `yaml:"name" validate:"required"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		c.LastFM.APIKey = v
	}
	if v := os.Getenv("LASTFM_API_SECRET"); v != "" {
		c.LastFM.APISecret = v
	}
	if v := os.Getenv("LASTFM_SESSION_KEY"); v != "" {
		c.LastFM.SessionKey = v
	}
	if v := os.Getenv("QUAVER_DB"); v != "" {
		c.Library.DatabasePath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.LastFM.Enabled {
		if c.LastFM.APIKey == "" || c.LastFM.APISecret == "" || c.LastFM.SessionKey == "" {
			return errors.New("lastfm is enabled but api_key, api_secret or session_key is missing")
		}
	}

	return nil
}
