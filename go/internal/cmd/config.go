package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/logos"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Schedule struct {
		FixturePath  string                  `yaml:"fixture_path"`
		Timezone     string                  `yaml:"timezone"`
		TickInterval time.Duration           `yaml:"tick_interval"`
		Conferences  []models.ConferenceInfo `yaml:"conferences"`
	} `yaml:"schedule"`
	Logos struct {
		Dir      string `yaml:"dir"`
		Prefix   string `yaml:"prefix"`
		Fallback string `yaml:"fallback"`
	} `yaml:"logos"`
	Kickoff struct {
		Enabled       bool   `yaml:"enabled"`
		NatsURL       string `yaml:"nats_url"`
		StreamName    string `yaml:"stream_name"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"kickoff"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// loadConfig reads the YAML config at path. A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&config)
	applyDefaults(&config)
	return &config, nil
}

// applyEnv lets environment variables override the file.
func applyEnv(config *Config) {
	config.Schedule.FixturePath = getEnv("FIXTURE_PATH", config.Schedule.FixturePath)
	config.Schedule.Timezone = getEnv("TIMEZONE", config.Schedule.Timezone)
	config.Logos.Dir = getEnv("LOGO_DIR", config.Logos.Dir)
	config.Kickoff.NatsURL = getEnv("NATS_URL", config.Kickoff.NatsURL)
	config.Kickoff.Enabled = getEnvAsBool("KICKOFF_ENABLED", config.Kickoff.Enabled)
}

func applyDefaults(config *Config) {
	if config.Schedule.FixturePath == "" {
		config.Schedule.FixturePath = "data/games.json"
	}
	if config.Schedule.TickInterval <= 0 {
		config.Schedule.TickInterval = countdown.TickInterval
	}
	if len(config.Schedule.Conferences) == 0 {
		config.Schedule.Conferences = models.DefaultConferences()
	}
	if config.Logos.Dir == "" {
		config.Logos.Dir = "public/logos"
	}
	if config.Logos.Prefix == "" {
		config.Logos.Prefix = logos.DefaultPrefix
	}
	if config.Logos.Fallback == "" {
		config.Logos.Fallback = logos.DefaultFallback
	}
}

// location resolves the configured timezone, falling back to local time.
func (c *Config) location() *time.Location {
	if c.Schedule.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Schedule.Timezone).Msg("unknown timezone, using local time")
		return time.Local
	}
	return loc
}
