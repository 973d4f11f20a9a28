// Package config loads KanjiLens settings from YAML, .env and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/KanjiLens/core/errors"
	"github.com/FocuswithJustin/KanjiLens/internal/logging"
)

// Environment variables that override the file.
const (
	EnvDB        = "KANJILENS_DB"
	EnvPort      = "KANJILENS_PORT"
	EnvLogLevel  = "KANJILENS_LOG_LEVEL"
	EnvLogFormat = "KANJILENS_LOG_FORMAT"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "kanjilens.yaml"

type Config struct {
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Render struct {
		StepCount    int    `yaml:"step_count"`
		MarkerPrefix string `yaml:"marker_prefix"`
	} `yaml:"render"`
	Server struct {
		Port           int           `yaml:"port"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		RateLimit      int           `yaml:"rate_limit"`       // requests per minute per client IP, 0 = off
		MaxMessageRate int           `yaml:"max_message_rate"` // websocket frames per second per client
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	// Sources are ranked dictionaries consulted after the stored one.
	Sources []Source `yaml:"sources"`
}

// Source is an additional ranked dictionary file.
type Source struct {
	Name       string `yaml:"name"`
	Dictionary string `yaml:"dictionary"`
	Threshold  int    `yaml:"threshold"`
	RankCount  int    `yaml:"rank_count"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.Store.Path = defaultStorePath()
	cfg.Render.StepCount = 5
	cfg.Render.MarkerPrefix = "wk_"
	cfg.Server.Port = 8080
	cfg.Server.CacheTTL = 30 * time.Second
	cfg.Server.MaxMessageRate = 10
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return &cfg
}

func defaultStorePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "kanjilens", "settings.db")
	}
	return "kanjilens.db"
}

// Load reads .env if present, then the YAML file at path, then applies
// KANJILENS_* overrides. A missing file yields Default with overrides
// applied. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewParse("yaml", path, err.Error())
		}
	case os.IsNotExist(err):
		logging.Debug("config file not found, using defaults", "path", path)
	default:
		return nil, errors.NewIO("read", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if db := os.Getenv(EnvDB); db != "" {
		c.Store.Path = db
	}
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return errors.NewConfiguration(EnvPort, fmt.Sprintf("not a number: %q", port))
		}
		c.Server.Port = p
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.Logging.Format = format
	}
	return nil
}

var prefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Validate checks every field and returns the first ConfigurationError.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return errors.NewConfiguration("store.path", "must not be empty")
	}
	if c.Render.StepCount < 1 || c.Render.StepCount > 20 {
		return errors.NewConfiguration("render.step_count", fmt.Sprintf("%d is outside 1..20", c.Render.StepCount))
	}
	if !prefixPattern.MatchString(c.Render.MarkerPrefix) {
		return errors.NewConfiguration("render.marker_prefix", fmt.Sprintf("%q is not a valid class name", c.Render.MarkerPrefix))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.NewConfiguration("server.port", fmt.Sprintf("%d is not a valid port", c.Server.Port))
	}
	if c.Server.CacheTTL < 0 {
		return errors.NewConfiguration("server.cache_ttl", "must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return errors.NewConfiguration("server.rate_limit", "must not be negative")
	}
	if c.Server.MaxMessageRate < 1 {
		return errors.NewConfiguration("server.max_message_rate", "must be at least 1")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errors.NewConfiguration("logging.level", err.Error())
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return errors.NewConfiguration("logging.format", err.Error())
	}
	for i, s := range c.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if s.Dictionary == "" {
			return errors.NewConfiguration(field+".dictionary", "must not be empty")
		}
		if s.Threshold < 0 {
			return errors.NewConfiguration(field+".threshold", "must not be negative")
		}
		if s.RankCount < 0 {
			return errors.NewConfiguration(field+".rank_count", "must not be negative")
		}
	}
	return nil
}

// ApplyLogging initialises the global logger from the logging section.
// The configuration must already be valid.
func (c *Config) ApplyLogging() {
	level, _ := logging.ParseLevel(c.Logging.Level)
	format, _ := logging.ParseFormat(c.Logging.Format)
	logging.InitLogger(level, format)
}
