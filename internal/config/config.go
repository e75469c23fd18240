package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/doit/internal/board"
	"github.com/amirbrooks/doit/internal/logging"
	"github.com/amirbrooks/doit/internal/store"
)

const (
	FileName  = "config.yaml"
	EnvPrefix = "DOIT"

	Time12h = "12h"
	Time24h = "24h"
)

var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

type Config struct {
	LogLevel   string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	TimeFormat string `mapstructure:"time_format" yaml:"time_format" json:"time_format"` // 12h|24h
	ExportDir  string `mapstructure:"export_dir" yaml:"export_dir,omitempty" json:"export_dir,omitempty"`
}

// Keys lists the settable keys in display order.
var Keys = []string{"log_level", "log_format", "time_format", "export_dir"}

func Default() Config {
	return Config{
		LogLevel:   "warn",
		LogFormat:  logging.FormatText,
		TimeFormat: Time12h,
	}
}

func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads <root>/config.yaml and applies DOIT_* environment overrides.
// A missing file yields the defaults.
func Load(root string) (Config, error) {
	return load(root, true)
}

func load(root string, withEnv bool) (Config, error) {
	def := Default()
	v := viper.New()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("time_format", def.TimeFormat)
	v.SetDefault("export_dir", def.ExportDir)
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}

	path := Path(root)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return def, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func Save(root string, cfg Config) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return store.WriteFile(Path(root), b, 0o644)
}

// Set validates and stores one key in <root>/config.yaml. Environment
// overrides are not written back.
func Set(root, key, value string) (Config, error) {
	cfg, err := load(root, false)
	if err != nil {
		return cfg, err
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "log_level":
		if !logging.ValidLevel(value) {
			return cfg, fmt.Errorf("%w for %s: %q", ErrInvalidValue, key, value)
		}
		cfg.LogLevel = strings.ToLower(value)
	case "log_format":
		switch strings.ToLower(value) {
		case logging.FormatText, logging.FormatJSON:
			cfg.LogFormat = strings.ToLower(value)
		default:
			return cfg, fmt.Errorf("%w for %s: %q", ErrInvalidValue, key, value)
		}
	case "time_format":
		switch strings.ToLower(value) {
		case Time12h, Time24h:
			cfg.TimeFormat = strings.ToLower(value)
		default:
			return cfg, fmt.Errorf("%w for %s: %q", ErrInvalidValue, key, value)
		}
	case "export_dir":
		if value == "none" || value == "null" {
			value = ""
		}
		cfg.ExportDir = value
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := Save(root, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TimeLayout is the clock layout stamped onto new tasks.
func (c Config) TimeLayout() string {
	if strings.EqualFold(c.TimeFormat, Time24h) {
		return board.Clock24
	}
	return board.Clock12
}

// ExportPath resolves the export directory, defaulting to <root>/exports.
func (c Config) ExportPath(root string) string {
	if strings.TrimSpace(c.ExportDir) == "" {
		return filepath.Join(root, "exports")
	}
	return store.ExpandHome(c.ExportDir)
}

// Get returns the value of a settable key.
func (c Config) Get(key string) (string, bool) {
	switch key {
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "time_format":
		return c.TimeFormat, true
	case "export_dir":
		return c.ExportDir, true
	}
	return "", false
}
