// Package config provides configuration management for dimens using Viper
// for loading from files, environment variables and command-line flags.
//
// The configuration system supports a YAML file (.dimens.yml), environment
// variable overrides with the DIMENS_ prefix, and validation. It carries
// the engine settings (cache, aspect-ratio correction, multi-window
// handling), logging options and the location of the profile file.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/dimens/internal/engine"
	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/logging"
)

// Config file and environment conventions.
const (
	FileName  = ".dimens"
	EnvPrefix = "DIMENS"
	EnvFile   = "DIMENS_CONFIG_FILE"
)

// Config is the decoded contents of .dimens.yml merged with flags and environment.
type Config struct {
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	AspectRatio AspectRatioConfig `yaml:"aspect_ratio" mapstructure:"aspect_ratio"`
	MultiWindow MultiWindowConfig `yaml:"multi_window" mapstructure:"multi_window"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Profiles    ProfilesConfig    `yaml:"profiles" mapstructure:"profiles"`
}

// CacheConfig controls memoization of calculated values.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Capacity int           `yaml:"capacity" mapstructure:"capacity"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// AspectRatioConfig is the default aspect-ratio correction.
type AspectRatioConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Sensitivity float64 `yaml:"sensitivity" mapstructure:"sensitivity"`
}

// MultiWindowConfig controls scaling inside split-screen windows.
type MultiWindowConfig struct {
	Ignore bool `yaml:"ignore" mapstructure:"ignore"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ProfilesConfig locates the profile file.
type ProfilesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Configure points v at a config file and the DIMENS_ environment. An
// explicit file, given directly or through DIMENS_CONFIG_FILE, must
// exist; the default .dimens.yml in the working directory is optional.
func Configure(v *viper.Viper, file string) error {
	if file == "" {
		file = os.Getenv(EnvFile)
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && stderrors.As(err, &notFound) {
			return nil
		}
		return errors.NewIOError(errors.ErrCodeFileNotFound, "cannot read config file", err).
			WithContext("path", file)
	}
	return nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	d := engine.DefaultSettings()
	v.SetDefault("cache.enabled", d.CacheEnabled)
	v.SetDefault("cache.capacity", d.CacheCapacity)
	v.SetDefault("cache.ttl", d.CacheTTL)
	v.SetDefault("aspect_ratio.enabled", d.AspectRatio)
	v.SetDefault("aspect_ratio.sensitivity", d.ARSensitivity)
	v.SetDefault("multi_window.ignore", d.IgnoreMultiWindow)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("profiles.file", "")
}

// LoadFrom reads the configuration from v. Keys that were never set take
// their defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeMalformedFile, "cannot decode configuration", err)
	}
	config.Log.Level = strings.ToLower(strings.TrimSpace(config.Log.Level))
	config.Log.Format = strings.ToLower(strings.TrimSpace(config.Log.Format))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	d := engine.DefaultSettings()
	return &Config{
		Cache:       CacheConfig{Enabled: d.CacheEnabled, Capacity: d.CacheCapacity, TTL: d.CacheTTL},
		AspectRatio: AspectRatioConfig{Enabled: d.AspectRatio, Sensitivity: d.ARSensitivity},
		MultiWindow: MultiWindowConfig{Ignore: d.IgnoreMultiWindow},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
}

// Settings converts the configuration into engine settings.
func (c *Config) Settings() engine.Settings {
	return engine.Settings{
		CacheEnabled:      c.Cache.Enabled,
		CacheCapacity:     c.Cache.Capacity,
		CacheTTL:          c.Cache.TTL,
		AspectRatio:       c.AspectRatio.Enabled,
		ARSensitivity:     c.AspectRatio.Sensitivity,
		IgnoreMultiWindow: c.MultiWindow.Ignore,
	}
}

// LoggerConfig converts the log section into a logger configuration.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	lc.Format = c.Log.Format
	return lc
}

// validateConfig checks every section and reports all problems at once.
func validateConfig(config *Config) error {
	errs := &errors.ValidationErrorCollection{}

	if err := config.Settings().Validate(); err != nil {
		if vec, ok := err.(*errors.ValidationErrorCollection); ok {
			errs.Merge("", vec)
		} else {
			return err
		}
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		errs.AddField(errors.ErrCodeInvalidSettings, "log.level", config.Log.Level, err.Error(),
			"use debug, info, warn or error")
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		errs.AddField(errors.ErrCodeInvalidSettings, "log.format", config.Log.Format,
			"must be text or json")
	}
	if err := validatePath(config.Profiles.File); err != nil {
		errs.AddField(errors.ErrCodeInvalidSettings, "profiles.file", config.Profiles.File, err.Error())
	}

	return errs.Err()
}

// validatePath rejects a profile path that does not name a YAML file. An
// empty path is allowed and means no profile file.
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	clean := filepath.Clean(path)
	if strings.ContainsRune(clean, 0) {
		return fmt.Errorf("path contains a NUL byte")
	}
	if ext := strings.ToLower(filepath.Ext(clean)); ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("profile file must be .yml or .yaml, got %q", filepath.Ext(clean))
	}
	return nil
}
