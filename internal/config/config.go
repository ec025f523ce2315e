// SPDX-License-Identifier: EPL-2.0

// Package config provides configuration types and defaults for progsnd.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PROGSND"

// Config holds all configuration options for progsnd.
type Config struct {
	// Tables maps bank names to a YAML table file or a directory to scan.
	Tables map[string]string `mapstructure:"tables"`
	// Table is the bank active at startup.
	Table     string        `mapstructure:"table"`
	MediaRoot string        `mapstructure:"media_root"`
	MaxSounds int64         `mapstructure:"max_sounds"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Strict    bool          `mapstructure:"strict"`
	Watch     bool          `mapstructure:"watch"`
	Tracing   bool          `mapstructure:"tracing"`

	Output OutputConfig `mapstructure:"output"`
	NATS   NATSConfig   `mapstructure:"nats"`
	Log    LogConfig    `mapstructure:"log"`
}

type OutputConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	BufferSize int `mapstructure:"buffer_size"`
}

type NATSConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Tables:    map[string]string{},
		MaxSounds: 64,
		CacheTTL:  5 * time.Minute,
		Output: OutputConfig{
			SampleRate: 48000,
			BufferSize: 1024,
		},
		NATS: NATSConfig{
			URL:    "nats://127.0.0.1:4222",
			Prefix: "progsnd",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every default with v so that environment variables
// can override keys that are missing from the file.
func SetDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("tables", d.Tables)
	v.SetDefault("table", d.Table)
	v.SetDefault("media_root", d.MediaRoot)
	v.SetDefault("max_sounds", d.MaxSounds)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("tracing", d.Tracing)
	v.SetDefault("output.sample_rate", d.Output.SampleRate)
	v.SetDefault("output.buffer_size", d.Output.BufferSize)
	v.SetDefault("nats.url", d.NATS.URL)
	v.SetDefault("nats.prefix", d.NATS.Prefix)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads configuration into v. path may be empty, in which case
// progsnd.yaml is looked up in the working directory and in the user
// config directory; a missing file is not an error then.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("progsnd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "progsnd"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Table != "" {
		if _, ok := c.Tables[c.Table]; !ok {
			return fmt.Errorf("table %q is not listed in tables", c.Table)
		}
	}
	if c.Output.SampleRate <= 0 {
		return fmt.Errorf("output.sample_rate must be positive, got %d", c.Output.SampleRate)
	}
	if c.Output.BufferSize <= 0 {
		return fmt.Errorf("output.buffer_size must be positive, got %d", c.Output.BufferSize)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// ActiveTable returns the bank active at startup: Table when set, or the
// only bank when there is exactly one.
func (c Config) ActiveTable() (string, error) {
	if c.Table != "" {
		return c.Table, nil
	}
	if len(c.Tables) == 1 {
		for name := range c.Tables {
			return name, nil
		}
	}
	return "", errors.New("no table selected: set table or pass --table")
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the logger described by l writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
