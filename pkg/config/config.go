// Package config loads runner settings from defaults, a project
// .koans.yaml, KOANS_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"digital.vasic.koans/pkg/logging"
)

// FileName is the project config file searched for from the
// working directory upwards.
const FileName = ".koans.yaml"

// EnvPrefix prefixes every environment override, e.g.
// KOANS_FIXTURES_DIR or KOANS_LOG_LEVEL.
const EnvPrefix = "KOANS"

// Config holds all runner settings.
type Config struct {
	FixturesDir        string      `mapstructure:"fixtures_dir"`
	StopOnFirstFailure bool        `mapstructure:"stop_on_first_failure"`
	Format             string      `mapstructure:"format"`
	PathFile           string      `mapstructure:"path_file"`
	Color              bool        `mapstructure:"color"`
	SummaryDir         string      `mapstructure:"summary_dir"`
	Watch              WatchConfig `mapstructure:"watch"`
	Log                LogConfig   `mapstructure:"log"`
}

// WatchConfig holds settings of the watch command.
type WatchConfig struct {
	// Debounce is how long changes must settle before a rerun.
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"fixtures-dir":          "fixtures_dir",
	"stop-on-first-failure": "stop_on_first_failure",
	"format":                "format",
	"path-file":             "path_file",
	"color":                 "color",
	"summary-dir":           "summary_dir",
	"debounce":              "watch.debounce",
	"log-level":             "log.level",
	"log-file":              "log.file",
}

// Load resolves the configuration. The project config is
// searched for from startDir upwards; flags that were set on
// the command line override everything else. flags may be nil.
func Load(startDir string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if path := findProjectConfig(startDir); path != "" {
		if err := readFile(v, path); err != nil {
			return nil, err
		}
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}
	return decode(v)
}

// LoadFromPath loads configuration from a specific file instead
// of searching for the project config. Environment and flags
// still take precedence over the file.
func LoadFromPath(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if err := readFile(v, path); err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}
	return decode(v)
}

func readFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config from %s: %w", path, err)
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		FixturesDir:        "fixtures",
		StopOnFirstFailure: true,
		Format:             "text",
		Color:              true,
		Watch:              WatchConfig{Debounce: 200 * time.Millisecond},
		Log:                LogConfig{Level: "info"},
	}
}

// Validate checks that the settings can be acted upon.
func (c *Config) Validate() error {
	var errs []error
	switch c.Format {
	case "text", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf(
			"format must be text, json or yaml, got %q", c.Format,
		))
	}
	if c.FixturesDir == "" {
		errs = append(errs, errors.New("fixtures_dir must not be empty"))
	}
	if c.Watch.Debounce <= 0 {
		errs = append(errs, errors.New("watch.debounce must be positive"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("fixtures_dir", d.FixturesDir)
	v.SetDefault("stop_on_first_failure", d.StopOnFirstFailure)
	v.SetDefault("format", d.Format)
	v.SetDefault("path_file", d.PathFile)
	v.SetDefault("color", d.Color)
	v.SetDefault("summary_dir", d.SummaryDir)

	v.SetDefault("watch.debounce", d.Watch.Debounce.String())

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// findProjectConfig searches for FileName in dir and its parents.
func findProjectConfig(dir string) string {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
