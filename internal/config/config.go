// Package config loads entropy CLI settings from defaults, an optional config
// file, ENTROPY_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Keys shared by viper, the config file and flag bindings.
const (
	KeyLogLevel       = "log_level"
	KeyFormat         = "format"
	KeyColor          = "color"
	KeyHighlight      = "highlight"
	KeyValidBytesOnly = "valid_bytes_only"
	KeyGitIgnore      = "gitignore"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Defaults.
const (
	DefaultLogLevel  = "warn"
	DefaultFormat    = FormatText
	DefaultHighlight = 7.2
)

// EnvPrefix is prepended to upper-cased keys when reading the environment.
const EnvPrefix = "ENTROPY"

// ErrInvalidFormat is returned for an output format other than text or json.
var ErrInvalidFormat = errors.New("invalid output format")

// Config holds resolved settings.
type Config struct {
	LogLevel       string
	Format         string
	Color          bool
	Highlight      float64
	ValidBytesOnly bool
	GitIgnore      bool
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyFormat, DefaultFormat)
	v.SetDefault(KeyColor, false)
	v.SetDefault(KeyHighlight, DefaultHighlight)
	v.SetDefault(KeyValidBytesOnly, false)
	v.SetDefault(KeyGitIgnore, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile, or $HOME/.config/entropy/config.yaml when cfgFile is
// empty, and resolves the final Config. The working directory is never
// searched.
// A missing config file is only an error when cfgFile names it explicitly.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "entropy"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := Config{
		LogLevel:       v.GetString(KeyLogLevel),
		Format:         strings.ToLower(v.GetString(KeyFormat)),
		Color:          v.GetBool(KeyColor),
		Highlight:      v.GetFloat64(KeyHighlight),
		ValidBytesOnly: v.GetBool(KeyValidBytesOnly),
		GitIgnore:      v.GetBool(KeyGitIgnore),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the format and log level.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w %q: want %s or %s", ErrInvalidFormat, c.Format, FormatText, FormatJSON)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// Level returns the parsed log level, falling back to warn.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
