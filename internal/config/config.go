package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Setting keys, shared by the settings file, TVRENAME_* variables and flags.
const (
	KeyProvider         = "provider"
	KeyLanguage         = "language"
	KeySeparator        = "separator"
	KeyJournal          = "journal"
	KeyLogRetentionDays = "log_retention_days"
)

// Providers lists the catalog backends that can be selected.
var Providers = []string{"tvdb", "tmdb", "omdb"}

// Config holds the settings of a run that may come from a file or the
// environment as well as from flags.
type Config struct {
	Provider         string `json:"provider" yaml:"provider" mapstructure:"provider"`
	Language         string `json:"language" yaml:"language" mapstructure:"language"`
	Separator        string `json:"separator" yaml:"separator" mapstructure:"separator"`
	Journal          bool   `json:"journal" yaml:"journal" mapstructure:"journal"`
	LogRetentionDays int    `json:"log_retention_days" yaml:"log_retention_days" mapstructure:"log_retention_days"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Provider:         "tvdb",
		Language:         "de",
		Separator:        " - ",
		Journal:          false,
		LogRetentionDays: 30,
	}
}

// NewViper returns a viper instance with defaults and TVRENAME_* environment
// lookups in place. Flags are bound by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TVRENAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault(KeyProvider, d.Provider)
	v.SetDefault(KeyLanguage, d.Language)
	v.SetDefault(KeySeparator, d.Separator)
	v.SetDefault(KeyJournal, d.Journal)
	v.SetDefault(KeyLogRetentionDays, d.LogRetentionDays)
	return v
}

// ConfigDir returns ~/.tvrename.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tvrename"), nil
}

// ConfigPath returns the default settings file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ConfigUnmarshaler is the part of *viper.Viper that Load needs.
type ConfigUnmarshaler interface {
	ReadInConfig() error
	Unmarshal(any, ...viper.DecoderConfigOption) error
	ConfigFileUsed() string
}

// Load reads the settings file when one is set, merges everything into a
// Config and validates it.
func Load(cu ConfigUnmarshaler) (*Config, error) {
	if cu.ConfigFileUsed() != "" {
		if err := cu.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cu.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := cu.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the run cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Separator == "" {
		errs = append(errs, errors.New("separator must not be empty"))
	}
	if _, err := language.Parse(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("invalid language %q: %w", c.Language, err))
	}
	if !slices.Contains(Providers, c.Provider) {
		errs = append(errs, fmt.Errorf("unknown provider %q (want one of %s)", c.Provider, strings.Join(Providers, ", ")))
	}
	if c.LogRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("log_retention_days must not be negative, got %d", c.LogRetentionDays))
	}

	return errors.Join(errs...)
}
