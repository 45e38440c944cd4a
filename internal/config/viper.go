// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/bank-tally/internal/parsererror"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// TALLY_MAPPING_FUZZY_THRESHOLD.
const EnvPrefix = "TALLY"

// LogConfig selects the log level and formatter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig applies to CSV input and output.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// MappingConfig tunes ledger resolution.
type MappingConfig struct {
	FuzzyThreshold int    `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold"`
	BankLabel      string `mapstructure:"bank_label" yaml:"bank_label"`
	BankFallback   string `mapstructure:"bank_fallback" yaml:"bank_fallback"`
	Workers        int    `mapstructure:"workers" yaml:"workers"`
	// ChargesOnReceipts applies the small bank charge rule to receipts too.
	// Receipts carry no debit, so every receipt qualifies while it is set.
	ChargesOnReceipts bool   `mapstructure:"charges_on_receipts" yaml:"charges_on_receipts"`
	LedgersFile       string `mapstructure:"ledgers_file" yaml:"ledgers_file"`
	OverridesFile     string `mapstructure:"overrides_file" yaml:"overrides_file"`
}

// OutputConfig controls the voucher sheet.
type OutputConfig struct {
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`
}

// Config represents the complete application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	CSV     CSVConfig     `mapstructure:"csv" yaml:"csv"`
	Mapping MappingConfig `mapstructure:"mapping" yaml:"mapping"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// DelimiterRune returns the configured CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// InitializeConfig loads defaults, then the config file, then TALLY_*
// environment variables. A non-empty configFile replaces the search path.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bank-tally")
		v.AddConfigPath(".bank-tally")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", sourceName(v), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, &parsererror.ValidationError{FilePath: sourceName(v), Reason: err.Error()}
	}

	return &config, nil
}

func sourceName(v *viper.Viper) string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return "configuration"
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("mapping.fuzzy_threshold", 80)
	v.SetDefault("mapping.bank_label", "")
	v.SetDefault("mapping.bank_fallback", "BANK")
	v.SetDefault("mapping.workers", 0)
	v.SetDefault("mapping.charges_on_receipts", true)
	v.SetDefault("mapping.ledgers_file", "")
	v.SetDefault("mapping.overrides_file", "")

	v.SetDefault("output.sheet_name", "Tally_Import")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}

	if config.Mapping.FuzzyThreshold < 0 || config.Mapping.FuzzyThreshold > 100 {
		return fmt.Errorf("mapping.fuzzy_threshold must be between 0 and 100, got: %d", config.Mapping.FuzzyThreshold)
	}

	if strings.TrimSpace(config.Mapping.BankFallback) == "" {
		return fmt.Errorf("mapping.bank_fallback must not be empty")
	}

	if config.Mapping.Workers < 0 {
		return fmt.Errorf("mapping.workers must not be negative, got: %d", config.Mapping.Workers)
	}

	if name := config.Output.SheetName; name == "" || utf8.RuneCountInString(name) > 31 {
		return fmt.Errorf("output.sheet_name must be 1 to 31 characters, got: %q", name)
	}

	return nil
}
