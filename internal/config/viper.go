// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/cashflow/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"data" yaml:"data"`

	Detection struct {
		MinOccurrences         int     `mapstructure:"min_occurrences" yaml:"min_occurrences"`
		ForecastMinOccurrences int     `mapstructure:"forecast_min_occurrences" yaml:"forecast_min_occurrences"`
		GapTolerance           float64 `mapstructure:"gap_tolerance" yaml:"gap_tolerance"`
		StalenessFactor        float64 `mapstructure:"staleness_factor" yaml:"staleness_factor"`
		AmountVariance         float64 `mapstructure:"amount_variance" yaml:"amount_variance"`
		AmountWindow           int     `mapstructure:"amount_window" yaml:"amount_window"`
	} `mapstructure:"detection" yaml:"detection"`

	Rules struct {
		DefaultIntervalDays    int     `mapstructure:"default_interval_days" yaml:"default_interval_days"`
		DefaultAmountTolerance float64 `mapstructure:"default_amount_tolerance" yaml:"default_amount_tolerance"`
	} `mapstructure:"rules" yaml:"rules"`

	Forecast struct {
		HorizonDays int `mapstructure:"horizon_days" yaml:"horizon_days"`
	} `mapstructure:"forecast" yaml:"forecast"`

	SafeToSpend struct {
		Buffer            float64 `mapstructure:"buffer" yaml:"buffer"`
		DefaultPaydayDays int     `mapstructure:"default_payday_days" yaml:"default_payday_days"`
	} `mapstructure:"safe_to_spend" yaml:"safe_to_spend"`

	Subscriptions struct {
		HousingKeywords []string `mapstructure:"housing_keywords" yaml:"housing_keywords"`
	} `mapstructure:"subscriptions" yaml:"subscriptions"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml, then CASHFLOW_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.cashflow")
	v.AddConfigPath(".cashflow")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CASHFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("data.directory", "")
	v.SetDefault("data.rules_file", "rules.yaml")

	v.SetDefault("detection.min_occurrences", 3)
	v.SetDefault("detection.forecast_min_occurrences", 2)
	v.SetDefault("detection.gap_tolerance", 0.20)
	v.SetDefault("detection.staleness_factor", 2.0)
	v.SetDefault("detection.amount_variance", 0.10)
	v.SetDefault("detection.amount_window", 12)

	v.SetDefault("rules.default_interval_days", 30)
	v.SetDefault("rules.default_amount_tolerance", 0.10)

	v.SetDefault("forecast.horizon_days", 90)

	v.SetDefault("safe_to_spend.buffer", 500.0)
	v.SetDefault("safe_to_spend.default_payday_days", 30)

	v.SetDefault("subscriptions.housing_keywords", []string{"rent", "mortgage", "miete", "hypothek", "lease"})
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	d := config.Detection
	if d.MinOccurrences < 2 {
		return fmt.Errorf("detection.min_occurrences must be at least 2, got: %d", d.MinOccurrences)
	}
	if d.ForecastMinOccurrences < 2 {
		return fmt.Errorf("detection.forecast_min_occurrences must be at least 2, got: %d", d.ForecastMinOccurrences)
	}
	if d.GapTolerance <= 0 || d.GapTolerance > 1 {
		return fmt.Errorf("detection.gap_tolerance must be in (0, 1], got: %f", d.GapTolerance)
	}
	if d.StalenessFactor <= 0 {
		return fmt.Errorf("detection.staleness_factor must be positive, got: %f", d.StalenessFactor)
	}
	if d.AmountVariance < 0 {
		return fmt.Errorf("detection.amount_variance must not be negative, got: %f", d.AmountVariance)
	}
	if d.AmountWindow < 1 {
		return fmt.Errorf("detection.amount_window must be at least 1, got: %d", d.AmountWindow)
	}

	if config.Rules.DefaultIntervalDays < 1 {
		return fmt.Errorf("rules.default_interval_days must be at least 1, got: %d", config.Rules.DefaultIntervalDays)
	}
	if config.Rules.DefaultAmountTolerance < 0 {
		return fmt.Errorf("rules.default_amount_tolerance must not be negative, got: %f", config.Rules.DefaultAmountTolerance)
	}

	if config.Forecast.HorizonDays < 1 || config.Forecast.HorizonDays > 3650 {
		return fmt.Errorf("forecast.horizon_days must be between 1 and 3650, got: %d", config.Forecast.HorizonDays)
	}

	if config.SafeToSpend.Buffer < 0 {
		return fmt.Errorf("safe_to_spend.buffer must not be negative, got: %f", config.SafeToSpend.Buffer)
	}
	if config.SafeToSpend.DefaultPaydayDays < 1 {
		return fmt.Errorf("safe_to_spend.default_payday_days must be at least 1, got: %d", config.SafeToSpend.DefaultPaydayDays)
	}

	return nil
}

// DelimiterRune returns the configured CSV delimiter
func (c *Config) DelimiterRune() rune {
	if r := []rune(c.CSV.Delimiter); len(r) > 0 {
		return r[0]
	}
	return ','
}

// DataDirectory returns data.directory, or $HOME/.cashflow when unset
func (c *Config) DataDirectory() string {
	if c.Data.Directory != "" {
		return c.Data.Directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cashflow"
	}
	return filepath.Join(home, ".cashflow")
}

// RulesPath resolves data.rules_file against the data directory
func (c *Config) RulesPath() string {
	if filepath.IsAbs(c.Data.RulesFile) {
		return c.Data.RulesFile
	}
	return filepath.Join(c.DataDirectory(), c.Data.RulesFile)
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	level := strings.ToLower(config.Log.Level)
	if _, err := logrus.ParseLevel(level); err != nil {
		level = "info"
	}
	return logging.NewLogrusAdapter(level, strings.ToLower(config.Log.Format))
}
