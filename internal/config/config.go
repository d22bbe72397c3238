package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir is the per-project configuration directory.
const Dir = ".finsight"

// FileName is the configuration file inside Dir.
const FileName = "config.yaml"

// Defaults for the analytic windows.
const (
	DefaultDaysBack     = 90
	DefaultForecastDays = 30
)

// Config represents the finsight configuration.
type Config struct {
	DatabasePath string            `yaml:"database_path,omitempty"`
	LogLevel     string            `yaml:"log_level,omitempty"`
	Monitoring   MonitoringConfig  `yaml:"monitoring"`
	Forecasting  ForecastingConfig `yaml:"forecasting"`
}

// MonitoringConfig tunes the monitoring stage.
type MonitoringConfig struct {
	DaysBack int `yaml:"days_back"`
}

// ForecastingConfig tunes the forecasting stage.
type ForecastingConfig struct {
	DaysBack     int `yaml:"days_back"`
	ForecastDays int `yaml:"forecast_days"`
}

// Default returns a config with every field populated.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath()
	}
	if c.Monitoring.DaysBack <= 0 {
		c.Monitoring.DaysBack = DefaultDaysBack
	}
	if c.Forecasting.DaysBack <= 0 {
		c.Forecasting.DaysBack = DefaultDaysBack
	}
	if c.Forecasting.ForecastDays <= 0 {
		c.Forecasting.ForecastDays = DefaultForecastDays
	}
}

// LoadConfig reads .finsight/config.yaml from dir. A missing file yields the
// defaults; an unreadable or malformed one is an error.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, Dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// SaveConfig writes config.yaml to dir.
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, Dir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", Dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultDatabasePath returns ~/.finsight/finsight.db, or a relative path when
// the home directory cannot be resolved.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(Dir, "finsight.db")
	}
	return filepath.Join(home, Dir, "finsight.db")
}
