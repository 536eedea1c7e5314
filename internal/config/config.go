package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Simulator holds all configuration for the npcsim binary.
type Simulator struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Tick loop
	TickInterval   time.Duration `yaml:"tick_interval"`
	ReportInterval time.Duration `yaml:"report_interval"` // 0 disables periodic state reports

	// Inputs
	BehaviorFile string `yaml:"behavior_file"`
	ScenarioFile string `yaml:"scenario_file"`
	HotReload    bool   `yaml:"hot_reload"` // rebuild the session when BehaviorFile changes

	// Profile store. When Profile is non-empty the behavior and route are
	// loaded from the database instead of BehaviorFile.
	Profile  string         `yaml:"profile"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulator returns Simulator config with sensible defaults.
func DefaultSimulator() Simulator {
	return Simulator{
		LogLevel:       "info",
		TickInterval:   100 * time.Millisecond,
		ReportInterval: 2 * time.Second,
		BehaviorFile:   "config/behavior.yaml",
		ScenarioFile:   "config/scenario.yaml",
		HotReload:      true,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "warden",
			Password: "warden",
			DBName:   "warden",
			SSLMode:  "disable",
		},
	}
}

// LoadSimulator loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.TickInterval <= 0 {
		return cfg, fmt.Errorf("parsing config %s: tick_interval must be positive", path)
	}

	return cfg, nil
}
