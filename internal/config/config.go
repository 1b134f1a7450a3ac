package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/liftstats/internal/models"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// AnalyticsConfig holds the default display preferences applied to
// aggregation requests. Requests may override each field.
type AnalyticsConfig struct {
	models.InclusionFlags `yaml:",inline"`
	WeightUnit            string `yaml:"weight_unit"`
	DistanceUnit          string `yaml:"distance_unit"`
}

// Units returns the parsed target units. Load has already validated them.
func (a AnalyticsConfig) Units() (models.WeightUnit, models.DistanceUnit) {
	w, err := models.ParseWeightUnit(a.WeightUnit)
	if err != nil {
		w = models.Kilograms
	}
	d, err := models.ParseDistanceUnit(a.DistanceUnit)
	if err != nil {
		d = models.Kilometers
	}
	return w, d
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTSTATS_ and underscore-separated paths:
//
//	LIFTSTATS_SERVER_HOST, LIFTSTATS_SERVER_PORT,
//	LIFTSTATS_DB_HOST, LIFTSTATS_DB_PORT, LIFTSTATS_DB_NAME,
//	LIFTSTATS_DB_USER, LIFTSTATS_DB_PASSWORD, LIFTSTATS_DB_SSLMODE,
//	LIFTSTATS_AUTH_API_KEY,
//	LIFTSTATS_TAILSCALE_ENABLED, LIFTSTATS_TAILSCALE_HOSTNAME, LIFTSTATS_TAILSCALE_STATE_DIR,
//	LIFTSTATS_ANALYTICS_WEIGHT_UNIT, LIFTSTATS_ANALYTICS_DISTANCE_UNIT
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTSTATS_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTSTATS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTSTATS_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LIFTSTATS_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LIFTSTATS_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LIFTSTATS_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LIFTSTATS_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LIFTSTATS_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LIFTSTATS_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("LIFTSTATS_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("LIFTSTATS_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("LIFTSTATS_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("LIFTSTATS_ANALYTICS_WEIGHT_UNIT"); v != "" {
		cfg.Analytics.WeightUnit = v
	}
	if v := os.Getenv("LIFTSTATS_ANALYTICS_DISTANCE_UNIT"); v != "" {
		cfg.Analytics.DistanceUnit = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Analytics.WeightUnit == "" {
		cfg.Analytics.WeightUnit = string(models.Kilograms)
	}
	if cfg.Analytics.DistanceUnit == "" {
		cfg.Analytics.DistanceUnit = string(models.Kilometers)
	}
	if cfg.Tailscale.Enabled && cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "liftstats"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if _, err := models.ParseWeightUnit(c.Analytics.WeightUnit); err != nil {
		return fmt.Errorf("analytics.weight_unit: %w", err)
	}
	if _, err := models.ParseDistanceUnit(c.Analytics.DistanceUnit); err != nil {
		return fmt.Errorf("analytics.distance_unit: %w", err)
	}
	return nil
}
