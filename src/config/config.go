package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"sp500-dashboard/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCatalogURL     = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	DefaultHistoryBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file. Values from a
// .env file and DASHBOARD_* environment variables override the file.
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	config, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// 3. Environment overlay (.env is optional)
	_ = godotenv.Load()
	if err := config.ApplyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Parse decodes YAML and fills defaults without validating.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()
	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.DefaultWindow == "" {
		c.DefaultWindow = models.DefaultWindowLabel
	}
	if c.Catalog.URL == "" {
		c.Catalog.URL = DefaultCatalogURL
	}
	if c.Catalog.TTLMinutes == 0 {
		c.Catalog.TTLMinutes = 24 * 60
	}
	if c.Catalog.Cache.Backend == "" {
		c.Catalog.Cache.Backend = "memory"
	}
	if c.History.BaseURL == "" {
		c.History.BaseURL = DefaultHistoryBaseURL
	}
	if c.History.Interval == "" {
		c.History.Interval = "1d"
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 15
	}
	if c.Network.RequestsPerSecond == 0 {
		c.Network.RequestsPerSecond = 2
	}
	if c.Network.Burst == 0 {
		c.Network.Burst = 4
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
}

// -----------------------------------------------------------------------------

// ApplyEnv overrides selected settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("DASHBOARD_HOST"); v != "" {
		c.Host = v
	}
	if v := getenv("DASHBOARD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DASHBOARD_PORT: %w", err)
		}
		c.Port = port
	}
	if v := getenv("DASHBOARD_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("DASHBOARD_REDIS_ADDR"); v != "" {
		c.Catalog.Cache.Backend = "redis"
		c.Catalog.Cache.RedisAddr = v
	}
	if v := getenv("DASHBOARD_DB_DSN"); v != "" {
		c.Storage.Enabled = true
		c.Storage.DBType = "postgres"
		c.Storage.DBConnectionString = v
	}
	return nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	if _, err := models.ParseWindow(c.DefaultWindow); err != nil {
		return fmt.Errorf("default window: %w", err)
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535 || c.GrpcPort == c.Port) {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.RequestsPerSecond < 0 || c.Network.Burst < 0 {
		return fmt.Errorf("rate limit settings cannot be negative")
	}

	// Validate Catalog configuration
	if c.Catalog.TTLMinutes < 0 {
		return fmt.Errorf("catalog ttl cannot be negative")
	}
	switch c.Catalog.Cache.Backend {
	case "memory":
	case "redis":
		if c.Catalog.Cache.RedisAddr == "" {
			return fmt.Errorf("redis address cannot be empty for redis cache backend")
		}
	default:
		return fmt.Errorf("unknown catalog cache backend %q", c.Catalog.Cache.Backend)
	}

	// Validate Storage configuration
	if c.Storage.Enabled {
		switch strings.ToLower(c.Storage.DBType) {
		case "sqlite":
			if c.Storage.DBPath == "" {
				return fmt.Errorf("database path cannot be empty for sqlite")
			}
		case "postgres":
			if c.Storage.DBConnectionString == "" {
				return fmt.Errorf("database connection string cannot be empty for postgres")
			}
		default:
			return fmt.Errorf("unknown database type %q", c.Storage.DBType)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
