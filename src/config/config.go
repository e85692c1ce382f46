package config

import (
	"fmt"
	"os"
	"strconv"

	"market-analyzer/src/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied to zero-valued settings after loading.
const (
	DefaultCacheTTLSeconds   = 300
	DefaultPeriod            = "1y"
	DefaultMinHistoryBars    = 10
	DefaultMinPreparedRows   = 10
	DefaultMaxHorizonDays    = 366
	DefaultStepMode          = "calendar"
	DefaultSessionTTLMinutes = 24 * 60
	DefaultJanitorCron       = "@every 1m"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file. A .env file next
// to the working directory, if any, is loaded first so its variables can
// override the YAML values.
func NewConfig(configPath string) (*Config, error) {
	// 1. Optional .env
	_ = godotenv.Load()

	// 2. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	return Parse(data)
}

// -----------------------------------------------------------------------------

// Parse builds a validated Config from YAML bytes and the environment.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyEnv()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() {
	if v := os.Getenv("ANALYZER_DB_DSN"); v != "" {
		c.Storage.DBConnectionString = v
	}
	if v := os.Getenv("ANALYZER_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("ANALYZER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("ANALYZER_SESSION_SECRET"); v != "" {
		c.Auth.SessionSecret = v
	}
	if v := os.Getenv("ANALYZER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.DataSource.CacheTTLSeconds == 0 {
		c.DataSource.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.DataSource.DefaultPeriod == "" {
		c.DataSource.DefaultPeriod = DefaultPeriod
	}
	if c.Forecast.MinHistoryBars == 0 {
		c.Forecast.MinHistoryBars = DefaultMinHistoryBars
	}
	if c.Forecast.MinPreparedRows == 0 {
		c.Forecast.MinPreparedRows = DefaultMinPreparedRows
	}
	if c.Forecast.MaxHorizonDays == 0 {
		c.Forecast.MaxHorizonDays = DefaultMaxHorizonDays
	}
	if c.Forecast.StepMode == "" {
		c.Forecast.StepMode = DefaultStepMode
	}
	if c.Auth.SessionTTLMinutes == 0 {
		c.Auth.SessionTTLMinutes = DefaultSessionTTLMinutes
	}
	if c.Scheduler.JanitorCron == "" {
		c.Scheduler.JanitorCron = DefaultJanitorCron
	}
}

// -----------------------------------------------------------------------------

// Validate performs configuration validation: struct tags first, then the
// cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c.MConfig); err != nil {
		return err
	}

	// Validate Storage configuration
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("database connection string cannot be empty for postgres")
	}

	// Validate DataSource configuration
	seen := make(map[string]struct{})
	for i, src := range c.DataSource.Sources {
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("source %d: duplicate name '%s'", i, src.Name)
		}
		seen[src.Name] = struct{}{}
	}

	// Validate Forecast configuration
	if c.Forecast.MinPreparedRows < 2 {
		return fmt.Errorf("min prepared rows must be at least 2")
	}

	if c.GrpcPort != 0 && c.GrpcPort == c.Port && c.GrpcHost == c.Host {
		return fmt.Errorf("grpc port %d collides with http port", c.GrpcPort)
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
