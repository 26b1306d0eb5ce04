package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"stock-insight/src/models"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no -config flag is given.
const DefaultPath = "config/default.yaml"

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig loads the YAML file, applies defaults and environment overrides,
// then validates the result.
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.ApplyDefaults()

	// 3. Environment wins over the file
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

// ApplyDefaults fills every value the file left empty.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "stock-insight"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.GrpcHost == "" {
		c.GrpcHost = c.Host
	}

	if c.Storage.DBType == "" {
		c.Storage.DBType = "memory"
	}
	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = 7
	}
	if c.Storage.MemoryCapacity == 0 {
		c.Storage.MemoryCapacity = 1000
	}
	if c.Storage.CleanupCron == "" {
		c.Storage.CleanupCron = "0 0 * * * *"
	}

	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 10
	}

	if c.AlphaVantage.BaseURL == "" {
		c.AlphaVantage.BaseURL = "https://www.alphavantage.co/query"
	}

	if c.Credentials.Source == "" {
		c.Credentials.Source = "file"
	}
	if c.Credentials.APIKeyFile == "" {
		c.Credentials.APIKeyFile = "api_key_g.txt"
	}
	if c.Credentials.APIKeyEnv == "" {
		c.Credentials.APIKeyEnv = "ALPHAVANTAGE_API_KEY"
	}

	if c.Charts.Mode == "" {
		c.Charts.Mode = "full"
	}
	if c.Charts.MovingAverageWindow == 0 {
		c.Charts.MovingAverageWindow = 20
	}
	if c.Charts.HistogramBins == 0 {
		c.Charts.HistogramBins = 50
	}
	if c.Charts.WidthInches == 0 {
		c.Charts.WidthInches = 10
	}
	if c.Charts.HeightInches == 0 {
		c.Charts.HeightInches = 4
	}
}

// -----------------------------------------------------------------------------

// ApplyEnv overrides selected values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		*dst = n
		return nil
	}

	setString("HOST", &c.Host)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("ALPHAVANTAGE_BASE_URL", &c.AlphaVantage.BaseURL)
	setString("CREDENTIALS_SOURCE", &c.Credentials.Source)
	setString("DB_TYPE", &c.Storage.DBType)
	setString("DB_PATH", &c.Storage.DBPath)
	setString("DATABASE_URL", &c.Storage.DBConnectionString)
	setString("CHART_MODE", &c.Charts.Mode)

	if err := setInt("PORT", &c.Port); err != nil {
		return err
	}
	if err := setInt("GRPC_PORT", &c.GrpcPort); err != nil {
		return err
	}
	return setInt("REQUEST_TIMEOUT", &c.Network.RequestTimeout)
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1 and 65535)", c.Port)
	}
	if c.GrpcPort < 0 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid gRPC port number: %d", c.GrpcPort)
	}
	if c.GrpcPort != 0 && c.GrpcPort == c.Port && c.GrpcHost == c.Host {
		return fmt.Errorf("gRPC port %d clashes with the HTTP port", c.GrpcPort)
	}

	// Validate Storage configuration
	switch c.Storage.DBType {
	case "memory":
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}
	if c.Storage.RetentionDays <= 0 {
		return fmt.Errorf("data retention days must be greater than 0")
	}
	if c.Storage.MemoryCapacity <= 0 {
		return fmt.Errorf("memory capacity must be greater than 0")
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	// Validate upstream and credentials
	if !strings.HasPrefix(c.AlphaVantage.BaseURL, "http://") && !strings.HasPrefix(c.AlphaVantage.BaseURL, "https://") {
		return fmt.Errorf("alphavantage base_url must be an http(s) URL")
	}
	switch c.Credentials.Source {
	case "file", "env", "chain":
	default:
		return fmt.Errorf("unsupported credentials source: %s", c.Credentials.Source)
	}

	// Validate Charts configuration
	if c.Charts.Mode != "full" && c.Charts.Mode != "combined" {
		return fmt.Errorf("chart mode must be 'full' or 'combined', got %q", c.Charts.Mode)
	}
	if c.Charts.MovingAverageWindow <= 0 {
		return fmt.Errorf("moving average window must be greater than 0")
	}
	if c.Charts.HistogramBins <= 0 {
		return fmt.Errorf("histogram bins must be greater than 0")
	}
	if c.Charts.WidthInches <= 0 || c.Charts.HeightInches <= 0 {
		return fmt.Errorf("chart size must be positive")
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
