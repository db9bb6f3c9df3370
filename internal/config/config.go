package config

import (
	"os"
	"strconv"
	"time"

	"ringlab/domain/health"
	"ringlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Oura     OuraConfig `validate:"required"`
	Server   ServerConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
	Export   ExportConfig
	Log      LogConfig
}

// OuraConfig holds ring cloud API client settings
type OuraConfig struct {
	Token   string `validate:"required"`
	BaseURL string
	Timeout time.Duration
}

// ServerConfig holds the MCP and REST listener settings
type ServerConfig struct {
	MCPAddr string
	APIAddr string
	GinMode string
}

// DatabaseConfig holds the optional archive database settings. An empty
// URL disables archiving.
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig holds the default analysis parameters. Tool arguments
// override these per call.
type AnalysisConfig struct {
	Method            string
	MaxLagDays        int
	DetrendWindowDays int
}

// ExportConfig holds workbook export settings
type ExportConfig struct {
	Dir string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	ouraConfig, err := loadOuraConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ring API configuration")
	}
	config.Oura = *ouraConfig

	config.Server = *loadServerConfig()
	config.Database = *loadDatabaseConfig()
	config.Analysis = *loadAnalysisConfig()
	config.Export = *loadExportConfig()
	config.Log = *loadLogConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadOuraConfig() (*OuraConfig, error) {
	token := os.Getenv("OURA_API_TOKEN")
	if token == "" {
		return nil, errors.ConfigInvalid("OURA_API_TOKEN is required")
	}

	return &OuraConfig{
		Token:   token,
		BaseURL: getEnvOrDefault("OURA_API_BASE_URL", "https://api.ouraring.com"),
		Timeout: time.Duration(getEnvIntOrDefault("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		MCPAddr: getEnvOrDefault("MCP_HTTP_ADDR", ":8765"),
		APIAddr: getEnvOrDefault("API_ADDR", ":8090"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", ""),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Method:            getEnvOrDefault("CORRELATION_METHOD", health.MethodSpearman),
		MaxLagDays:        getEnvIntOrDefault("MAX_LAG_DAYS", health.DefaultMaxLagDays),
		DetrendWindowDays: getEnvIntOrDefault("DETREND_WINDOW_DAYS", health.DefaultDetrendWindowDays),
	}
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		Dir: getEnvOrDefault("EXPORT_DIR", "./exports"),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Pretty: getEnvBoolOrDefault("LOG_PRETTY", false),
	}
}

func validateConfig(config *Config) error {
	if config.Oura.Token == "" {
		return errors.ConfigInvalid("ring API token is required")
	}
	if config.Analysis.Method != health.MethodSpearman && config.Analysis.Method != health.MethodPearson {
		return errors.ConfigInvalid("CORRELATION_METHOD must be spearman or pearson")
	}
	if config.Analysis.MaxLagDays < 0 {
		return errors.ConfigInvalid("MAX_LAG_DAYS must not be negative")
	}
	return nil
}

// AnalysisDefaults converts the configured analysis section into the
// engine's config type.
func (c *Config) AnalysisDefaults() health.AnalysisConfig {
	return health.AnalysisConfig{
		Method:            c.Analysis.Method,
		MaxLagDays:        c.Analysis.MaxLagDays,
		DetrendWindowDays: c.Analysis.DetrendWindowDays,
	}.Normalize()
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
