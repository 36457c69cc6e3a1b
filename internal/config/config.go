package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `json:"database"`
	LLM      LLMConfig      `json:"llm"`
	Agent    AgentConfig    `json:"agent"`
	Logging  LoggingConfig  `json:"logging"`
}

// DatabaseConfig represents warehouse connection configuration
type DatabaseConfig struct {
	Path string `json:"path" env:"DB_PATH"`
	// Schemas restricts introspection and generation context to an explicit
	// allow-list. Empty means all non-system schemas.
	Schemas []string `json:"schemas" env:"DB_SCHEMAS" envSeparator:","`
}

// LLMConfig selects the completion backend
type LLMConfig struct {
	Provider string `json:"provider" env:"LLM_PROVIDER"`
	Model    string `json:"model"    env:"LLM_MODEL"`
	BaseURL  string `json:"base_url" env:"LLM_BASE_URL"`
}

// AgentConfig represents query-loop tuning knobs
type AgentConfig struct {
	MaxRetries      int `json:"max_retries"       env:"MAX_RETRIES"`
	SummarizeRowCap int `json:"summarize_row_cap" env:"SUMMARIZE_ROW_CAP"`
	MaxTokens       int `json:"max_tokens"        env:"MAX_TOKENS"`
	SampleLimit     int `json:"sample_limit"      env:"SAMPLE_LIMIT"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"  env:"LOG_LEVEL"`  // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT"` // text, json
	Output string `json:"output" env:"LOG_OUTPUT"` // stdout, stderr, file
	File   string `json:"file"   env:"LOG_FILE"`
}

// DefaultConfig returns the built-in defaults. Defaults live here rather
// than in envDefault tags so that config-file values are not clobbered when
// the corresponding environment variable is unset.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/askdb/warehouse.duckdb",
		},
		LLM: LLMConfig{
			Provider: "groq",
		},
		Agent: AgentConfig{
			MaxRetries:      2,
			SummarizeRowCap: 20,
			MaxTokens:       1024,
			SampleLimit:     3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LoadConfig loads configuration in layers: built-in defaults, then the
// config file, then environment variables (ASKDB_ prefix).
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		if err := loadConfigFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{
		Prefix: "ASKDB_",
	}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadConfigFromFile loads configuration from a JSON file
func loadConfigFromFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() string {
	if path := os.Getenv("ASKDB_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".askdb.json"
	}

	return filepath.Join(homeDir, ".config", "askdb", "config.json")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	switch config.LLM.Provider {
	case "groq", "openai", "anthropic", "ollama":
	default:
		return fmt.Errorf("invalid LLM provider: %s (supported: groq, openai, anthropic, ollama)",
			config.LLM.Provider)
	}

	if config.Agent.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", config.Agent.MaxRetries)
	}

	if config.Agent.SummarizeRowCap <= 0 {
		return fmt.Errorf("summarize_row_cap must be positive, got %d", config.Agent.SummarizeRowCap)
	}

	if config.Agent.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", config.Agent.MaxTokens)
	}

	if config.Agent.SampleLimit <= 0 {
		return fmt.Errorf("sample_limit must be positive, got %d", config.Agent.SampleLimit)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	switch config.Logging.Output {
	case "stdout", "stderr":
	case "file":
		if config.Logging.File == "" {
			return fmt.Errorf("log file path is required when output is 'file'")
		}
	default:
		return fmt.Errorf("invalid log output: %s", config.Logging.Output)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, strings.TrimPrefix(path, "~/"))
}
