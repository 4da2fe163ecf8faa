package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig selects and locates the journal store
type DatabaseConfig struct {
	Driver string `yaml:"driver" json:"driver"` // sqlite or postgres
	Path   string `yaml:"path" json:"path"`     // sqlite file
	DSN    string `yaml:"dsn" json:"dsn"`       // postgres connection string
}

// OpenAIConfig controls the chat completion backend
type OpenAIConfig struct {
	Model   string `yaml:"model" json:"model"`
	BaseURL string `yaml:"base_url" json:"base_url"` // Empty means the public API
}

// ServerConfig controls journal-server
type ServerConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	TokenHash string `yaml:"token_hash" json:"-"` // bcrypt hash; empty disables auth
}

// Config holds user preferences
type Config struct {
	Database     DatabaseConfig `yaml:"database" json:"database"`
	OpenAI       OpenAIConfig   `yaml:"openai" json:"openai"`
	Server       ServerConfig   `yaml:"server" json:"server"`
	PeriodicDays int            `yaml:"periodic_days" json:"periodic_days"` // Default span of a periodic update

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns the journal home directory (~/.journal)
func Dir() string {
	if dir := os.Getenv("JOURNAL_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ".journal"
	}
	return filepath.Join(home, ".journal")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir := Dir()

	return &Config{
		Database: DatabaseConfig{
			Driver: getEnv("JOURNAL_DB_DRIVER", "sqlite"),
			Path:   getEnv("JOURNAL_DB_PATH", filepath.Join(dir, "journal.db")),
			DSN:    getEnv("JOURNAL_DATABASE_URL", ""),
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4-0125-preview",
			BaseURL: getEnv("JOURNAL_OPENAI_BASE_URL", ""),
		},
		Server: ServerConfig{
			Addr: getEnv("JOURNAL_SERVER_ADDR", "127.0.0.1:8787"),
		},
		PeriodicDays: getEnvInt("JOURNAL_PERIODIC_DAYS", 7),
		LogLevel:     getEnv("JOURNAL_LOG_LEVEL", "INFO"),
		LogFile:      getEnv("JOURNAL_LOG_FILE", filepath.Join(dir, "logs", "journal.log")),
		LogConsole:   getEnv("JOURNAL_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Load loads config from ~/.journal/config.yaml
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads config from path, returning defaults if the file does not exist
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("invalid config: database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("invalid config: database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("invalid config: unknown database.driver %q", c.Database.Driver)
	}
	if c.PeriodicDays < 1 {
		return fmt.Errorf("invalid config: periodic_days must be at least 1")
	}
	return nil
}

// Save saves config to ~/.journal/config.yaml
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
