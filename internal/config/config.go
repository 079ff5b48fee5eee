// ABOUTME: healthdash configuration: JSON file, .env, and environment overrides.
// ABOUTME: Also selects the storage backend from the database URL.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/harperreed/healthdash/internal/apperr"
	"github.com/harperreed/healthdash/internal/insights"
	"github.com/harperreed/healthdash/internal/logger"
	"github.com/harperreed/healthdash/internal/storage"
	"github.com/joho/godotenv"
)

// DefaultHTTPAddr is where `serve` listens unless configured otherwise.
const DefaultHTTPAddr = ":8080"

// Config stores healthdash configuration. Environment variables override
// values read from the config file.
type Config struct {
	// DatabaseURL selects the backend: postgres:// or postgresql:// for
	// PostgreSQL; sqlite://path, file:path or a bare path for SQLite.
	DatabaseURL string `json:"database_url,omitempty" env:"DATABASE_URL"`

	// AIProvider is "anthropic" (default) or "gemini".
	AIProvider      string `json:"ai_provider,omitempty" env:"HEALTHDASH_AI_PROVIDER"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty" env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty" env:"GEMINI_API_KEY"`
	AIModel         string `json:"ai_model,omitempty" env:"HEALTHDASH_AI_MODEL"`

	HTTPAddr  string `json:"http_addr,omitempty" env:"HEALTHDASH_HTTP_ADDR"`
	LogLevel  string `json:"log_level,omitempty" env:"LOG_LEVEL"`
	LogFormat string `json:"log_format,omitempty" env:"LOG_FORMAT"`
}

// Backend names returned by Config.Backend.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Backend reports which storage backend DatabaseURL selects.
func (c *Config) Backend() string {
	u := strings.ToLower(c.DatabaseURL)
	if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
		return BackendPostgres
	}
	return BackendSQLite
}

// SQLitePath returns the database file path for SQLite URLs, with ~ expanded.
func (c *Config) SQLitePath() string {
	p := c.DatabaseURL
	switch {
	case strings.HasPrefix(p, "sqlite://"):
		p = strings.TrimPrefix(p, "sqlite://")
	case strings.HasPrefix(p, "sqlite:"):
		p = strings.TrimPrefix(p, "sqlite:")
	case strings.HasPrefix(p, "file:"):
		p = strings.TrimPrefix(p, "file:")
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return ExpandPath(p)
}

// GetHTTPAddr returns the listen address, defaulting to :8080.
func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}

// Validate checks the settings required to start.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return apperr.Config(fmt.Sprintf(
			"DATABASE_URL is not set (for a local database use e.g. sqlite://%s)", storage.DefaultDBPath()))
	}
	if c.Backend() == BackendSQLite && c.SQLitePath() == "" {
		return apperr.Config("DATABASE_URL has no SQLite file path")
	}
	if p := strings.ToLower(c.AIProvider); p != "" && p != insights.ProviderAnthropic && p != insights.ProviderGemini {
		return apperr.Config(fmt.Sprintf("unknown AI provider: %q", c.AIProvider))
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates the Repository selected by DatabaseURL.
func (c *Config) OpenStorage() (storage.Repository, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend() {
	case BackendPostgres:
		return storage.OpenPostgres(c.DatabaseURL)
	default:
		return storage.Open(c.SQLitePath())
	}
}

// ProviderConfig returns the insight provider settings, picking the API key
// that matches the selected provider.
func (c *Config) ProviderConfig() insights.ProviderConfig {
	pc := insights.ProviderConfig{
		Provider: strings.ToLower(c.AIProvider),
		Model:    c.AIModel,
		APIKey:   c.AnthropicAPIKey,
	}
	if pc.Provider == "" {
		pc.Provider = insights.ProviderAnthropic
	}
	if pc.Provider == insights.ProviderGemini {
		pc.APIKey = c.GeminiAPIKey
	}
	return pc
}

// LoggerConfig returns logger settings.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthdash", "config.json")
}

// LoadEnvFile loads KEY=value pairs from the given files (default .env)
// without overriding variables already set. Missing files are ignored.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the config file, then applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
