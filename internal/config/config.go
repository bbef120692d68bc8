// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/taskpilot/taskpilot/pkg/types"
)

// DefaultPath is the config file used when none is given on the command line.
const DefaultPath = "taskpilot.yaml"

// Config represents the complete configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Todo     TodoConfig     `mapstructure:"todo" yaml:"todo"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Addr          string `mapstructure:"addr" yaml:"addr"`                     // listen address, e.g. ":8080"
	AllowedOrigin string `mapstructure:"allowed_origin" yaml:"allowed_origin"` // CORS origin, "*" for any
}

// DatabaseConfig contains SQLite database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // path to the sqlite file
}

// AIConfig contains language-model provider configuration.
type AIConfig struct {
	BaseURL         string  `mapstructure:"base_url" yaml:"base_url"`                   // OpenAI-compatible endpoint
	Model           string  `mapstructure:"model" yaml:"model"`                         // model identifier
	APIKey          string  `mapstructure:"api_key" yaml:"api_key"`                     // if empty, OPENROUTER_API_KEY env var
	Temperature     float32 `mapstructure:"temperature" yaml:"temperature"`             // sampling temperature
	MaxTokens       int     `mapstructure:"max_tokens" yaml:"max_tokens"`               // response length cap
	MaxRequestChars int     `mapstructure:"max_request_chars" yaml:"max_request_chars"` // user request truncation bound
	MaxContextChars int     `mapstructure:"max_context_chars" yaml:"max_context_chars"` // todo snapshot truncation bound
}

// AuthConfig contains session and password hashing configuration.
type AuthConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"` // session lifetime
	BcryptCost int           `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"` // 0 = bcrypt default
}

// TodoConfig contains todo defaults. The two priority defaults are distinct
// on purpose: direct form submissions and AI-extracted creations follow
// different product policies.
type TodoConfig struct {
	FormPriority  string `mapstructure:"form_priority" yaml:"form_priority"`   // default for direct form creates
	AgentPriority string `mapstructure:"agent_priority" yaml:"agent_priority"` // default for AI-dispatched creates
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			AllowedOrigin: "*",
		},
		Database: DatabaseConfig{
			Path: "taskpilot.db",
		},
		AI: AIConfig{
			BaseURL:         "https://openrouter.ai/api/v1",
			Model:           "qwen/qwen3-coder:free",
			Temperature:     0.7,
			MaxTokens:       500,
			MaxRequestChars: 1000,
			MaxContextChars: 2000,
		},
		Auth: AuthConfig{
			SessionTTL: 7 * 24 * time.Hour,
			BcryptCost: 0,
		},
		Todo: TodoConfig{
			FormPriority:  string(types.PriorityLow),
			AgentPriority: string(types.PriorityMedium),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from file, falling back to defaults.
// The OPENROUTER_API_KEY environment variable overrides ai.api_key so the
// credential can stay out of the config file.
func Load(path string) (*Config, []string, error) {
	cfg := DefaultConfig()
	warnings := []string{}

	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		warnings = append(warnings, "No config file found, using defaults")
	} else {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Apply defaults for missing values
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "taskpilot.db"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "qwen/qwen3-coder:free"
		warnings = append(warnings, "Using default model: qwen/qwen3-coder:free")
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 500
	}
	if cfg.AI.MaxRequestChars == 0 {
		cfg.AI.MaxRequestChars = 1000
	}
	if cfg.AI.MaxContextChars == 0 {
		cfg.AI.MaxContextChars = 2000
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.Todo.FormPriority == "" {
		cfg.Todo.FormPriority = string(types.PriorityLow)
	}
	if cfg.Todo.AgentPriority == "" {
		cfg.Todo.AgentPriority = string(types.PriorityMedium)
	}

	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}

	return cfg, warnings, nil
}

// Save saves configuration to file.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("database", cfg.Database)
	v.Set("ai", cfg.AI)
	v.Set("auth", cfg.Auth)
	v.Set("todo", cfg.Todo)
	v.Set("logging", cfg.Logging)

	return v.WriteConfig()
}

// Validate validates the configuration.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server addr must not be empty"))
	}

	if cfg.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database path must not be empty"))
	}

	if cfg.AI.Model == "" {
		errs = append(errs, fmt.Errorf("ai model must not be empty"))
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("ai temperature out of range: %v", cfg.AI.Temperature))
	}
	if cfg.AI.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("ai max_tokens must be positive"))
	}
	if cfg.AI.MaxRequestChars <= 0 {
		errs = append(errs, fmt.Errorf("ai max_request_chars must be positive"))
	}
	if cfg.AI.MaxContextChars <= 0 {
		errs = append(errs, fmt.Errorf("ai max_context_chars must be positive"))
	}

	if cfg.Auth.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth session_ttl must be positive"))
	}
	if cfg.Auth.BcryptCost < 0 || cfg.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("auth bcrypt_cost out of range: %d", cfg.Auth.BcryptCost))
	}

	if !types.Priority(cfg.Todo.FormPriority).Valid() {
		errs = append(errs, fmt.Errorf("invalid form priority: %s", cfg.Todo.FormPriority))
	}
	if !types.Priority(cfg.Todo.AgentPriority).Valid() {
		errs = append(errs, fmt.Errorf("invalid agent priority: %s", cfg.Todo.AgentPriority))
	}

	validLevels := map[string]bool{
		"": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", cfg.Logging.Level))
	}
	validFormats := map[string]bool{
		"": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Errorf("invalid log format: %s", cfg.Logging.Format))
	}

	return errs
}
