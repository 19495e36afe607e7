// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// RestaurantName is the display name used by the standalone response
	// generator's review templates.
	RestaurantName string `mapstructure:"restaurant_name"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// GetAddr returns the listen address for the HTTP server
func (s ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- LLM Configuration ---

// LLMConfig holds provider credentials plus the model selection for each
// component. The agent and classifier default to Gemini, the response
// generator to OpenAI.
type LLMConfig struct {
	Gemini  GeminiConfig `mapstructure:"gemini"`
	OpenAI  OpenAIConfig `mapstructure:"openai"`
	Timeout int          `mapstructure:"timeout"` // milliseconds

	Agent      ModelSelection `mapstructure:"agent"`
	Classifier ModelSelection `mapstructure:"classifier"`
	Generator  ModelSelection `mapstructure:"generator"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"` // optional, for gateways and test fakes
}

// ModelSelection binds one service component to a provider and model.
type ModelSelection struct {
	Provider string `mapstructure:"provider"` // "gemini" or "openai"
	Model    string `mapstructure:"model"`
}

// --- Agent Configuration ---

// AgentConfig holds the tool-calling loop tunables.
type AgentConfig struct {
	MaxIterations int     `mapstructure:"max_iterations"`
	HistoryWindow int     `mapstructure:"history_window"` // turns kept per conversation
	Temperature   float64 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
}

// --- Cache Configuration ---
type CacheConfig struct {
	TTL     int  `mapstructure:"ttl"` // seconds
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
