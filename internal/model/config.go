package model

import (
	"runtime"
	"time"
)

// Config is the complete claimcheck configuration
type Config struct {
	// Framework is the process-wide default used when a request omits one
	Framework   string            `yaml:"framework" mapstructure:"framework"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig controls the MCP server
type ServerConfig struct {
	Name         string `yaml:"name" mapstructure:"name"`
	Version      string `yaml:"version" mapstructure:"version"`
	Transport    string `yaml:"transport" mapstructure:"transport"` // stdio or http
	HTTPAddr     string `yaml:"http_addr" mapstructure:"http_addr"`
	Instructions string `yaml:"instructions,omitempty" mapstructure:"instructions"`
}

// RateLimitConfig controls per-session tool call throttling
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // <= 0 disables throttling
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	IdleTTL           time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl"` // Evict buckets of idle sessions
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json or yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Development bool   `yaml:"development" mapstructure:"development"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Framework: string(DefaultFramework),
		Server: ServerConfig{
			Name:      "claimcheck",
			Version:   "0.1.0",
			Transport: "stdio",
			HTTPAddr:  ":8080",
			Instructions: "Use analyze_claim to get a validation checklist for a claim, " +
				"validate_sources to list citation phrases worth verifying, and " +
				"check_manipulation to flag persuasion tactics. Suggestions are prompts " +
				"for further research; nothing here is a verdict.",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			IdleTTL:           10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultFramework resolves the configured default framework, falling back to pluralistic
func (c Config) DefaultFramework() Framework {
	return FrameworkOrDefault(c.Framework)
}
