package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	GenAI  GenAIConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
	SessionTTL     time.Duration
}

// GenAIConfig holds structured-generation client configuration
type GenAIConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxConcurrent int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 20<<20),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		},
		GenAI: GenAIConfig{
			APIKey:        getEnv("GEMINI_API_KEY", ""),
			BaseURL:       getEnv("GEMINI_BASE_URL", ""),
			Model:         getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:       getEnvAsDuration("GEMINI_TIMEOUT", 120*time.Second),
			MaxConcurrent: getEnvAsInt("TRANSLATE_MAX_CONCURRENT", 8),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration. A missing API key is not a
// startup error: operations that need it fail with ErrMissingCredential so
// the caller can collect one.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_BYTES must be positive", ErrInvalidInput)
	}
	if c.GenAI.Model == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_MODEL is required", ErrInvalidInput)
	}
	if c.GenAI.MaxConcurrent <= 0 {
		return NewAppError("CONFIG_ERROR", "TRANSLATE_MAX_CONCURRENT must be positive", ErrInvalidInput)
	}
	return nil
}
