package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration (task queue)
	Redis RedisConfig

	// HTTP Configuration
	HTTP HTTPConfig

	// Mail Configuration
	Mail MailConfig

	// Logging Configuration
	Logging LoggingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// HTTPConfig holds HTTP server and API client configuration
type HTTPConfig struct {
	ListenAddr string // Address the server binds to (":8000")
	APIBaseURL string // Base URL the web layer and CLI use to reach the REST API
}

// MailConfig holds outbound email configuration
type MailConfig struct {
	ResendAPIKey string // Empty disables delivery (no-op mailer)
	FromAddress  string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return &Config{
		Database: DatabaseConfig{
			URL: envOr("DATABASE_URL", "academia.sqlite"),
		},
		Redis: RedisConfig{
			Address: envOr("REDIS_ADDRESS", "localhost:6379"),
		},
		HTTP: HTTPConfig{
			ListenAddr: envOr("LISTEN_ADDR", ":8000"),
			APIBaseURL: envOr("API_BASE_URL", "http://localhost:8000"),
		},
		Mail: MailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			FromAddress:  envOr("MAIL_FROM", "Academia <cursos@academia.local>"),
		},
		Logging: LoggingConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
