package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port           int
	AuthURL        string
	APIURL         string
	BotToken       string
	MigrationsPath string
	LogLevel       string
	SessionFile    string
	Database       DatabaseConfig
}

// DatabaseConfig holds database connection settings.
// URL wins over the individual fields when set.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "4000"))
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT must be a valid port number, got %q", os.Getenv("PORT"))
	}

	sessionFile := os.Getenv("WORDBOOK_SESSION_FILE")
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("WORDBOOK_SESSION_FILE is not set and home dir is unknown: %w", err)
		}
		sessionFile = filepath.Join(home, ".wordbook", "session.json")
	}

	cfg := &Config{
		Port:           port,
		AuthURL:        getEnv("AUTH_URL", "http://localhost:8080"),
		APIURL:         getEnv("API_URL", "http://localhost:8080"),
		BotToken:       os.Getenv("BOT_TOKEN"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SessionFile:    sessionFile,
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordbook"),
			User:     getEnv("DB_USER", "wordbook"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	return cfg, nil
}

// ValidateDatabase checks the settings needed by commands that open the database
func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return errors.New("DATABASE_URL or DB_PASSWORD is required")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
