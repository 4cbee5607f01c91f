package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "AUTH_URL", "API_URL", "BOT_TOKEN", "MIGRATIONS_PATH", "LOG_LEVEL",
	"WORDBOOK_SESSION_FILE", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
}

// clearEnv blanks every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
		{
			name:         "env variable empty",
			key:          "TEST_KEY_EMPTY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, ":4000", cfg.Addr())
	assert.Equal(t, "http://localhost:8080", cfg.AuthURL)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Empty(t, cfg.BotToken)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, ".wordbook", "session.json"), cfg.SessionFile)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "wordbook", cfg.Database.Name)
	assert.Equal(t, "wordbook", cfg.Database.User)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_URL", "http://auth:8080")
	t.Setenv("API_URL", "http://api:4000")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WORDBOOK_SESSION_FILE", "/tmp/wb.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "http://auth:8080", cfg.AuthURL)
	assert.Equal(t, "http://api:4000", cfg.APIURL)
	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/wb.json", cfg.SessionFile)
}

func TestLoad_InvalidPort(t *testing.T) {
	for _, port := range []string{"abc", "0", "70000"} {
		t.Run(port, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", port)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "PORT")
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)

	cfg.Database.URL = "postgres://u:p@db:5432/wordbook?sslmode=disable"
	assert.Equal(t, cfg.Database.URL, cfg.DSN())
}

func TestConfig_ValidateDatabase(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr bool
	}{
		{name: "nothing set", db: DatabaseConfig{}, wantErr: true},
		{name: "password", db: DatabaseConfig{Password: "secret"}},
		{name: "url", db: DatabaseConfig{URL: "postgres://localhost/wordbook"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{Database: tt.db}).ValidateDatabase()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "DB_PASSWORD")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are present, even empty ones
	os.Unsetenv("PORT")
	os.Unsetenv("BOT_TOKEN")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=4100\nBOT_TOKEN=from-file\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4100, cfg.Port)
	assert.Equal(t, "from-file", cfg.BotToken)
}
