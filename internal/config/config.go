package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// APP
	AppEnv string
	Port   string

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string

	// Session
	JWTSecret  string
	SessionTTL time.Duration

	// GitLab
	GitLabTimeout  time.Duration
	NotesWorkers   int
	DefaultBaseURL string

	// Permissions table, empty means the built-in defaults
	PermissionsFile string

	CORSOrigins []string

	// Exports larger than this are refused
	MaxExportMB float64
}

func Load() (*Config, error) {
	cfg := &Config{
		// App
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8001"),

		// DB
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "127.0.0.1"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      getEnv("DB_PASS", "postgres"),
		DBName:      getEnv("DB_NAME", "gitlab_dashboard"),

		// JWT
		JWTSecret:  getEnv("JWT_SECRET", "secret123"),
		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),

		// GitLab
		GitLabTimeout:  getEnvDuration("GITLAB_TIMEOUT", 20*time.Second),
		NotesWorkers:   getEnvInt("GITLAB_NOTES_WORKERS", 8),
		DefaultBaseURL: getEnv("GITLAB_URL", ""),

		PermissionsFile: getEnv("PERMISSIONS_FILE", ""),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		MaxExportMB: getEnvFloat("MAX_EXPORT_MB", 25),
	}

	return cfg, nil
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat returns float from env or default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s", "12h").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
