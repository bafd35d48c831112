package config

import (
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	// JWKSURL verifies bearer tokens; when empty requests run as DevUserID
	JWKSURL     string
	DevUserID   string
	CORSOrigins string
	TablePrefix string
	// CanvasSettingsPath optionally overrides the canvas engine constants
	CanvasSettingsPath string
	LogDir             string
	// Debug flags
	Debug bool // Enables debug logging and verbose problem details
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWKSURL:            getEnv("AUTH_JWKS_URL", ""),
		DevUserID:          getEnv("DEV_USER_ID", "00000000-0000-0000-0000-000000000001"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        getTablePrefix(env),
		CanvasSettingsPath: getEnv("CANVAS_SETTINGS_PATH", ""),
		LogDir:             getEnv("LOG_DIR", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// AllowedOrigins splits CORSOrigins on commas
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
