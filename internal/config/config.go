package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration, populated from environment
// variables with sensible defaults for local use.
type Config struct {
	Port          string
	DBMode        string // "sqlite" or "postgres"
	SQLitePath    string
	PostgresDSN   string
	JWTSecret     string
	AdminUser     string
	AdminPassHash string // SHA-256 hex of the admin password
	SocrataURL    string
	PageSize      int // records per page when fetching from the API
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          envOrDefault("PORT", ":8080"),
		DBMode:        envOrDefault("DB_MODE", "sqlite"),
		SQLitePath:    envOrDefault("SQLITE_PATH", "chicago.db"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		JWTSecret:     envOrDefault("JWT_SECRET", "change-me-in-production"),
		AdminUser:     envOrDefault("ADMIN_USER", "admin"),
		AdminPassHash: envOrDefault("ADMIN_PASSWORD_SHA256", defaultAdminHash),
		SocrataURL:    envOrDefault("SOCRATA_URL", "https://data.cityofchicago.org/resource/ijzp-q8t2.json"),
		PageSize:      envIntOrDefault("FETCH_PAGE_SIZE", 1000),
	}
}

// defaultAdminHash is SHA-256("admin123"), matching the seeded default
// account. Override ADMIN_PASSWORD_SHA256 for anything non-local.
const defaultAdminHash = "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9"

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
