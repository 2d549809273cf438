package config

import (
	"os"
	"strconv"
	"time"

	"github.com/tcdw/cms/internal/auth"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	DBPath     string
	JWTSecret  string
	TokenTTL   time.Duration
	RedisAddr  string
	RedisDB    int
	RedisPass  string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBPath:     getEnv("DB_PATH", "cms.db"),
		JWTSecret:  getEnv("JWT_SECRET", "change-me"),
		TokenTTL:   getEnvDuration("TOKEN_TTL", auth.DefaultTokenTTL),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
