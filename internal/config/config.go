package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings. It is built once in main from the
// process environment and passed by reference; nothing else reads env vars.
type Config struct {
	Port            string
	SecretKey       string
	DatabaseURL     string
	AllowedOrigins  []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	GinMode         string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		SecretKey:       getEnv("SECRET_KEY", "insecure-dev-key"),
		DatabaseURL:     getEnv("DATABASE_URL", "taskflow.db"),
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8000"}),
		AccessTokenTTL:  getEnvAsMinutes("ACCESS_TOKEN_MINUTES", 30),
		RefreshTokenTTL: getEnvAsMinutes("REFRESH_TOKEN_MINUTES", 24*60),
		GinMode:         getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsMinutes(key string, defaultMinutes int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultMinutes) * time.Minute
	}
	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		return time.Duration(defaultMinutes) * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}
