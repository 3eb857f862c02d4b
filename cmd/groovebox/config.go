package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	Addr           string
	DataDir        string
	SongsDir       string
	JWTSecret      string
	TokenTTL       time.Duration
	SweepInterval  time.Duration
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET env var is required")
	}

	tokenTTL, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}

	sweepInterval, err := time.ParseDuration(envOrDefault("BLOCKLIST_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BLOCKLIST_SWEEP_INTERVAL: %w", err)
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))
	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	return Config{
		Addr:           addr,
		DataDir:        envOrDefault("DATA_DIR", "data"),
		SongsDir:       envOrDefault("SONGS_DIR", "songs"),
		JWTSecret:      secret,
		TokenTTL:       tokenTTL,
		SweepInterval:  sweepInterval,
		AllowedOrigins: origins,
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
