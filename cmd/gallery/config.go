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
	PhotoAPIURL    string
	FavoritesFile  string
	DatabaseURL    string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	ShareSecret    string
	ShareTTL       time.Duration
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	secret := os.Getenv("SHARE_SECRET")
	if secret == "" {
		return Config{}, errors.New("SHARE_SECRET env var is required")
	}

	shareTTL, err := time.ParseDuration(envOrDefault("SHARE_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHARE_TTL: %w", err)
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))

	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	return Config{
		Addr:           addr,
		PhotoAPIURL:    strings.TrimRight(envOrDefault("PHOTO_API_URL", "https://jsonplaceholder.typicode.com"), "/"),
		FavoritesFile:  envOrDefault("FAVORITES_FILE", "data/favorites.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: origins,
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
		ShareSecret:    secret,
		ShareTTL:       shareTTL,
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
