package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort          string
	ContactsEndpoint string
	MessagesEndpoint string
	PollInterval     time.Duration
	AllowedOrigins   []string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	return &Config{
		AppPort:          getEnv("APP_PORT", "8080"),
		ContactsEndpoint: getEnv("CONTACTS_ENDPOINT", "https://n8n.uni.uy/webhook/3b5f9ce4-3482-4077-aa8c-cb0def78dd4a"),
		MessagesEndpoint: getEnv("MESSAGES_ENDPOINT", "https://n8n.uni.uy/webhook/a7e6d994-fe18-4b68-8d47-cba715c349c4"),
		PollInterval:     time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 30)) * time.Second,
		AllowedOrigins:   splitOrigins(getEnv("ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using %d", key, value, fallback)
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
