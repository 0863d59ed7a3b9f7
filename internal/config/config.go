// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	JWTSecretKey string
	DatabasePath string
	Environment  string

	// Simulation knobs. Delays are milliseconds; the reply delay is picked
	// uniformly in [ReplyDelayMinMS, ReplyDelayMaxMS).
	ReplyDelayMinMS    int
	ReplyDelayMaxMS    int
	IncomingIntervalMS int
	PresenceIntervalMS int
	PresenceFlipPct    int
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", "neochat-dev-secret"),
		DatabasePath:       getEnv("DATABASE_PATH", "neochat.db"),
		Environment:        env,
		ReplyDelayMinMS:    getEnvAsInt("REPLY_DELAY_MIN_MS", 1000),
		ReplyDelayMaxMS:    getEnvAsInt("REPLY_DELAY_MAX_MS", 3000),
		IncomingIntervalMS: getEnvAsInt("INCOMING_INTERVAL_MS", 45000),
		PresenceIntervalMS: getEnvAsInt("PRESENCE_INTERVAL_MS", 30000),
		PresenceFlipPct:    getEnvAsInt("PRESENCE_FLIP_PCT", 20),
	}

	if strings.ToLower(env) == "production" && cfg.JWTSecretKey == "neochat-dev-secret" {
		log.Fatalf("JWT_SECRET_KEY must be set explicitly in production")
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
