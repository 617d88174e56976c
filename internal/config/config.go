package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var AppEnv Config

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	Port           string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnvOrDefault("DB_NAME", "backoffice"),
		JWTSecret:      getRequiredEnv("JWT_SECRET"),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		Port:           getEnvOrDefault("PORT", "8080"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getRequiredEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		log.Fatal().Str("key", key).Msg("required env var is missing")
	}
	return value
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
