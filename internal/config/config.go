package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Config holds every setting read from the environment.
type Config struct {
	Port        string
	StoreDriver string // "postgres", "mongo" or "memory"

	DB Postgres

	MongoURI      string
	MongoDatabase string

	RedisAddress  string
	RedisPassword string
	RedisDatabase int
	DraftTTL      time.Duration

	AuthEnabled bool
	JWTSecret   string
	CORSOrigins []string

	LogFile   string
	LogLevel  string
	LogStdout bool
}

// Postgres holds the connection settings for the relational store.
type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	// 1) Load .env (if present)
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found – relying on env vars")
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		DB: Postgres{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "camino"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/"),
		MongoDatabase: getEnv("MONGO_DATABASE", "camino"),
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDatabase: cast.ToInt(getEnv("REDIS_DATABASE", "0")),
		DraftTTL:      durationEnv("DRAFT_TTL", 24*time.Hour),
		AuthEnabled:   cast.ToBool(getEnv("AUTH_ENABLED", "false")),
		JWTSecret:     getEnv("JWT_SECRET", "supersecret"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "")),
		LogFile:       getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogStdout:     cast.ToBool(getEnv("LOG_STDOUT", "true")),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) time.Duration {
	d, err := cast.ToDurationE(getEnv(key, defaultValue.String()))
	if err != nil || d <= 0 {
		logrus.WithField("key", key).Warn("invalid duration, using default")
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
