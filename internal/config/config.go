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
	ServerPort int

	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	ESURL      string
	ESUser     string
	ESPassword string

	KafkaBrokers []string

	AllowedOrigins []string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment variables")
	}

	cfg := &Config{
		ServerPort:     envIntDefault("SERVER_PORT", 8080),
		DatabaseURL:    must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		JWTSecret:      []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		TokenTTL:       envDurationDefault("TOKEN_TTL", 30*24*time.Hour),
		ESURL:          os.Getenv("ES_URL"),
		ESUser:         os.Getenv("ES_USER"),
		ESPassword:     os.Getenv("ES_PASSWORD"),
		KafkaBrokers:   csv(os.Getenv("KAFKA_BROKERS")),
		AllowedOrigins: csv(envDefault("ALLOWED_ORIGINS", "*")),
		LogLevel:       envDefault("LOG_LEVEL", "info"),
	}
	return cfg
}

func must(v, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
