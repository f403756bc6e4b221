package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	Debug       bool
	LogLevel    string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	SecretKey     []byte
	SessionSecure bool
	SessionTTLH   int
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MaxUpload string

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// LoadConfig reads .env when present and falls back to the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "loja_grid"),
		ServerPort:  EnvIntDefault("PORT", 5000),
		Debug:       os.Getenv("DEBUG") == "1",
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:   EnvDefault("DB_DRIVER", "mysql"),
		DBHost:     EnvDefault("DB_HOST", "127.0.0.1"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     EnvDefault("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASS"),
		DBName:     EnvDefault("DB_NAME", "loja_grid"),
		DBPath:     EnvDefault("DB_PATH", "loja_grid.db"),

		SecretKey:     []byte(EnvDefault("SECRET_KEY", "dev-secret")),
		SessionSecure: os.Getenv("SESSION_SECURE") == "1",
		SessionTTLH:   EnvIntDefault("SESSION_TTL_HOURS", 24*30),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		MaxUpload: EnvDefault("MAX_UPLOAD", "8M"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "catalog_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "produtos"),
	}
}

func CSV(v string) []string {
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

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
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
