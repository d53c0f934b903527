package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/logger"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	AppEnv         string
	AppPort        string
	JWTSecret      string
	AllowedOrigins []string

	StorageDriver string
	MongoURI      string
	MongoDB       string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimit  int
	AuthRateWindow time.Duration
	APIRateLimit   int
	APIRateWindow  time.Duration

	LogLevel  string
	LogFormat string
}

// Production reports whether cookies must be Secure and SameSite=None.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// Load reads .env (if any) and the environment. Exits on invalid config.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// Parse builds a Config from getenv.
func Parse(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppEnv:        withDefault(getenv("APP_ENV"), "development"),
		AppPort:       withDefault(getenv("APP_PORT"), "4000"),
		JWTSecret:     getenv("JWT_SECRET"),
		StorageDriver: withDefault(getenv("STORAGE_DRIVER"), DriverMongo),
		MongoURI:      getenv("MONGO_URI"),
		MongoDB:       withDefault(getenv("MONGO_DB"), "trullo"),
		DatabaseURL:   getenv("DATABASE_URL"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       positiveInt(getenv("REDIS_DB"), 0),
		LogLevel:      withDefault(getenv("LOG_LEVEL"), "info"),
		LogFormat:     withDefault(getenv("LOG_FORMAT"), "text"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	switch cfg.StorageDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is not set")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// allowed origins, comma separated
	cfg.AllowedOrigins = []string{"http://localhost:3000"}
	if v := getenv("FRONTEND_URL"); v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	cfg.AuthRateLimit = positiveInt(getenv("AUTH_RATE_LIMIT"), 10)
	cfg.AuthRateWindow = time.Duration(positiveInt(getenv("AUTH_RATE_WINDOW_SECONDS"), 60)) * time.Second
	cfg.APIRateLimit = positiveInt(getenv("API_RATE_LIMIT"), 120)
	cfg.APIRateWindow = time.Duration(positiveInt(getenv("API_RATE_WINDOW_SECONDS"), 60)) * time.Second

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
