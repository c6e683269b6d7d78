package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig
	ETL    ETLConfig
	MBTA   MBTAConfig
	DB     DatabaseConfig
	Redis  RedisConfig
	JWT    JWTConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Port int
}

type ETLConfig struct {
	DataDir       string
	RouteFilter   string
	IntervalHours int
	MetricsAddr   string
}

type MBTAConfig struct {
	BaseURL string
	APIKey  string
}

type DatabaseConfig struct {
	// DSN enables the Postgres mirror when non-empty.
	DSN string
}

type RedisConfig struct {
	// URL enables the Redis cache and live feed when non-empty.
	URL string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type CORSConfig struct {
	AllowedOrigins string
}

func LoadConfig() (*Config, error) {
	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	intervalHours, err := getIntEnv("ETL_INTERVAL_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid ETL_INTERVAL_HOURS: %w", err)
	}

	jwtExpiry, err := getIntEnv("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: serverPort,
		},
		ETL: ETLConfig{
			DataDir:       getEnv("DATA_DIR", "data"),
			RouteFilter:   getEnv("ROUTE_FILTER", "CR-Fitchburg"),
			IntervalHours: intervalHours,
			MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		},
		MBTA: MBTAConfig{
			BaseURL: getEnv("MBTA_BASE_URL", "https://api-v3.mbta.com"),
			APIKey:  getEnv("MBTA_API_KEY", ""),
		},
		DB: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
			ExpiryHours: jwtExpiry,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
