package config

import (
	"os"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "ETL_INTERVAL_HOURS", "DATA_DIR", "ROUTE_FILTER", "DB_DSN", "REDIS_URL"} {
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.ETL.IntervalHours != 24 {
		t.Errorf("ETL.IntervalHours = %d, want 24", cfg.ETL.IntervalHours)
	}
	if cfg.ETL.RouteFilter != "CR-Fitchburg" {
		t.Errorf("ETL.RouteFilter = %q, want CR-Fitchburg", cfg.ETL.RouteFilter)
	}
	if cfg.MBTA.BaseURL != "https://api-v3.mbta.com" {
		t.Errorf("MBTA.BaseURL = %q, want the public endpoint", cfg.MBTA.BaseURL)
	}
	if cfg.DB.DSN != "" {
		t.Errorf("DB.DSN = %q, want empty (mirror disabled by default)", cfg.DB.DSN)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	os.Setenv("SERVER_PORT", "9000")
	os.Setenv("ROUTE_FILTER", "CR-Lowell")
	defer os.Unsetenv("SERVER_PORT")
	defer os.Unsetenv("ROUTE_FILTER")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.ETL.RouteFilter != "CR-Lowell" {
		t.Errorf("ETL.RouteFilter = %q, want CR-Lowell", cfg.ETL.RouteFilter)
	}
}

func TestLoadConfigInvalidInt(t *testing.T) {
	os.Setenv("ETL_INTERVAL_HOURS", "daily")
	defer os.Unsetenv("ETL_INTERVAL_HOURS")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for non-numeric ETL_INTERVAL_HOURS")
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("TEST_CONFIG_VAR")
	if got := getEnv("TEST_CONFIG_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %q, want %q", got, "default")
	}

	os.Setenv("TEST_CONFIG_VAR", "custom")
	defer os.Unsetenv("TEST_CONFIG_VAR")
	if got := getEnv("TEST_CONFIG_VAR", "default"); got != "custom" {
		t.Errorf("getEnv() = %q, want %q", got, "custom")
	}
}
