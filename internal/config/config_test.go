package config

import (
	"testing"
	"time"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(env(map[string]string{
		"JWT_SECRET": "s",
		"MONGO_URI":  "mongodb://localhost:27017",
	}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.AppPort != "4000" || cfg.StorageDriver != DriverMongo || cfg.MongoDB != "trullo" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Production() {
		t.Fatalf("default env should not be production")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.AuthRateLimit != 10 || cfg.AuthRateWindow != time.Minute {
		t.Fatalf("auth limits = %d/%s", cfg.AuthRateLimit, cfg.AuthRateWindow)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(env(map[string]string{
		"APP_ENV":                  "production",
		"JWT_SECRET":               "s",
		"STORAGE_DRIVER":           "postgres",
		"DATABASE_URL":             "postgres://localhost/tasks",
		"FRONTEND_URL":             " https://a.example , https://b.example,",
		"AUTH_RATE_LIMIT":          "3",
		"AUTH_RATE_WINDOW_SECONDS": "10",
		"REDIS_DB":                 "bogus",
	}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cfg.Production() {
		t.Fatalf("expected production")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.AuthRateLimit != 3 || cfg.AuthRateWindow != 10*time.Second {
		t.Fatalf("auth limits = %d/%s", cfg.AuthRateLimit, cfg.AuthRateWindow)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("redis db = %d", cfg.RedisDB)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"no secret":      {"MONGO_URI": "mongodb://x"},
		"no mongo uri":   {"JWT_SECRET": "s"},
		"no pg url":      {"JWT_SECRET": "s", "STORAGE_DRIVER": "postgres"},
		"unknown driver": {"JWT_SECRET": "s", "STORAGE_DRIVER": "sqlite"},
	}
	if _, err := Parse(env(map[string]string{"JWT_SECRET": "s", "STORAGE_DRIVER": "memory"})); err != nil {
		t.Fatalf("memory driver: %v", err)
	}
	for name, m := range cases {
		if _, err := Parse(env(m)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
