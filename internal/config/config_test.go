package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsAreValid(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("RATE_LOOKUP_TIMEOUT", "")
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Rates.Timeout != 10*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=localhost dbname=invoices")
	t.Setenv("RATE_LOOKUP_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "2")

	cfg := Load()
	if cfg.Database.Driver != "postgres" || cfg.Rates.Timeout != 3*time.Second || cfg.Redis.DB != 2 {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"bad lookup url", func(c *Config) { c.Rates.LookupURL = "not a url" }},
		{"zero timeout", func(c *Config) { c.Rates.Timeout = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestInitDBUnsupportedDriver(t *testing.T) {
	if _, err := InitDB(DatabaseConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestNewRedisClientDisabled(t *testing.T) {
	rdb, err := NewRedisClient(t.Context(), RedisConfig{})
	if rdb != nil || err != nil {
		t.Fatalf("expected nil client without an address, got %v, %v", rdb, err)
	}
}
