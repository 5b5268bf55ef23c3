package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every setting the stages, the API server and the CLI need.
type Config struct {
	Database DatabaseConfig
	Files    FilesConfig
	Rates    RatesConfig
	Server   ServerConfig
	Redis    RedisConfig
	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`
}

type DatabaseConfig struct {
	Driver string `validate:"oneof=sqlite postgres"`
	DSN    string `validate:"required"`
}

type FilesConfig struct {
	InputText  string `validate:"required"`
	MasterFile string `validate:"required"`
	RateCache  string `validate:"required"`
}

type RatesConfig struct {
	LookupURL string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
}

type ServerConfig struct {
	Addr       string `validate:"required"`
	CORSOrigin string
}

// RedisConfig is optional; an empty Addr keeps the cache on disk and the stage lock in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheKey string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", "data/outputs/invoices.db"),
		},
		Files: FilesConfig{
			InputText:  getEnv("INPUT_TEXT_PATH", "data/outputs/extracted_content.txt"),
			MasterFile: getEnv("MASTER_FILE_PATH", "data/outputs/master_file.xlsx"),
			RateCache:  getEnv("RATE_CACHE_PATH", "data/local_cache/hsn_gst_map.json"),
		},
		Rates: RatesConfig{
			LookupURL: getEnv("RATE_LOOKUP_URL", "https://vakilsearch.com/hsn-code/search"),
			Timeout:   getEnvAsDuration("RATE_LOOKUP_TIMEOUT", 10*time.Second),
		},
		Server: ServerConfig{
			Addr:       getEnv("HTTP_ADDR", ":8080"),
			CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheKey: getEnv("REDIS_RATE_CACHE_KEY", "hsn_gst_map"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the struct tags above.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
