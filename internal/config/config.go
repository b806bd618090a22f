package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port           string `yaml:"port"`
	DatabaseDriver string `yaml:"database_driver"`
	DatabaseURL    string `yaml:"database_url"`
	MinimumAge     int    `yaml:"minimum_age"`
	LogLevel       string `yaml:"log_level"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

// Load reads .env (if present), then environment variables, then the optional
// YAML file at path (or APP_CONFIG when path is empty). Later sources win.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	minimumAge, err := strconv.Atoi(getEnv("EMPLOYEE_MIN_AGE", "20"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid EMPLOYEE_MIN_AGE: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	cfg := Config{
		Port:           getEnv("APP_PORT", "8080"),
		DatabaseDriver: getEnv("DB_DRIVER", DriverPostgres),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MinimumAge:     minimumAge,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AutoMigrate:    autoMigrate,
	}

	if path == "" {
		path = os.Getenv("APP_CONFIG")
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file: %w", err)
		}
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required")
	}
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.MinimumAge < 0 {
		return fmt.Errorf("minimum age must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
