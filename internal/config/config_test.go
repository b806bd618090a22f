package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hr")
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("EMPLOYEE_MIN_AGE", "")
	t.Setenv("APP_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseDriver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %s", cfg.DatabaseDriver)
	}
	if cfg.MinimumAge != 20 {
		t.Fatalf("expected minimum age 20, got %d", cfg.MinimumAge)
	}
	if !cfg.AutoMigrate {
		t.Fatalf("expected auto migrate enabled by default")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_CONFIG", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoadRejectsInvalidMinimumAge(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hr")
	t.Setenv("EMPLOYEE_MIN_AGE", "twenty")
	t.Setenv("APP_CONFIG", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-integer EMPLOYEE_MIN_AGE")
	}
}

func TestLoadYAMLOverridesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hr")
	t.Setenv("EMPLOYEE_MIN_AGE", "")
	t.Setenv("APP_CONFIG", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9090\"\ndatabase_driver: SQLite\ndatabase_url: \"file:hr.db\"\nminimum_age: 21\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" || cfg.DatabaseDriver != DriverSQLite || cfg.DatabaseURL != "file:hr.db" || cfg.MinimumAge != 21 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hr")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("APP_CONFIG", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
