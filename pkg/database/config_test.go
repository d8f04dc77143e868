package database_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/philatopia/pkg/database"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &database.Config{Name: "philatopia", User: "philatopia"}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want 5432", cfg.Port)
	}
	if cfg.MaxOpenConns != 25 || cfg.MaxIdleConns != 5 {
		t.Errorf("pool = %d/%d, want 25/5", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("SSLMode = %q, want disable", cfg.SSLMode)
	}
	if cfg.AutoMigrate {
		t.Error("AutoMigrate = true, want false by default")
	}
}

func TestConfig_Finalize_Env(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "6543")
	t.Setenv("TEST_DB_NAME", "stamps")
	t.Setenv("TEST_DB_USER", "collector")
	t.Setenv("TEST_DB_AUTO_MIGRATE", "true")

	cfg := &database.Config{}
	env := &database.Env{
		Host:        "TEST_DB_HOST",
		Port:        "TEST_DB_PORT",
		Name:        "TEST_DB_NAME",
		User:        "TEST_DB_USER",
		AutoMigrate: "TEST_DB_AUTO_MIGRATE",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Host != "db.internal" || cfg.Port != 6543 {
		t.Errorf("addr = %s:%d, want db.internal:6543", cfg.Host, cfg.Port)
	}
	if cfg.Name != "stamps" || cfg.User != "collector" {
		t.Errorf("name/user = %s/%s, want stamps/collector", cfg.Name, cfg.User)
	}
	if !cfg.AutoMigrate {
		t.Error("AutoMigrate = false, want true from env")
	}
}

func TestConfig_Finalize_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
		want string
	}{
		{"missing name", database.Config{User: "u"}, "name required"},
		{"missing user", database.Config{Name: "n"}, "user required"},
		{"bad lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "forever"}, "conn_max_lifetime"},
		{"bad timeout", database.Config{Name: "n", User: "u", ConnTimeout: "soon"}, "conn_timeout"},
		{"bad ssl mode", database.Config{Name: "n", User: "u", SSLMode: "sometimes"}, "ssl_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Finalize(nil)
			if err == nil {
				t.Fatal("Finalize() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &database.Config{Host: "localhost", Port: 5432, Name: "base"}
	base.Merge(&database.Config{Host: "prod-db", AutoMigrate: true})

	if base.Host != "prod-db" {
		t.Errorf("Host = %q, want prod-db", base.Host)
	}
	if base.Name != "base" {
		t.Errorf("Name = %q, want base (unchanged)", base.Name)
	}
	if !base.AutoMigrate {
		t.Error("AutoMigrate = false, want true")
	}
}

func TestConfig_Dsn(t *testing.T) {
	cfg := &database.Config{Name: "philatopia", User: "app", Password: "secret"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	want := "host=localhost port=5432 dbname=philatopia user=app password=secret sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}

func TestErrNotReady(t *testing.T) {
	if database.ErrNotReady.Error() != "database not ready" {
		t.Errorf("ErrNotReady = %q", database.ErrNotReady)
	}
}
