package config

import (
	"testing"
	"time"
)

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("PUBLIC_GROUPS_TTL", "")
	t.Setenv("DB_SSLMODE", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.PublicGroupsTTL != 30*time.Second {
		t.Errorf("PublicGroupsTTL = %v", cfg.PublicGroupsTTL)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("SSLMode = %q", cfg.Database.SSLMode)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PUBLIC_GROUPS_TTL", "2m")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Redis.DB)
	}
	if cfg.PublicGroupsTTL != 2*time.Minute {
		t.Errorf("PublicGroupsTTL = %v, want 2m", cfg.PublicGroupsTTL)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("PUBLIC_GROUPS_TTL", "soon")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("Redis.DB = %d, want 0", cfg.Redis.DB)
	}
	if cfg.PublicGroupsTTL != 30*time.Second {
		t.Errorf("PublicGroupsTTL = %v, want default", cfg.PublicGroupsTTL)
	}
}

func TestFromEnvS3(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("S3_ENDPOINT", "localhost:9000")
	t.Setenv("S3_BUCKET", "icons")
	t.Setenv("S3_ACCESS_KEY", "")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.S3.Enabled() {
		t.Error("S3 enabled without an access key")
	}
	if !cfg.S3.UseSSL {
		t.Error("UseSSL = false, want true")
	}

	t.Setenv("S3_ACCESS_KEY", "minio")
	cfg, err = FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !cfg.S3.Enabled() {
		t.Error("S3 not enabled with every field set")
	}

	t.Setenv("S3_USE_SSL", "sometimes")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for invalid S3_USE_SSL")
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "grex", Password: "pw", Name: "grex", Port: "5432", SSLMode: "disable"}
	want := "host=db user=grex password=pw dbname=grex port=5432 sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
