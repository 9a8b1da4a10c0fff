package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.JWT.AccessTokenTTL() != 60*time.Minute {
		t.Fatalf("unexpected access token ttl %v", cfg.JWT.AccessTokenTTL())
	}

	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without a url")
	}

	if cfg.Journal.Enabled() {
		t.Fatalf("journal should be disabled without a dsn")
	}

	if cfg.Push.SendQueueSize != 32 {
		t.Fatalf("unexpected default send queue size %d", cfg.Push.SendQueueSize)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvJWTSecret); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvJWTSecret, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvJWTSecret, "secret")
	t.Setenv(EnvJWTExpMins, "60")
	t.Setenv(EnvAdminPassword, "hunter2")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvJournalDSN, "")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEVELOPMENT"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "production"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
