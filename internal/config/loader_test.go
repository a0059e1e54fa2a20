package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path mismatch: got %s want %s", resolved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config should be written: %v", err)
	}

	want := Default()
	if cfg.Addr != want.Addr || cfg.HistoryLimit != want.HistoryLimit || cfg.ThreadsBaseURL != want.ThreadsBaseURL {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":9999\"\nhistory_limit: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("addr not read from file: %s", cfg.Addr)
	}
	if cfg.HistoryLimit != 10 {
		t.Fatalf("history_limit not read from file: %d", cfg.HistoryLimit)
	}
	// Untouched keys keep their defaults.
	if cfg.MaxMessageLen != Default().MaxMessageLen {
		t.Fatalf("unexpected max_message_len: %d", cfg.MaxMessageLen)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9999\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GPCHAT_ADDR", ":7777")
	t.Setenv("GPCHAT_LOG_LEVEL", "debug")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7777" {
		t.Fatalf("env should win over file: %s", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("env log level not applied: %s", cfg.LogLevel)
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{
		Addr:            ":7070",
		DatabasePath:    "other.db",
		ThreadsCacheTTL: time.Minute,
	})

	if cfg.Addr != ":7070" || cfg.DatabasePath != "other.db" || cfg.ThreadsCacheTTL != time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.HistoryLimit != Default().HistoryLimit {
		t.Fatalf("zero override must not clobber defaults: %d", cfg.HistoryLimit)
	}
}
