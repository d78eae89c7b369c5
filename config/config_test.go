package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	for _, key := range []string{"HOST", "PORT", "WORK_DIR", "WEBSHELL_ADDR"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.ListenAddr(); got != "127.0.0.1:8000" {
		t.Fatalf("ListenAddr() = %q, want %q", got, "127.0.0.1:8000")
	}
	if cfg.Server.Shell != "cmd" || cfg.Client.Shell != "sh" {
		t.Fatalf("shells = %q/%q, want cmd/sh", cfg.Server.Shell, cfg.Client.Shell)
	}
	if !cfg.ProbeEnabled() {
		t.Fatal("ProbeEnabled() = false, want true by default")
	}
	lc := cfg.BuildLoggerConfig()
	if !lc.Enabled || lc.Level != "info" || lc.File != "logs/webshell.log" {
		t.Fatalf("BuildLoggerConfig() = %+v, want enabled info logs/webshell.log", lc)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := useTempConfigDir(t)

	cfg := DefaultConfig()
	cfg.Server.Port = "9001"
	cfg.Server.ProbeSchedule = "off"
	cfg.Client.Addr = "https://shell.example.com"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file should exist: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Server.Port != "9001" {
		t.Fatalf("Server.Port = %q, want %q", got.Server.Port, "9001")
	}
	if got.ProbeEnabled() {
		t.Fatal("ProbeEnabled() = true, want false for \"off\"")
	}
	if got.Client.Addr != "https://shell.example.com" {
		t.Fatalf("Client.Addr = %q", got.Client.Addr)
	}
}

func TestLoadFillsPartialFileAndAppliesEnv(t *testing.T) {
	dir := useTempConfigDir(t)
	data := []byte("server:\n  shell: sh\nlogging:\n  level: debug\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7000")
	t.Setenv("WORK_DIR", "/srv/shell")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Shell != "sh" {
		t.Fatalf("Server.Shell = %q, want sh", cfg.Server.Shell)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "7000" {
		t.Fatalf("listen = %s, want 127.0.0.1:7000", cfg.ListenAddr())
	}
	if cfg.Server.WorkDir != "/srv/shell" {
		t.Fatalf("Server.WorkDir = %q, want /srv/shell", cfg.Server.WorkDir)
	}
	if cfg.Server.ProbeSchedule != "@every 5m" {
		t.Fatalf("Server.ProbeSchedule = %q, want default", cfg.Server.ProbeSchedule)
	}
	lc := cfg.BuildLoggerConfig()
	if !lc.Enabled || lc.Level != "debug" {
		t.Fatalf("BuildLoggerConfig() = %+v, want enabled debug", lc)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}
