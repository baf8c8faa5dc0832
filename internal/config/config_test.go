package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "" || cfg.Username != "" || cfg.InsecureTLS {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Fatalf("PollInterval = %v, want 5s", cfg.PollInterval())
	}
}

func TestLoad_ParsesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
server_url = " https://panel.example.com:8443 "
username = "admin"
insecure_tls = true
poll_seconds = 10
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://panel.example.com:8443" {
		t.Errorf("ServerURL = %q (whitespace should be trimmed)", cfg.ServerURL)
	}
	if cfg.Username != "admin" || !cfg.InsecureTLS {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PollInterval() != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", cfg.PollInterval())
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("server_url = [broken"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{
		ServerURL:   "https://panel.example.com/",
		Username:    "ops",
		InsecureTLS: true,
		PollSeconds: 7,
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
