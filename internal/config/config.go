// Package config loads the craftctl profile: which panel to talk to and
// how. Credentials are deliberately not part of it — the password comes
// from a flag or the CRAFTCTL_PASSWORD environment variable on every run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigName  = "config.toml"
	defaultPollSeconds = 5
)

// Config is the on-disk profile at ~/.config/craftctl/config.toml.
type Config struct {
	ServerURL   string `toml:"server_url"`
	Username    string `toml:"username"`
	InsecureTLS bool   `toml:"insecure_tls"`
	PollSeconds int    `toml:"poll_seconds"`
}

// PollInterval converts the configured cadence, falling back to the 5s
// default for zero or negative values.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// DefaultPath returns the profile location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "craftctl", defaultConfigName), nil
}

// Load reads the profile at path ("" uses DefaultPath). A missing file
// yields defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{PollSeconds: defaultPollSeconds}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.Username = strings.TrimSpace(cfg.Username)
	if cfg.PollSeconds <= 0 {
		cfg.PollSeconds = defaultPollSeconds
	}
	return cfg, nil
}

// Save writes the profile, creating the directory as needed.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	return DefaultPath()
}
