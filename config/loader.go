package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the full path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads config.yaml, fills in defaults and applies environment
// overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// Save writes the config to ConfigPath.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WorkDirPath returns the bridge work directory, defaulting to cwd.
func (c *Config) WorkDirPath() (string, error) {
	if dir := strings.TrimSpace(c.Server.WorkDir); dir != "" {
		return filepath.Abs(dir)
	}
	return os.Getwd()
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("HOST")); v != "" {
		c.Server.Host = v
	}
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		c.Server.Port = v
	}
	if v := strings.TrimSpace(getenv("WORK_DIR")); v != "" {
		c.Server.WorkDir = v
	}
	if v := strings.TrimSpace(getenv("WEBSHELL_ADDR")); v != "" {
		c.Client.Addr = v
	}
}
