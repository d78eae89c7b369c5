// Package config handles configuration loading and saving.
package config

import (
	"net"
	"strings"

	"github.com/linanwx/webshell/logger"
)

const (
	configFileName = "config.yaml"
	configDirName  = ".webshell"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Client  ClientConfig  `json:"client" yaml:"client"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ServerConfig configures the shell bridge.
type ServerConfig struct {
	Host          string `json:"host" yaml:"host"`                                       // env HOST
	Port          string `json:"port" yaml:"port"`                                       // env PORT
	WorkDir       string `json:"workDir,omitempty" yaml:"workDir,omitempty"`             // env WORK_DIR, defaults to cwd
	Shell         string `json:"shell" yaml:"shell"`                                     // cmd, sh, nu
	PublicDir     string `json:"publicDir,omitempty" yaml:"publicDir,omitempty"`         // static fallback
	ProbeSchedule string `json:"probeSchedule,omitempty" yaml:"probeSchedule,omitempty"` // cron spec, "off" disables
	ExecTimeout   int    `json:"execTimeout,omitempty" yaml:"execTimeout,omitempty"`     // seconds, 0 = none
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	Addr  string `json:"addr" yaml:"addr"` // env WEBSHELL_ADDR
	Shell string `json:"shell" yaml:"shell"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}

// ListenAddr joins the server host and port.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
