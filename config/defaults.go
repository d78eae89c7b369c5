package config

import "strings"

const (
	defaultHost          = "127.0.0.1"
	defaultPort          = "8000"
	defaultServerShell   = "cmd"
	defaultPublicDir     = "public"
	defaultProbeSchedule = "@every 5m"
	probeDisabled        = "off"
	defaultClientAddr    = "127.0.0.1:8000"
	defaultClientShell   = "sh"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          defaultHost,
			Port:          defaultPort,
			Shell:         defaultServerShell,
			PublicDir:     defaultPublicDir,
			ProbeSchedule: defaultProbeSchedule,
		},
		Client: ClientConfig{
			Addr:  defaultClientAddr,
			Shell: defaultClientShell,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Stdout:  true,
		File:    "logs/webshell.log",
	}
}

func (c *Config) applyDefaults() {
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}
	if strings.TrimSpace(c.Server.Shell) == "" {
		c.Server.Shell = defaultServerShell
	}
	if c.Server.PublicDir == "" {
		c.Server.PublicDir = defaultPublicDir
	}
	if strings.TrimSpace(c.Server.ProbeSchedule) == "" {
		c.Server.ProbeSchedule = defaultProbeSchedule
	}
	if c.Server.ExecTimeout < 0 {
		c.Server.ExecTimeout = 0
	}

	if strings.TrimSpace(c.Client.Addr) == "" {
		c.Client.Addr = defaultClientAddr
	}
	if strings.TrimSpace(c.Client.Shell) == "" {
		c.Client.Shell = defaultClientShell
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}

// ProbeEnabled reports whether the shell availability probe is scheduled.
func (c *Config) ProbeEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Server.ProbeSchedule), probeDisabled)
}
