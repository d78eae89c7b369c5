// Package cmd implements the webshell command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/webshell/config"
	"github.com/linanwx/webshell/logger"
)

// ownsLogger marks commands that initialise the logger themselves, so
// setup leaves it alone.
const ownsLogger = "owns-logger"

var (
	configDirFlag string
	loadedConfig  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "webshell",
	Short: "Run shell commands on a remote bridge over a websocket",
	Long: `webshell pairs a small shell bridge with a terminal client.

The bridge runs each command it receives with a local shell and answers
with the command's output. The client shows that output and forwards
whatever is typed at the prompt when Enter is pressed.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.webshell)")
	rootCmd.AddGroup(
		&cobra.Group{ID: "client", Title: "Client Commands:"},
		&cobra.Group{ID: "server", Title: "Server Commands:"},
	)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	config.SetConfigDir(configDirFlag)
	loadedConfig = nil
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Annotations[ownsLogger] != "" {
		return nil
	}
	dir, _ := config.ConfigDir()
	initLogger(cfg.BuildLoggerConfig(), dir)
	return nil
}

// loadConfig returns the config setup loaded, reading it on first use.
func loadConfig() (*config.Config, error) {
	if loadedConfig != nil {
		return loadedConfig, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	loadedConfig = cfg
	return cfg, nil
}

func initLogger(cfg logger.Config, baseDir string) {
	if err := logger.Init(cfg, baseDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
}
