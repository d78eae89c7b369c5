package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/linanwx/webshell/config"
	"github.com/linanwx/webshell/logger"
	"github.com/linanwx/webshell/server"
	"github.com/linanwx/webshell/shell"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the shell bridge",
	GroupID: "server",
	Long: `Start the shell bridge.

Routes:
  GET  /shells          available shells as a JSON array
  GET  /socket[/shell]  websocket; one command per text frame, "exit" hangs up
  POST /execute         body is the command, response is its output
  GET  /logs/...        files under <workdir>/logs
  GET  /...             files under the public directory

HOST, PORT and WORK_DIR override the config file.

Examples:
  webshell serve
  webshell serve --port 9000 --shell sh --workdir /srv/box`,
	Annotations: map[string]string{ownsLogger: "true"},
	RunE:        runServe,
}

var (
	serveHost    string
	servePort    string
	serveWorkDir string
	serveShell   string
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (default server.port)")
	serveCmd.Flags().StringVar(&serveWorkDir, "workdir", "", "Directory commands run in (default cwd)")
	serveCmd.Flags().StringVar(&serveShell, "shell", "", "Default shell: "+strings.Join(shell.Names(), ", "))
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cfg)

	workDir, err := cfg.WorkDirPath()
	if err != nil {
		return fmt.Errorf("failed to resolve work directory: %w", err)
	}
	// Logs live under the work directory so /logs/ can serve them.
	initLogger(cfg.BuildLoggerConfig(), workDir)
	if !shell.Known(cfg.Server.Shell) {
		logger.Warn("unknown shell, falling back", "shell", cfg.Server.Shell, "fallback", shell.Cmd.Name)
	}

	probeSchedule := ""
	if cfg.ProbeEnabled() {
		probeSchedule = cfg.Server.ProbeSchedule
	}
	srv := server.New(server.Config{
		Addr:          cfg.ListenAddr(),
		WorkDir:       workDir,
		Shell:         cfg.Server.Shell,
		PublicDir:     cfg.Server.PublicDir,
		ProbeSchedule: probeSchedule,
		ExecTimeout:   time.Duration(cfg.Server.ExecTimeout) * time.Second,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("webshell bridge listening on %s. Press Ctrl+C to stop.\n", cfg.ListenAddr())
	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("webshell bridge stopped")
	return nil
}

func applyServeFlags(cfg *config.Config) {
	if v := strings.TrimSpace(serveHost); v != "" {
		cfg.Server.Host = v
	}
	if v := strings.TrimSpace(servePort); v != "" {
		cfg.Server.Port = v
	}
	if v := strings.TrimSpace(serveWorkDir); v != "" {
		cfg.Server.WorkDir = v
	}
	if v := strings.TrimSpace(serveShell); v != "" {
		cfg.Server.Shell = v
	}
}
