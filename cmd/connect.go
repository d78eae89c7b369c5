package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/linanwx/webshell/channel"
	"github.com/linanwx/webshell/config"
	"github.com/linanwx/webshell/logger"
	"github.com/linanwx/webshell/terminal"
)

const dialTimeout = 15 * time.Second

var connectCmd = &cobra.Command{
	Use:     "connect [addr]",
	Short:   "Open a terminal session on a bridge",
	GroupID: "client",
	Long: `Connect to a bridge and open an interactive terminal.

The address may be host[:port] or an http(s)/ws(s) URL; secure schemes
connect with wss. Type a command and press Enter to run it, Up to recall
the last command, "clear" to wipe the screen, Ctrl+C to quit.

When stdin is not a terminal, each input line is run as a command.

Examples:
  webshell connect                        # uses client.addr from config
  webshell connect 10.0.0.5:8000 --shell nu
  echo uptime | webshell connect https://box.example.com`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{ownsLogger: "true"},
	RunE:        runConnect,
}

var connectShell string

func init() {
	connectCmd.Flags().StringVar(&connectShell, "shell", "", "Shell to request from the bridge (default client.shell)")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Console output belongs to the session; keep logs in the file.
	lc := cfg.BuildLoggerConfig()
	lc.Stdout = false
	dir, _ := config.ConfigDir()
	initLogger(lc, dir)

	addr := cfg.Client.Addr
	if len(args) == 1 {
		addr = args[0]
	}
	shellName := cfg.Client.Shell
	if connectShell != "" {
		shellName = connectShell
	}
	url, err := terminal.EndpointURL(addr, shellName)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, dialTimeout)
	sock, err := channel.DialSocket(dialCtx, url)
	dialCancel()
	if err != nil {
		return err
	}
	defer sock.Close()

	ch := channel.NewCLIChannel(sock)
	if err := ch.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s channel: %w", ch.Name(), err)
	}

	select {
	case <-ch.Done():
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}
	if err := ch.Stop(); err != nil {
		logger.Error("error stopping channel", "err", err)
	}

	if err := sock.Err(); err != nil {
		return fmt.Errorf("connection lost: %w", err)
	}
	return nil
}
