package cmd

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/webshell/config"
	"github.com/linanwx/webshell/shell"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create the webshell configuration file",
	Long:  `Walk through the bridge and client settings and write config.yaml.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	cfg := config.DefaultConfig()
	var configureServer bool

	// Step 1: client
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bridge address").
				Description("host:port or URL the client connects to. https:// uses a secure socket.").
				Validate(requireNonEmpty("address")).
				Value(&cfg.Client.Addr),
			huh.NewSelect[string]().
				Title("Shell to request").
				Options(shellOptions()...).
				Value(&cfg.Client.Shell),
			huh.NewConfirm().
				Title("Configure the bridge on this machine too?").
				Description("You can skip and configure later in config.yaml.").
				Value(&configureServer),
		),
	).Run()
	if err != nil {
		return err
	}

	// Step 2: optional bridge
	if configureServer {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Listen host").
					Validate(requireNonEmpty("host")).
					Value(&cfg.Server.Host),
				huh.NewInput().
					Title("Listen port").
					Validate(validatePort).
					Value(&cfg.Server.Port),
				huh.NewInput().
					Title("Work directory").
					Description("Commands run here. Leave empty to use the directory serve starts in.").
					Value(&cfg.Server.WorkDir),
				huh.NewSelect[string]().
					Title("Default shell").
					Options(shellOptions()...).
					Value(&cfg.Server.Shell),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	cfg.Client.Addr = strings.TrimSpace(cfg.Client.Addr)
	cfg.Server.WorkDir = strings.TrimSpace(cfg.Server.WorkDir)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("webshell configured successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Bridge:", cfg.Client.Addr)
	if configureServer {
		fmt.Println("  Listen:", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port))
	}
	fmt.Println()
	fmt.Println("Run 'webshell serve' on the bridge host and 'webshell connect' to start a session.")
	return nil
}

func shellOptions() []huh.Option[string] {
	names := shell.Names()
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		sh := shell.Lookup(name)
		options = append(options, huh.NewOption(name+" ("+sh.Program+" "+sh.Argument+")", name))
	}
	return options
}

func requireNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}
