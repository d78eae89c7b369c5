package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linanwx/webshell/client"
)

var execCmd = &cobra.Command{
	Use:     "exec <command...>",
	Short:   "Run one command on a bridge and print its output",
	GroupID: "client",
	Long: `Run one command through the bridge's /execute route with its default shell.

Examples:
  webshell exec ls -la
  webshell exec --addr https://box.example.com "df -h"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

var execAddr string

func init() {
	execCmd.Flags().StringVar(&execAddr, "addr", "", "Bridge address (default client.addr)")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Client.Addr
	if execAddr != "" {
		addr = execAddr
	}

	c, err := client.New(addr)
	if err != nil {
		return err
	}
	out, err := c.Execute(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
