package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linanwx/webshell/client"
	"github.com/linanwx/webshell/server"
	"github.com/linanwx/webshell/shell"
)

var shellsCmd = &cobra.Command{
	Use:     "shells",
	Short:   "List the shells a bridge can run",
	GroupID: "client",
	Long: `List the shells a bridge reports as available.

With --local, probe the shells installed on this machine instead and
print the first line of each version banner.`,
	RunE: runShells,
}

var (
	shellsAddr  string
	shellsLocal bool
)

func init() {
	shellsCmd.Flags().StringVar(&shellsAddr, "addr", "", "Bridge address (default client.addr)")
	shellsCmd.Flags().BoolVar(&shellsLocal, "local", false, "Probe local shells instead of asking a bridge")
	rootCmd.AddCommand(shellsCmd)
}

func runShells(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if shellsLocal {
		shells := make([]shell.Shell, 0, len(shell.Names()))
		for _, name := range shell.Names() {
			shells = append(shells, shell.Lookup(name))
		}
		p := server.NewProber("", shells)
		p.Probe(ctx)
		versions := p.Versions()

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SHELL\tVERSION")
		for _, name := range p.Available() {
			version, _, _ := strings.Cut(versions[name], "\n")
			fmt.Fprintf(w, "%s\t%s\n", name, strings.TrimSpace(version))
		}
		return w.Flush()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Client.Addr
	if shellsAddr != "" {
		addr = shellsAddr
	}
	c, err := client.New(addr)
	if err != nil {
		return err
	}
	names, err := c.Shells(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
