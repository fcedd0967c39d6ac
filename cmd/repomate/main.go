// Package main provides the entry point for the repomate CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/repomate/cmd/repomate/commands"
	"github.com/Sumatoshi-tech/repomate/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "repomate",
		Short: "Repomate - version control tools for AI coding agents",
		Long: `Repomate exposes common git operations as MCP tools and CLI commands.

Commands:
  mcp       Start the MCP stdio server
  status    Show repository working tree status
  log       Show commit history
  branches  List local branches`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(commands.NewStatusCommand())
	rootCmd.AddCommand(commands.NewLogCommand())
	rootCmd.AddCommand(commands.NewBranchesCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "repomate %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
