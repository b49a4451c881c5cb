package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the vikunja-mcp application
var rootCmd = &cobra.Command{
	Use:   "vikunja-mcp",
	Short: "MCP server for Vikunja task management",
	Long: `vikunja-mcp is a Model Context Protocol (MCP) server that gives AI
assistants access to one or more Vikunja instances: projects, tasks,
labels, kanban boards, cross-instance queries, and exchange queues for
handing tasks between agent sessions.

It can run as:
  - An MCP server over stdio (default, for local AI assistants)
  - An MCP server over streamable HTTP (for deployed instances)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "vikunja-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
