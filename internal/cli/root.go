// Package cli implements structgraph's command-line surface. Every
// subcommand is thin: it loads the project config, opens an
// internal/engine.Engine rooted at the current (or --project) directory,
// calls exactly one Engine method, and formats the result. No business
// logic lives here.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version, BuildCommit, and BuildDate are set at build time via ldflags
	// from cmd/sgctl/main.go.
	Version     = "0.1.0"
	BuildCommit = "unknown"
	BuildDate   = "unknown"

	jsonOutput  bool
	projectRoot string
)

var rootCmd = &cobra.Command{
	Use:   "sgctl",
	Short: "structgraph - a structural code-knowledge engine for AI agents",
	Long: `structgraph indexes a TypeScript-style, decorator-and-DI codebase into
chunks, dependency edges, and embeddings, then answers semantic queries
with formatted context reports so an agent can read less and act faster.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project", "p", "", "Project root directory (default: current directory)")
	cobra.OnInitialize(initProjectRoot)
}

func initProjectRoot() {
	if projectRoot == "" {
		var err error
		projectRoot, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get current directory: %v\n", err)
			os.Exit(1)
		}
	}
}

// GetProjectRoot returns the resolved project root directory.
func GetProjectRoot() string {
	return projectRoot
}

// IsJSONOutput reports whether --json was passed.
func IsJSONOutput() bool {
	return jsonOutput
}
