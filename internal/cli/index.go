package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var indexSourceDir string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the project source tree",
	Long: `Scan the project's source tree, chunk every file, extract dependency
edges, and embed the result into the local store.

A second run re-indexes only files whose content hash has changed.

Examples:
  sgctl index
  sgctl index --source src/app`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexSourceDir, "source", "", "Source directory to index (default: config source_dir, or \"src\")")
}

func runIndex(cmd *cobra.Command, args []string) error {
	e, err := openEngine(GetProjectRoot())
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer e.Close()

	ctx := context.Background()
	if err := e.IndexProject(ctx, indexSourceDir); err != nil {
		return err
	}

	if IsJSONOutput() {
		return JSON(map[string]string{"status": "ok"})
	}
	Success("indexed project at %s", GetProjectRoot())
	return nil
}
