package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/structgraph/structgraph/internal/models"
)

var depsInbound bool

var depsCmd = &cobra.Command{
	Use:   "deps <path>",
	Short: "List the dependency edges touching a file",
	Long: `Show a file's outbound imports (what it depends on) or, with --inbound,
its inbound dependents (what depends on it).

Examples:
  sgctl deps src/users/users.service.ts
  sgctl deps src/users/users.repository.ts --inbound`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
	depsCmd.Flags().BoolVar(&depsInbound, "inbound", false, "Show inbound dependents instead of outbound imports")
}

func runDeps(cmd *cobra.Command, args []string) error {
	e, err := openEngine(GetProjectRoot())
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer e.Close()

	direction := models.DirectionOutbound
	if depsInbound {
		direction = models.DirectionInbound
	}

	refs, err := e.DependenciesOf(context.Background(), args[0], direction)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return JSON(refs)
	}

	if len(refs) == 0 {
		Info("No dependencies found for: %s", args[0])
		return nil
	}
	for _, r := range refs {
		fmt.Printf("%s  (%s)\n", r.Other, r.Relation)
	}
	return nil
}
