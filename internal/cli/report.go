package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <text>",
	Short: "Render a formatted context report for a query",
	Long: `Run a semantic query and render the grouped, formatted context report
(file sections with relevance, dependencies, skeleton, and snippets) that
an agent would read in place of the raw files.

Examples:
  sgctl report "how are users created"`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	e, err := openEngine(GetProjectRoot())
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer e.Close()

	report, err := e.ContextReport(context.Background(), args[0])
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return JSON(map[string]string{"report": report})
	}
	fmt.Print(report)
	return nil
}
