package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Semantically search the indexed codebase",
	Long: `Embed the query text and return the top-scoring chunks ranked by cosine
similarity against every chunk in the store.

Examples:
  sgctl query "user creation service"
  sgctl query "auth middleware" --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "Maximum results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	e, err := openEngine(GetProjectRoot())
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer e.Close()

	hits, err := e.Query(context.Background(), args[0], queryLimit)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return JSON(hits)
	}

	if len(hits) == 0 {
		Info("No results found for: %s", args[0])
		return nil
	}

	for i, h := range hits {
		label := h.Chunk.Metadata.MethodName
		if label == "" {
			label = h.Chunk.Metadata.ClassName
		}
		fmt.Printf("#%d [%.3f] %s — %s\n", i+1, h.Score, h.Chunk.FilePath, label)
	}
	return nil
}
