package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/services"
)

var (
	searchLimit   int
	searchMinSim  float64
	searchPreview int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search your indexed chunks",
	Long: `Ranks your indexed chunks against the query by embedding similarity,
falling back to keyword matching when no embedding provider is available.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", services.DefaultTopK, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinSim, "min-similarity", services.DefaultMinSimilarity, "minimum similarity score")
	searchCmd.Flags().IntVar(&searchPreview, "preview", 120, "preview length per result")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	results, err := agentService.Search(cmd.Context(), flagUser, args[0], domain.SearchOptions{
		TopK:          searchLimit,
		MinSimilarity: searchMinSim,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, r := range results {
		preview := r.ChunkText
		if searchPreview > 0 && len(preview) > searchPreview {
			preview = preview[:searchPreview] + "..."
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Meta.DocumentID, r.Similarity)
		cmd.Printf("      %s\n", preview)
	}
	return nil
}
