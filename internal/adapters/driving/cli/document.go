package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List your indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocuments,
}

var removeCmd = &cobra.Command{
	Use:   "remove [document-id]",
	Short: "Remove a document from your index",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and conversation sizes",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(statsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	docs, err := agentService.ListDocuments(cmd.Context(), flagUser)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for _, id := range docs {
		cmd.Printf("  %s\n", id)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	removed, err := agentService.RemoveDocument(cmd.Context(), flagUser, args[0])
	if err != nil {
		return fmt.Errorf("remove document: %w", err)
	}

	if removed == 0 {
		cmd.Printf("No chunks found for %s\n", args[0])
		return nil
	}
	cmd.Printf("Removed %s (%d chunks)\n", args[0], removed)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	stats, err := agentService.Stats(cmd.Context(), flagUser)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	cmd.Printf("Documents: %d\n", stats.DocumentsIndexed)
	cmd.Printf("Chunks:    %d\n", stats.ChunksIndexed)
	cmd.Printf("History:   %d\n", stats.HistoryLength)
	return nil
}
