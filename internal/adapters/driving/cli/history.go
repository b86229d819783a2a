package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your recent questions and answers",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear your conversation history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	records := agentService.ConversationHistory(flagUser)
	if len(records) == 0 {
		cmd.Println("No conversation history.")
		return nil
	}

	for _, r := range records {
		cmd.Printf("[%s] Q: %s\n", r.Timestamp.Format("2006-01-02 15:04"), r.Question)
		cmd.Printf("         A: %s\n", r.Answer)
		if len(r.SourceDocumentIDs) > 0 {
			cmd.Printf("            Sources: %s\n", strings.Join(r.SourceDocumentIDs, ", "))
		}
		cmd.Println()
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	agentService.ClearConversationHistory(flagUser)
	cmd.Println("Conversation history cleared.")
	return nil
}
