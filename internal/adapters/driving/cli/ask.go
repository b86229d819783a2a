package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// confidenceFooterThreshold is the confidence above which the footer is
// shown. Low-confidence numbers add noise without helping the user.
const confidenceFooterThreshold = 60

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your indexed documents",
	Long: `Retrieves the chunks most relevant to the question and synthesises
an answer from them, citing the source documents. With no relevant chunks a
fixed "not found" message is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	answer, err := agentService.AnswerQuestion(cmd.Context(), flagUser, args[0])
	if err != nil {
		return fmt.Errorf("answer question: %w", err)
	}

	cmd.Println(answer.Answer)

	if len(answer.SourceDocumentIDs) > 0 {
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(answer.SourceDocumentIDs, ", "))
	}
	if answer.Confidence > confidenceFooterThreshold {
		cmd.Printf("Confidence: %d%%\n", answer.Confidence)
	}
	return nil
}
