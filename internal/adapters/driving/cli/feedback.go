package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

var (
	feedbackQuery       string
	feedbackContentType string
	feedbackNotRelevant bool
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [document-id]",
	Short: "Record whether a retrieved document was relevant",
	Long: `Records a relevance judgment for a document that came back from a
search or answer. Judgments are batched and folded into learning insights
that bias future retrieval towards content types you found useful.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVarP(&feedbackQuery, "query", "q", "", "the query the document was retrieved for (required)")
	feedbackCmd.Flags().StringVar(&feedbackContentType, "type", "", "the document's content type")
	feedbackCmd.Flags().BoolVar(&feedbackNotRelevant, "not-relevant", false, "mark the document as not relevant")
	_ = feedbackCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	judgment := domain.JudgmentRelevant
	if feedbackNotRelevant {
		judgment = domain.JudgmentNotRelevant
	}

	id, err := feedbackService.Record(cmd.Context(), domain.FeedbackEvent{
		Query:       feedbackQuery,
		DocumentID:  args[0],
		ContentType: feedbackContentType,
		Judgment:    judgment,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}

	cmd.Printf("Recorded feedback %s\n", id)
	return nil
}
