package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var summarizeSentences int

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Produce an extractive summary of a text file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().IntVarP(&summarizeSentences, "sentences", "n", 3, "number of sentences in the summary")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	summary := agentService.Summarize(string(data), summarizeSentences)
	if summary == "" {
		cmd.Println("Nothing to summarize.")
		return nil
	}
	cmd.Println(summary)
	return nil
}
