package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fetchit-ai/fetchit/internal/adapters/driven/docsource"
	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

var (
	indexDir  string
	indexType string
)

var indexCmd = &cobra.Command{
	Use:   "index [file...]",
	Short: "Index documents into your personal store",
	Long: `Chunks, embeds and indexes documents so they can be searched and
used to answer questions. Pass one or more files, or --dir to index a whole
directory tree.

Indexing the same document ID twice duplicates its chunks; remove it first
to replace it.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexDir, "dir", "", "index every file under a directory")
	indexCmd.Flags().StringVar(&indexType, "type", "", "content type tag (default: file extension)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if agentService == nil {
		return errors.New("agent service not configured")
	}
	if indexDir == "" && len(args) == 0 {
		return errors.New("nothing to index: pass files or --dir")
	}

	ctx := cmd.Context()

	if indexDir != "" {
		source := docsource.NewFilesystem(indexDir)
		indexed, err := agentService.IndexAll(ctx, flagUser, source)
		if err != nil {
			if indexed > 0 {
				cmd.Printf("Indexed %d documents from %s (some failed: %v)\n", indexed, indexDir, err)
				return nil
			}
			return fmt.Errorf("index directory: %w", err)
		}
		cmd.Printf("Indexed %d documents from %s\n", indexed, indexDir)
		return nil
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		contentType := indexType
		if contentType == "" {
			contentType = docsource.ContentType(path)
		}

		chunks, err := agentService.IndexDocument(ctx, flagUser, domain.SourceDocument{
			DocumentID:  filepath.Base(path),
			ContentType: contentType,
			Text:        string(data),
		})
		if err != nil {
			return fmt.Errorf("index %s: %w", path, err)
		}
		cmd.Printf("Indexed %s (%d chunks)\n", filepath.Base(path), chunks)
	}
	return nil
}
