package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitalpulpit/pulpit/internal/ingest"
	"github.com/digitalpulpit/pulpit/internal/store"
)

var (
	ingestChannel   string
	ingestTitle     string
	ingestPublished string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-dir>",
	Short: "Import transcript files into the corpus",
	Long: `Ingest imports sermon transcripts (.txt, .md, .html) into the corpus
database. HTML files are reduced to their visible text. Transcript IDs are
derived from file names, so re-ingesting a file refreshes its text.

Example:
  pulpit ingest sermons/2026-08-23.txt --channel gracechurch --published 2026-08-23
  pulpit ingest sermons/ --channel gracechurch`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestChannel, "channel", "", "channel ID grouping transcripts into one baseline series (required)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "transcript title (single-file only, defaults to file name)")
	ingestCmd.Flags().StringVar(&ingestPublished, "published", "", "publication date, ISO 8601 (single-file only)")
	_ = ingestCmd.MarkFlagRequired("channel")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	loader := ingest.NewLoader(st)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		res, err := loader.LoadFile(ctx, path, ingestChannel, ingestTitle, ingestPublished)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		fmt.Printf("✓ %s (%d words)\n", res.TranscriptID, res.WordCount)
		return nil
	}

	results, err := loader.LoadDir(ctx, path, ingestChannel)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	okCount := 0
	for _, res := range results {
		if res.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, res.Error)
			continue
		}
		okCount++
		if verbose {
			fmt.Printf("✓ %s (%d words)\n", res.TranscriptID, res.WordCount)
		}
	}
	fmt.Printf("Imported %d/%d transcripts into %s\n", okCount, len(results), cfg.Store.Path)
	return nil
}
