package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/digitalpulpit/pulpit/internal/pipeline"
	"github.com/digitalpulpit/pulpit/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	recompute    bool
	batchLimit   int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [transcript-id...]",
	Short: "Analyze many stored transcripts in parallel",
	Long: `Batch analyzes stored transcripts concurrently:
- With no arguments, every transcript without a signature is analyzed
- With --recompute, already-scored transcripts are re-analyzed too
- Each result is persisted atomically and written as a JSON file

Example:
  pulpit batch
  pulpit batch --recompute --concurrency 8
  pulpit batch 2026-08-16-service 2026-08-23-service`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for analysis JSON (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&recompute, "recompute", false, "re-analyze transcripts that already have a signature")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "maximum transcripts to analyze (0 = no limit)")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable summary-first analysis via the configured LLM")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyLLMFlags(cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	analyzer, st, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	transcripts, err := st.ListTranscripts(ctx, batchLimit, recompute, args)
	if err != nil {
		return fmt.Errorf("list transcripts: %w", err)
	}
	if len(transcripts) == 0 {
		fmt.Println("Nothing to analyze.")
		return nil
	}

	ids := make([]string, len(transcripts))
	for i := range transcripts {
		ids[i] = transcripts[i].ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing %d transcripts with %d workers...\n\n", len(ids), cfg.Concurrency.Workers)

	processor := worker.NewBatchProcessor(analyzer, cfg.Concurrency.Workers)
	results := processor.ProcessTranscripts(ctx, ids)

	renderer := pipeline.NewRenderer(verbose)
	successCount := 0
	skippedCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.TranscriptID, result.Error)
			continue
		}
		if result.Analysis.Skipped {
			skippedCount++
			fmt.Fprintf(os.Stderr, "- %s: %s\n", result.TranscriptID, result.Analysis.SkipReason)
			continue
		}
		successCount++

		jsonPath := filepath.Join(outputDir, result.TranscriptID+".json")
		if err := renderer.RenderJSON(result.Analysis, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.TranscriptID, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (drift: %s)\n", result.TranscriptID, result.Analysis.Classification.Level)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d transcripts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Analyzed:  %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Skipped:   %d\n", skippedCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)

	return nil
}
