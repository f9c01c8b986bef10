package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/digitalpulpit/pulpit/internal/model"
	"github.com/digitalpulpit/pulpit/internal/pipeline"
)

var (
	analyzeJSON    string
	analyzeTimeout time.Duration
	llmEnabled     bool
	llmModel       string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript-id>",
	Short: "Score one stored transcript and classify its drift",
	Long: `Analyze scores a single ingested transcript:
- Count lexicon categories and score the bipolar emphasis axes
- Extract verbatim receipts from the full text
- Compare axis scores against the channel's trailing baseline
- Persist the signature and receipts atomically

Re-analyzing a transcript overwrites its previous signature and receipts.

Example:
  pulpit analyze 2026-08-23-sunday-service
  pulpit analyze 2026-08-23-sunday-service --json signature.json
  pulpit analyze 2026-08-23-sunday-service --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "write the full analysis as JSON to this path")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable summary-first analysis via the configured LLM")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	id := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyLLMFlags(cfg)

	analyzer, st, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	result, err := analyzer.AnalyzeTranscript(ctx, id)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	renderer := pipeline.NewRenderer(verbose)
	if analyzeJSON != "" && !result.Skipped {
		if err := renderer.RenderJSON(result, analyzeJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	renderer.RenderAnalysis(result)
	return nil
}

// applyLLMFlags folds the shared --llm flags into the configuration.
func applyLLMFlags(cfg *model.Config) {
	if llmEnabled {
		if cfg.LLM.Provider == "" {
			cfg.LLM.Provider = "openai"
		}
		if cfg.LLM.APIKey == "" {
			fmt.Fprintln(os.Stderr, "Warning: OPENAI_API_KEY not set, summary-first analysis will fail open to full text")
		}
	} else {
		cfg.LLM.Provider = ""
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
}
