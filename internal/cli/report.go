package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/digitalpulpit/pulpit/internal/aggregate"
	"github.com/digitalpulpit/pulpit/internal/drift"
	"github.com/digitalpulpit/pulpit/internal/model"
	"github.com/digitalpulpit/pulpit/internal/pipeline"
	"github.com/digitalpulpit/pulpit/internal/store"
)

var (
	reportSince string
	reportLimit int
	reportJSON  string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a convergence report over stored signatures",
	Long: `Report aggregates already-analyzed signatures into a corpus view:
- Which categories dominate the window
- Which sermons drifted hardest from their channel baseline
- Which single sermon carries each theme the hardest, with receipts
- Which scripture books recur

Example:
  pulpit report
  pulpit report --since 2026-06-01 --json report.json`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportSince, "since", "", "only include signatures published at or after this date (ISO 8601)")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "maximum signatures to include (0 = no limit)")
	reportCmd.Flags().StringVar(&reportJSON, "json", "", "write the report as JSON to this path")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	sigs, err := st.ListSignatures(ctx, reportSince, reportLimit)
	if err != nil {
		return fmt.Errorf("list signatures: %w", err)
	}
	if len(sigs) == 0 {
		fmt.Println("No signatures in window. Run 'pulpit batch' first.")
		return nil
	}

	detector := drift.NewDetector(cfg.Drift)
	items := make([]aggregate.Input, 0, len(sigs))
	for i := range sigs {
		sig := sigs[i]
		history, err := st.History(ctx, sig.ChannelID, sig.TranscriptID, cfg.Drift.BaselineWindow)
		if err != nil {
			return fmt.Errorf("load history for %s: %w", sig.TranscriptID, err)
		}
		axes := make([]string, 0, len(sig.AxisScores))
		for axis := range sig.AxisScores {
			axes = append(axes, axis)
		}
		baselines := drift.ComputeBaselines(history, axes)
		items = append(items, aggregate.Input{
			Signature:      sig,
			Classification: detector.Classify(&sig, baselines),
		})
	}

	report := aggregate.NewAggregator().Aggregate(items, func(id string) ([]model.Evidence, error) {
		return st.Evidence(ctx, id)
	})

	renderer := pipeline.NewRenderer(verbose)
	if reportJSON != "" {
		if err := renderer.RenderJSON(report, reportJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	renderer.RenderReport(report)
	return nil
}
