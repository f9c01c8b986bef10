package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/digitalpulpit/pulpit/internal/model"
)

// Renderer writes analysis output as JSON files and stdout summaries.
type Renderer struct {
	verbose bool
}

// NewRenderer creates a new renderer.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderJSON writes any value as indented JSON to path, creating parent
// directories as needed.
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	if r.verbose {
		fmt.Printf("✓ Wrote %s\n", path)
	}
	return nil
}

// RenderAnalysis prints a human-readable summary of one analysis to stdout.
func (r *Renderer) RenderAnalysis(res *AnalysisResult) {
	if res.Skipped {
		fmt.Printf("Skipped: %s\n", res.SkipReason)
		return
	}
	sig := res.Signature

	fmt.Println()
	fmt.Printf("%s  (%s)\n", sig.Title, sig.TranscriptID)
	fmt.Printf("  channel: %s  published: %s\n", sig.ChannelID, sig.PublishedAt)
	fmt.Printf("  scored text: %s (%d words)  lexicon: %s\n",
		sig.AnalysisSource, sig.AnalysisWordCount, sig.LexiconVersion)

	if top := sig.TopCategories(3); len(top) > 0 {
		fmt.Println("  top categories:")
		for _, cat := range top {
			fmt.Printf("    %-24s %5d hits  %6.2f /1000 words\n",
				cat, sig.CategoryCounts[cat], sig.CategoryDensity[cat])
		}
	}

	axes := make([]string, 0, len(sig.AxisScores))
	for axis := range sig.AxisScores {
		axes = append(axes, axis)
	}
	sort.Strings(axes)
	if len(axes) > 0 {
		fmt.Println("  axes:")
		for _, axis := range axes {
			line := fmt.Sprintf("    %-24s %+.2f", axis, sig.AxisScores[axis])
			if level, ok := res.Classification.AxisLevels[axis]; ok {
				if z, ok := res.Classification.AxisZ[axis]; ok {
					line += fmt.Sprintf("  z=%+.2f (%s)", z, level)
				} else {
					line += fmt.Sprintf("  (%s)", level)
				}
			}
			fmt.Println(line)
		}
	}

	fmt.Printf("  drift: %s", res.Classification.Level)
	if res.Classification.MaxAbsZ > 0 {
		fmt.Printf("  max |z|=%.2f", res.Classification.MaxAbsZ)
	}
	fmt.Println()

	if len(sig.ToneTags) > 0 {
		fmt.Printf("  tone: %v\n", sig.ToneTags)
	}
	if len(res.Evidence) > 0 {
		fmt.Printf("  receipts: %d\n", len(res.Evidence))
	}
	for _, t := range res.Hooks.Tensions {
		switch t.Type {
		case "imbalance":
			fmt.Printf("  tension: %s leans %s (%+.2f)\n", t.Axis, t.Favored, t.AxisScore)
		case "drift":
			fmt.Printf("  tension: %s drifted z=%+.2f\n", t.Axis, t.Z)
		}
	}
}

// RenderReport prints a human-readable convergence report to stdout.
func (r *Renderer) RenderReport(report *model.ConvergenceReport) {
	fmt.Println()
	fmt.Printf("Convergence report %s\n", report.ReportID)
	fmt.Printf("  window: %s … %s  signatures: %d\n",
		report.WindowStart, report.WindowEnd, report.SignatureCount)

	if len(report.Categories) > 0 {
		fmt.Println("  dominant categories:")
		limit := len(report.Categories)
		if limit > 8 {
			limit = 8
		}
		for _, c := range report.Categories[:limit] {
			fmt.Printf("    %-24s %5d hits across %d sermons  mean %6.2f /1000\n",
				c.Category, c.TotalCount, c.Sermons, c.MeanDensity)
		}
	}

	if len(report.Outliers) > 0 {
		fmt.Println("  outliers:")
		for _, o := range report.Outliers {
			fmt.Printf("    %-40s %s |z|=%.2f axis=%s\n",
				o.Title, o.Level, o.MaxAbsZ, o.DrivingAxis)
		}
	}

	if len(report.Resonant) > 0 {
		fmt.Println("  resonant sermons:")
		for _, item := range report.Resonant {
			note := ""
			if item.EvidenceNote != "" {
				note = "  (" + item.EvidenceNote + ")"
			}
			fmt.Printf("    %-24s %s  %6.2f /1000%s\n",
				item.Category, item.Title, item.Density, note)
		}
	}

	if len(report.Scripture) > 0 {
		fmt.Println("  scripture recurrence:")
		limit := len(report.Scripture)
		if limit > 8 {
			limit = 8
		}
		for _, s := range report.Scripture[:limit] {
			fmt.Printf("    %-24s %4d refs across %d sermons\n", s.Book, s.Total, s.Sermons)
		}
	}

	if report.SkippedCount > 0 {
		fmt.Printf("  items without usable evidence: %d\n", report.SkippedCount)
	}
}
