// Package aggregate rolls many classified signatures up into a convergence
// report: which categories dominate a window, which sermons drifted, and
// which single sermons carry a theme hardest.
package aggregate

import (
	"sort"
	"time"

	"github.com/digitalpulpit/pulpit/internal/model"
	"github.com/google/uuid"
)

// Input pairs a signature with its drift classification.
type Input struct {
	Signature      model.Signature
	Classification model.DriftClassification
}

// EvidenceLookup fetches stored receipts for a transcript. A failing lookup
// degrades that one item to "no usable evidence"; it never aborts the batch.
type EvidenceLookup func(transcriptID string) ([]model.Evidence, error)

// Aggregator builds convergence reports.
type Aggregator struct{}

// NewAggregator creates a new aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate summarizes a window of signatures. Output ordering is fully
// deterministic: descending totals with category/transcript name tie-breaks.
func (a *Aggregator) Aggregate(items []Input, lookup EvidenceLookup) *model.ConvergenceReport {
	report := &model.ConvergenceReport{
		ReportID:       uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		SignatureCount: len(items),
		Categories:     []model.CategoryConvergence{},
		Outliers:       []model.Outlier{},
		Resonant:       []model.ResonantItem{},
	}
	if len(items) == 0 {
		return report
	}

	report.WindowStart, report.WindowEnd = window(items)
	report.Categories = convergence(items)
	report.Outliers = outliers(items)
	report.Resonant, report.SkippedCount = resonant(items, lookup)
	report.Scripture = scripture(items)

	return report
}

func window(items []Input) (start, end string) {
	for i := range items {
		p := items[i].Signature.PublishedAt
		if p == "" {
			continue
		}
		if start == "" || p < start {
			start = p
		}
		if end == "" || p > end {
			end = p
		}
	}
	return start, end
}

// convergence totals every category across the window, sorted descending by
// total count with a name tie-break.
func convergence(items []Input) []model.CategoryConvergence {
	byCat := make(map[string]*model.CategoryConvergence)
	for i := range items {
		sig := &items[i].Signature
		for cat, count := range sig.CategoryCounts {
			c := byCat[cat]
			if c == nil {
				c = &model.CategoryConvergence{Category: cat}
				byCat[cat] = c
			}
			c.TotalCount += count
			c.TotalDensity += sig.CategoryDensity[cat]
			if count > 0 {
				c.Sermons++
			}
		}
	}

	out := make([]model.CategoryConvergence, 0, len(byCat))
	for _, c := range byCat {
		c.MeanDensity = c.TotalDensity / float64(len(items))
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCount != out[j].TotalCount {
			return out[i].TotalCount > out[j].TotalCount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// outliers selects signatures classified strong or anomaly, sorted by drift
// magnitude descending.
func outliers(items []Input) []model.Outlier {
	var out []model.Outlier
	for i := range items {
		cls := &items[i].Classification
		if cls.Level != model.DriftStrong && cls.Level != model.DriftAnomaly {
			continue
		}
		out = append(out, model.Outlier{
			TranscriptID: items[i].Signature.TranscriptID,
			Title:        items[i].Signature.Title,
			ChannelID:    items[i].Signature.ChannelID,
			Level:        cls.Level,
			MaxAbsZ:      cls.MaxAbsZ,
			DrivingAxis:  drivingAxis(cls),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MaxAbsZ != out[j].MaxAbsZ {
			return out[i].MaxAbsZ > out[j].MaxAbsZ
		}
		return out[i].TranscriptID < out[j].TranscriptID
	})
	if out == nil {
		out = []model.Outlier{}
	}
	return out
}

func drivingAxis(cls *model.DriftClassification) string {
	axes := make([]string, 0, len(cls.AxisZ))
	for axis := range cls.AxisZ {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	best := ""
	bestAbs := 0.0
	for _, axis := range axes {
		z := cls.AxisZ[axis]
		if z < 0 {
			z = -z
		}
		if z > bestAbs {
			best, bestAbs = axis, z
		}
	}
	return best
}

// resonant picks, per category, the signature with the single highest
// density, but only when that category also dominates the signature's own
// profile. A sermon that merely mentions a theme is not resonant for it.
func resonant(items []Input, lookup EvidenceLookup) ([]model.ResonantItem, int) {
	cats := categoryNames(items)

	var out []model.ResonantItem
	skipped := 0
	for _, cat := range cats {
		best := -1
		bestDensity := 0.0
		for i := range items {
			d := items[i].Signature.CategoryDensity[cat]
			if d > bestDensity {
				best, bestDensity = i, d
			} else if d == bestDensity && best >= 0 && d > 0 &&
				items[i].Signature.TranscriptID < items[best].Signature.TranscriptID {
				best = i
			}
		}
		if best < 0 || bestDensity == 0 {
			continue
		}
		sig := &items[best].Signature
		top := sig.TopCategories(1)
		if len(top) == 0 || top[0] != cat {
			continue
		}

		item := model.ResonantItem{
			Category:     cat,
			TranscriptID: sig.TranscriptID,
			Title:        sig.Title,
			Density:      bestDensity,
		}
		if lookup != nil {
			ev, err := lookup(sig.TranscriptID)
			if err != nil || len(ev) == 0 {
				item.EvidenceNote = "no usable evidence"
				skipped++
			} else {
				item.Evidence = filterCategory(ev, cat)
				if len(item.Evidence) == 0 {
					item.EvidenceNote = "no usable evidence"
					skipped++
				}
			}
		}
		out = append(out, item)
	}
	if out == nil {
		out = []model.ResonantItem{}
	}
	return out, skipped
}

func categoryNames(items []Input) []string {
	seen := make(map[string]bool)
	var cats []string
	for i := range items {
		for cat := range items[i].Signature.CategoryCounts {
			if !seen[cat] {
				seen[cat] = true
				cats = append(cats, cat)
			}
		}
	}
	sort.Strings(cats)
	return cats
}

func filterCategory(ev []model.Evidence, cat string) []model.Evidence {
	var out []model.Evidence
	for _, e := range ev {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

func scripture(items []Input) []model.ScriptureRecurrence {
	byBook := make(map[string]*model.ScriptureRecurrence)
	for i := range items {
		for book, n := range items[i].Signature.ScriptureRefs {
			r := byBook[book]
			if r == nil {
				r = &model.ScriptureRecurrence{Book: book}
				byBook[book] = r
			}
			r.Total += n
			r.Sermons++
		}
	}
	out := make([]model.ScriptureRecurrence, 0, len(byBook))
	for _, r := range byBook {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Book < out[j].Book
	})
	return out
}
