package model

import (
	"sort"
	"time"
)

// Transcript is one sermon's text as delivered by the ingestion subsystem.
type Transcript struct {
	ID          string `json:"id"`
	ChannelID   string `json:"channel_id,omitempty"`
	Title       string `json:"title,omitempty"`
	PublishedAt string `json:"published_at,omitempty"` // RFC 3339 or date string, sortable
	FullText    string `json:"full_text"`
	SummaryText string `json:"summary_text,omitempty"` // clean summary, if generated
	WordCount   int    `json:"word_count"`
}

// AnalysisSource records which text a signature was scored against.
type AnalysisSource string

const (
	SourceFullText AnalysisSource = "full_text"
	SourceSummary  AnalysisSource = "summary_text"
)

// Signature is the fixed-shape scored output for one transcript.
// Every category and axis configured in the lexicon appears, zeros included.
// Signatures are immutable once created; re-scoring replaces, never mutates.
type Signature struct {
	TranscriptID   string `json:"transcript_id"`
	ChannelID      string `json:"channel_id,omitempty"`
	Title          string `json:"title,omitempty"`
	PublishedAt    string `json:"published_at,omitempty"`
	LexiconVersion string `json:"lexicon_version"`

	CategoryCounts  map[string]int     `json:"category_counts"`
	CategoryDensity map[string]float64 `json:"category_density"` // per 1000 words
	AxisScores      map[string]float64 `json:"axis_scores"`      // each in [-1, 1]
	Density         float64            `json:"theological_density"`

	ScriptureRefs map[string]int `json:"scripture_refs,omitempty"`
	ToneTags      []string       `json:"tone_tags,omitempty"`

	AnalysisSource    AnalysisSource `json:"analysis_source"`
	AnalysisWordCount int            `json:"analysis_word_count"`
	WordCount         int            `json:"word_count"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// TopCategories returns the n category names with the highest non-zero
// density, ties broken by name so output is deterministic.
func (s *Signature) TopCategories(n int) []string {
	type kv struct {
		name string
		val  float64
	}
	ranked := make([]kv, 0, len(s.CategoryDensity))
	for name, val := range s.CategoryDensity {
		if val <= 0 {
			continue
		}
		ranked = append(ranked, kv{name, val})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].val != ranked[j].val {
			return ranked[i].val > ranked[j].val
		}
		return ranked[i].name < ranked[j].name
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.name)
	}
	return out
}

// Baseline holds rolling statistics for one axis over a trailing window of
// prior signatures. It is recomputed from the window on demand, never
// persisted as an accumulator.
type Baseline struct {
	Axis   string  `json:"axis"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"` // sample standard deviation
	N      int     `json:"n"`
}

// Sufficient reports whether the baseline carries enough signal to produce
// a z-score. Insufficient baselines classify as insufficient_history, which
// is a distinct state from stable.
func (b Baseline) Sufficient(minSamples int, epsilon float64) bool {
	return b.N >= minSamples && b.StdDev > epsilon
}

// DriftLevel is the discrete verdict on how far a signature deviates from
// its baseline.
type DriftLevel string

const (
	DriftInsufficient DriftLevel = "insufficient_history"
	DriftStable       DriftLevel = "stable"
	DriftModerate     DriftLevel = "moderate"
	DriftStrong       DriftLevel = "strong"
	DriftAnomaly      DriftLevel = "anomaly"
)

// Severity orders drift levels so the aggregate verdict can take a maximum.
// insufficient_history ranks below stable: it says "no signal", not "signal
// confirms no drift".
func (d DriftLevel) Severity() int {
	switch d {
	case DriftStable:
		return 1
	case DriftModerate:
		return 2
	case DriftStrong:
		return 3
	case DriftAnomaly:
		return 4
	default:
		return 0
	}
}

// MaxDriftLevel returns the more severe of two levels.
func MaxDriftLevel(a, b DriftLevel) DriftLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// DriftClassification is the per-signature drift verdict. Derived on demand
// from a signature and its baseline window; not an independent source of truth.
type DriftClassification struct {
	TranscriptID string                `json:"transcript_id"`
	Level        DriftLevel            `json:"level"`
	AxisLevels   map[string]DriftLevel `json:"axis_levels"`
	AxisZ        map[string]float64    `json:"axis_z,omitempty"` // only axes with sufficient baselines
	Baselines    map[string]Baseline   `json:"baselines,omitempty"`
	MaxAbsZ      float64               `json:"max_abs_z"`
}
