package model

import "time"

// ConvergenceReport is the batch-level rollup over a window of signatures.
// Plain structured data: any downstream renderer (Markdown, CSV, dashboard)
// can consume it without depending on the engine's internals.
type ConvergenceReport struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`

	WindowStart string `json:"window_start,omitempty"`
	WindowEnd   string `json:"window_end,omitempty"`

	SignatureCount int `json:"signature_count"`
	SkippedCount   int `json:"skipped_count,omitempty"` // items with no usable evidence or failed lookups

	Categories []CategoryConvergence `json:"categories"`
	Outliers   []Outlier             `json:"outliers"`
	Resonant   []ResonantItem        `json:"resonant"`
	Scripture  []ScriptureRecurrence `json:"scripture,omitempty"`
}

// CategoryConvergence totals one category across the window.
type CategoryConvergence struct {
	Category     string  `json:"category"`
	TotalCount   int     `json:"total_count"`
	TotalDensity float64 `json:"total_density"`
	MeanDensity  float64 `json:"mean_density"`
	Sermons      int     `json:"sermons"` // sermons with at least one match
}

// Outlier is a signature whose drift classification is strong or anomaly.
type Outlier struct {
	TranscriptID string     `json:"transcript_id"`
	Title        string     `json:"title,omitempty"`
	ChannelID    string     `json:"channel_id,omitempty"`
	Level        DriftLevel `json:"level"`
	MaxAbsZ      float64    `json:"max_abs_z"`
	DrivingAxis  string     `json:"driving_axis,omitempty"`
}

// ResonantItem is the signature with the single highest density for one
// category: the sermon most worth re-reading for that theme.
type ResonantItem struct {
	Category     string     `json:"category"`
	TranscriptID string     `json:"transcript_id"`
	Title        string     `json:"title,omitempty"`
	Density      float64    `json:"density"`
	Evidence     []Evidence `json:"evidence,omitempty"`
	EvidenceNote string     `json:"evidence_note,omitempty"` // "no usable evidence" when lookup failed or empty
}

// ScriptureRecurrence counts how often a book recurs across the window.
type ScriptureRecurrence struct {
	Book    string `json:"book"`
	Total   int    `json:"total"`
	Sermons int    `json:"sermons"`
}

// Hooks are per-signature conversation starters derived from axis scores and
// drift: the dominant emphasis, visible imbalances, and reflection questions.
type Hooks struct {
	DominantAxis      string    `json:"dominant_axis,omitempty"`
	DominantDirection string    `json:"dominant_direction,omitempty"`
	DominantStrength  float64   `json:"dominant_strength"`
	Tensions          []Tension `json:"tensions"`
	Questions         []string  `json:"questions"`
}

// Tension flags one imbalance or drift worth a human look.
type Tension struct {
	Type       string  `json:"type"` // "imbalance" or "drift"
	Axis       string  `json:"axis"`
	Favored    string  `json:"favored,omitempty"`
	Disfavored string  `json:"disfavored,omitempty"`
	AxisScore  float64 `json:"axis_score,omitempty"`
	Z          float64 `json:"z,omitempty"`
	Note       string  `json:"note,omitempty"`
}
