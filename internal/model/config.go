package model

import "time"

// Config is the complete application configuration.
// Hierarchy (highest to lowest priority): CLI flags, PULPIT_* environment
// variables, config file (~/.pulpit/config.yaml), defaults below.
type Config struct {
	LexiconPath string `yaml:"lexicon_path" json:"lexicon_path"`

	Scoring     ScoringConfig     `yaml:"scoring" json:"scoring"`
	Drift       DriftConfig       `yaml:"drift" json:"drift"`
	Evidence    EvidenceConfig    `yaml:"evidence" json:"evidence"`
	Store       StoreConfig       `yaml:"store" json:"store"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// ScoringConfig tunes the scorer. The numeric defaults were calibrated
// empirically against a sermon corpus; they are starting points, not mandates.
type ScoringConfig struct {
	// InertiaK dampens sparse-text saturation: effective axis score is
	// raw polarity * min(1, (p+n)/K), so counts below K pull toward 0.
	InertiaK float64 `yaml:"inertia_k" json:"inertia_k"`

	// MinActivation is the minimum combined count on an axis before it
	// produces a non-zero score.
	MinActivation float64 `yaml:"min_activation" json:"min_activation"`

	// MinWordCount gates transcripts too short to score meaningfully.
	MinWordCount int `yaml:"min_word_count" json:"min_word_count"`
}

// DriftConfig tunes baseline computation and z-score bands.
type DriftConfig struct {
	BaselineWindow int     `yaml:"baseline_window" json:"baseline_window"` // trailing signatures per channel
	MinSamples     int     `yaml:"min_samples" json:"min_samples"`
	StdEpsilon     float64 `yaml:"std_epsilon" json:"std_epsilon"` // below this, no z-score
	ModerateZ      float64 `yaml:"moderate_z" json:"moderate_z"`
	StrongZ        float64 `yaml:"strong_z" json:"strong_z"`
	AnomalyZ       float64 `yaml:"anomaly_z" json:"anomaly_z"`
}

// EvidenceConfig bounds receipt extraction.
type EvidenceConfig struct {
	WindowWords    int `yaml:"window_words" json:"window_words"` // words kept around each match
	MaxPerCategory int `yaml:"max_per_category" json:"max_per_category"`
	MaxPerAxis     int `yaml:"max_per_axis" json:"max_per_axis"`
	TopCategories  int `yaml:"top_categories" json:"top_categories"` // categories receiving receipts
}

// StoreConfig locates the corpus database.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// CacheConfig controls the layered summary/baseline cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// LLMConfig configures optional clean-summary generation. Provider "" means
// disabled; scoring then runs on full text. Summaries never affect receipts,
// which always run on full text.
type LLMConfig struct {
	Provider        string `yaml:"provider" json:"provider"` // "openai" or ""
	Model           string `yaml:"model" json:"model"`
	APIKey          string `yaml:"-" json:"-"` // env only, never persisted
	BaseURL         string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	MaxTokens       int    `yaml:"max_tokens" json:"max_tokens"`
	MinSummaryWords int    `yaml:"min_summary_words" json:"min_summary_words"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimitConfig throttles outbound LLM API calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Dir     string `yaml:"dir" json:"dir"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LexiconPath: "lexicon.yaml",
		Scoring: ScoringConfig{
			InertiaK:      2.0,
			MinActivation: 1.0,
			MinWordCount:  100,
		},
		Drift: DriftConfig{
			BaselineWindow: 4,
			MinSamples:     2,
			StdEpsilon:     0.05,
			ModerateZ:      1.0,
			StrongZ:        2.0,
			AnomalyZ:       3.0,
		},
		Evidence: EvidenceConfig{
			WindowWords:    28,
			MaxPerCategory: 3,
			MaxPerAxis:     4,
			TopCategories:  3,
		},
		Store: StoreConfig{
			Path: "pulpit.db",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:        "",
			Model:           "gpt-4o-mini",
			MaxTokens:       900,
			MinSummaryWords: 120,
			TimeoutSeconds:  60,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Dir: "./pulpit-reports",
		},
	}
}
