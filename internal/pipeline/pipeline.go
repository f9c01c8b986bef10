// Package pipeline orchestrates a full analysis run: text selection,
// scoring, receipt extraction, baseline classification and atomic
// persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/digitalpulpit/pulpit/internal/cache"
	"github.com/digitalpulpit/pulpit/internal/drift"
	"github.com/digitalpulpit/pulpit/internal/extract"
	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/llm"
	"github.com/digitalpulpit/pulpit/internal/model"
	"github.com/digitalpulpit/pulpit/internal/score"
	"github.com/digitalpulpit/pulpit/internal/store"
)

// Analyzer runs the scoring pipeline for stored transcripts.
type Analyzer struct {
	store      store.Store
	lex        *lexicon.Lexicon
	scorer     *score.Scorer
	extractor  *extract.Extractor
	detector   *drift.Detector
	summarizer *llm.Summarizer // nil when summary-first is disabled
	cache      cache.Cache     // nil when caching is disabled
	config     *model.Config
}

// NewAnalyzer wires the pipeline. summarizer and c may be nil.
func NewAnalyzer(cfg *model.Config, st store.Store, lex *lexicon.Lexicon, summarizer *llm.Summarizer, c cache.Cache) *Analyzer {
	return &Analyzer{
		store:      st,
		lex:        lex,
		scorer:     score.NewScorer(cfg.Scoring),
		extractor:  extract.NewExtractor(cfg.Evidence),
		detector:   drift.NewDetector(cfg.Drift),
		summarizer: summarizer,
		cache:      c,
		config:     cfg,
	}
}

// AnalysisResult is the complete outcome for one transcript.
type AnalysisResult struct {
	Signature      *model.Signature
	Classification model.DriftClassification
	Evidence       []model.Evidence
	Hooks          model.Hooks

	// Skipped is set when the transcript was not scored (too short).
	Skipped    bool
	SkipReason string
}

// AnalyzeTranscript loads a stored transcript by ID and analyzes it.
func (a *Analyzer) AnalyzeTranscript(ctx context.Context, transcriptID string) (*AnalysisResult, error) {
	t, err := a.store.GetTranscript(ctx, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("unknown transcript: %s", transcriptID)
	}
	return a.Analyze(ctx, t)
}

// Analyze scores one transcript end to end and persists the result. Scoring
// prefers a clean summary when one is available or can be generated;
// receipts always come from the full text so excerpts are quotable verbatim.
// Re-running Analyze for the same transcript and lexicon overwrites the
// previous signature and receipts in one transaction.
func (a *Analyzer) Analyze(ctx context.Context, t *model.Transcript) (*AnalysisResult, error) {
	fullWords := lexicon.WordCount(t.FullText)
	if fullWords < a.config.Scoring.MinWordCount {
		return &AnalysisResult{
			Skipped:    true,
			SkipReason: fmt.Sprintf("transcript has %d words, minimum is %d", fullWords, a.config.Scoring.MinWordCount),
		}, nil
	}

	analysisText, source := a.selectText(ctx, t)

	scored, err := a.scorer.Score(analysisText, a.lex)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", t.ID, err)
	}

	sig := &model.Signature{
		TranscriptID:      t.ID,
		ChannelID:         t.ChannelID,
		Title:             t.Title,
		PublishedAt:       t.PublishedAt,
		LexiconVersion:    a.lex.Version,
		CategoryCounts:    scored.CategoryCounts,
		CategoryDensity:   scored.CategoryDensity,
		AxisScores:        scored.AxisScores,
		Density:           scored.Density,
		ScriptureRefs:     score.ExtractScriptureRefs(t.FullText),
		ToneTags:          score.DeriveToneTags(scored.AxisScores),
		AnalysisSource:    source,
		AnalysisWordCount: scored.WordCount,
		WordCount:         fullWords,
		AnalyzedAt:        time.Now().UTC(),
	}

	evidence := a.extractEvidence(t, sig)

	history, err := a.store.History(ctx, t.ChannelID, t.ID, a.config.Drift.BaselineWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	baselines := a.baselines(t.ChannelID, history)
	cls := a.detector.Classify(sig, baselines)
	hooks := drift.BuildHooks(sig.AxisScores, cls.AxisZ, a.lex)

	if err := a.store.SaveAnalysis(ctx, sig, evidence); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	return &AnalysisResult{
		Signature:      sig,
		Classification: cls,
		Evidence:       evidence,
		Hooks:          hooks,
	}, nil
}

// selectText picks the text the scorer sees. Priority: stored summary,
// freshly generated summary, full text. Summarization failures degrade to
// full text with a warning rather than failing the run.
func (a *Analyzer) selectText(ctx context.Context, t *model.Transcript) (string, model.AnalysisSource) {
	if t.SummaryText != "" {
		return t.SummaryText, model.SourceSummary
	}
	if a.summarizer == nil || !a.summarizer.Enabled() {
		return t.FullText, model.SourceFullText
	}

	summary, err := a.summarizer.Summarize(ctx, t)
	if err != nil {
		if err != llm.ErrTooShort {
			fmt.Fprintf(os.Stderr, "Warning: summary for %s unavailable, scoring full text: %v\n", t.ID, err)
		}
		return t.FullText, model.SourceFullText
	}
	if err := a.store.SaveSummary(ctx, t.ID, summary); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: persist summary for %s: %v\n", t.ID, err)
	}
	return summary, model.SourceSummary
}

// extractEvidence pulls receipts from the full text for the categories that
// matter: the favored pole of every active axis, then the signature's top
// categories by density.
func (a *Analyzer) extractEvidence(t *model.Transcript, sig *model.Signature) []model.Evidence {
	caps := make(map[string]int)

	axes := make([]string, 0, len(sig.AxisScores))
	for axis := range sig.AxisScores {
		axes = append(axes, axis)
	}
	sort.Strings(axes)
	for _, axis := range axes {
		v := sig.AxisScores[axis]
		if v == 0 {
			continue
		}
		def, ok := a.lex.Axis(axis)
		if !ok {
			continue
		}
		favored := def.Positive
		if v < 0 {
			favored = def.Negative
		}
		if a.config.Evidence.MaxPerAxis > caps[favored] {
			caps[favored] = a.config.Evidence.MaxPerAxis
		}
	}

	for _, cat := range sig.TopCategories(a.config.Evidence.TopCategories) {
		if a.config.Evidence.MaxPerCategory > caps[cat] {
			caps[cat] = a.config.Evidence.MaxPerCategory
		}
	}

	cats := make([]string, 0, len(caps))
	for cat := range caps {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var out []model.Evidence
	for _, cat := range cats {
		for _, ev := range a.extractor.ForCategory(t.FullText, a.lex.Category(cat), caps[cat]) {
			ev.TranscriptID = t.ID
			ev.ChannelID = t.ChannelID
			if c := a.lex.Category(cat); c != nil {
				ev.Axis = c.Axis
			}
			out = append(out, ev)
		}
	}
	return out
}

// baselines computes per-axis baselines over the history window, serving
// from cache when the window head matches. History rows are immutable, so a
// cached window never goes stale.
func (a *Analyzer) baselines(channelID string, history []model.Signature) map[string]model.Baseline {
	if len(history) == 0 || a.cache == nil {
		return drift.ComputeBaselines(history, a.lex.AxisNames)
	}

	key := cache.BaselineKey(channelID, a.config.Drift.BaselineWindow, history[0].TranscriptID)
	if data, ok := a.cache.Get(key); ok {
		var cached map[string]model.Baseline
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	}

	baselines := drift.ComputeBaselines(history, a.lex.AxisNames)
	if data, err := json.Marshal(baselines); err == nil {
		_ = a.cache.Set(key, data, 0)
	}
	return baselines
}
