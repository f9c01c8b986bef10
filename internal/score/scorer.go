package score

import (
	"math"

	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/model"
)

// Scorer turns transcript text into a fixed-shape numeric profile using a
// compiled lexicon. Scoring is purely lexical and deterministic: no negation,
// sentiment, or grammatical analysis. It cannot distinguish affirmation from
// refutation of a concept; that limitation is documented, not patched.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a new scorer.
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Result is the scorer's output. Every category and axis in the lexicon is
// present, with zeros where nothing matched; downstream aggregation assumes
// this fixed shape.
type Result struct {
	CategoryCounts  map[string]int
	CategoryDensity map[string]float64 // matches per 1000 words
	AxisScores      map[string]float64 // each in [-1, 1]
	Density         float64            // total matches per 1000 words
	WordCount       int
}

// Score scores one transcript's text against the lexicon. Text with zero
// words is an *model.EmptyInputError, never a division producing Inf or NaN.
func (s *Scorer) Score(text string, lex *lexicon.Lexicon) (*Result, error) {
	normalized := lexicon.Normalize(text)
	wordCount := lexicon.WordCount(normalized)
	if wordCount == 0 {
		return nil, &model.EmptyInputError{}
	}

	res := &Result{
		CategoryCounts:  make(map[string]int, len(lex.CategoryNames)),
		CategoryDensity: make(map[string]float64, len(lex.CategoryNames)),
		AxisScores:      make(map[string]float64, len(lex.AxisNames)),
		WordCount:       wordCount,
	}

	total := 0
	for _, name := range lex.CategoryNames {
		cat := lex.Category(name)
		c := cat.Count(normalized)
		c = int(math.Round(float64(c) * cat.Weight))
		res.CategoryCounts[name] = c
		res.CategoryDensity[name] = float64(c) / float64(wordCount) * 1000.0
		total += c
	}
	res.Density = float64(total) / float64(wordCount) * 1000.0

	for _, name := range lex.AxisNames {
		axis, _ := lex.Axis(name)
		res.AxisScores[name] = s.axisScore(
			res.CategoryCounts[axis.Positive],
			res.CategoryCounts[axis.Negative],
		)
	}

	return res, nil
}

// axisScore computes the dampened polarity for one axis. Raw polarity is
// (p-n)/(p+n); the inertia factor min(1, (p+n)/K) keeps a single keyword
// instance from saturating the axis at ±1 on sparse text.
func (s *Scorer) axisScore(p, n int) float64 {
	total := p + n
	if total == 0 || float64(total) < s.cfg.MinActivation {
		return 0
	}
	raw := float64(p-n) / float64(total)
	inertia := 1.0
	if s.cfg.InertiaK > 0 {
		inertia = math.Min(1.0, float64(total)/s.cfg.InertiaK)
	}
	return raw * inertia
}
