package score

import (
	"errors"
	"math"
	"testing"

	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/model"
)

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Compile(model.LexiconDoc{
		Version: "test-1",
		Categories: map[string]model.CategoryDef{
			"grace": {Keywords: []string{"grace", "mercy", "unmerited favor"}},
			"fear":  {Keywords: []string{"judgment", "wrath", "hell"}},
			"money": {Keywords: []string{"giving", "tithe"}, Weight: 2.0},
		},
		Axes: map[string]model.AxisDef{
			"hope_vs_fear": {Positive: "grace", Negative: "fear"},
		},
	})
	if err != nil {
		t.Fatalf("compile lexicon: %v", err)
	}
	return lex
}

func defaultScoringConfig() model.ScoringConfig {
	return model.ScoringConfig{InertiaK: 2.0, MinActivation: 1.0, MinWordCount: 100}
}

func TestScorer_Score_BasicCounts(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	text := "Grace upon grace. His mercy endures. The tithe was taught, and giving too."
	result, err := scorer.Score(text, lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CategoryCounts["grace"] != 3 {
		t.Errorf("expected 3 grace hits, got %d", result.CategoryCounts["grace"])
	}
	// money has weight 2.0: 2 raw hits become 4
	if result.CategoryCounts["money"] != 4 {
		t.Errorf("expected weighted money count 4, got %d", result.CategoryCounts["money"])
	}
	if result.CategoryCounts["fear"] != 0 {
		t.Errorf("expected 0 fear hits, got %d", result.CategoryCounts["fear"])
	}
}

func TestScorer_MinActivationGatesOnCombinedCounts(t *testing.T) {
	lex := testLexicon(t)
	// Two grace hits in a ten-word text: high density, low count. The
	// activation floor compares raw combined counts, so 2 < 3 stays neutral.
	text := "grace and mercy were the whole of the message today"

	gated := NewScorer(model.ScoringConfig{InertiaK: 2.0, MinActivation: 3.0})
	result, err := gated.Score(text, lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AxisScores["hope_vs_fear"] != 0 {
		t.Errorf("expected neutral axis below activation floor, got %v", result.AxisScores["hope_vs_fear"])
	}

	open := NewScorer(model.ScoringConfig{InertiaK: 2.0, MinActivation: 2.0})
	result, err = open.Score(text, lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.AxisScores["hope_vs_fear"]-1.0) > 1e-9 {
		t.Errorf("expected full activation at the floor, got %v", result.AxisScores["hope_vs_fear"])
	}
}

func TestScorer_Score_FixedShape(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	// No keywords at all: every category and axis must still be present.
	result, err := scorer.Score("a plain talk about nothing in particular", lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, cat := range lex.CategoryNames {
		if _, ok := result.CategoryCounts[cat]; !ok {
			t.Errorf("missing category %q in counts", cat)
		}
		if _, ok := result.CategoryDensity[cat]; !ok {
			t.Errorf("missing category %q in densities", cat)
		}
	}
	for _, axis := range lex.AxisNames {
		if _, ok := result.AxisScores[axis]; !ok {
			t.Errorf("missing axis %q in scores", axis)
		}
	}
}

func TestScorer_Score_AxisSaturation(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	// Three positive-pole hits, zero negative: polarity 1.0, inertia
	// min(1, 3/2) = 1, so the axis saturates at 1.0.
	result, err := scorer.Score("grace and mercy and grace", lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.AxisScores["hope_vs_fear"]; got != 1.0 {
		t.Errorf("expected axis score 1.0, got %v", got)
	}
}

func TestScorer_Score_AxisInertia(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	// A single negative-pole hit: polarity -1.0 dampened by min(1, 1/2).
	result, err := scorer.Score("one mention of judgment in a long talk", lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.AxisScores["hope_vs_fear"]; got != -0.5 {
		t.Errorf("expected axis score -0.5, got %v", got)
	}
}

func TestScorer_Score_AxisBounds(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	texts := []string{
		"grace mercy grace mercy judgment wrath hell judgment",
		"judgment wrath hell hell hell",
		"grace",
		"nothing relevant here",
	}
	for _, text := range texts {
		result, err := scorer.Score(text, lex)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for axis, v := range result.AxisScores {
			if v < -1.0 || v > 1.0 {
				t.Errorf("axis %s out of bounds for %q: %v", axis, text, v)
			}
		}
	}
}

func TestScorer_Score_Deterministic(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	text := "Grace and judgment. Mercy triumphs over wrath. Tithe and giving."
	first, err := scorer.Score(text, lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := scorer.Score(text, lex)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for cat, n := range first.CategoryCounts {
			if again.CategoryCounts[cat] != n {
				t.Fatalf("run %d: count for %s changed: %d != %d", i, cat, again.CategoryCounts[cat], n)
			}
		}
		for axis, v := range first.AxisScores {
			if again.AxisScores[axis] != v {
				t.Fatalf("run %d: axis %s changed: %v != %v", i, axis, again.AxisScores[axis], v)
			}
		}
	}
}

func TestScorer_Score_Density(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	// 10 words, 1 grace hit: density 100 per 1000 words.
	result, err := scorer.Score("grace one two three four five six seven eight nine", lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WordCount != 10 {
		t.Fatalf("expected 10 words, got %d", result.WordCount)
	}
	if math.Abs(result.CategoryDensity["grace"]-100.0) > 1e-9 {
		t.Errorf("expected grace density 100, got %v", result.CategoryDensity["grace"])
	}
}

func TestScorer_Score_PhraseMatching(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	result, err := scorer.Score("this unmerited favor is the whole point", lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CategoryCounts["grace"] != 1 {
		t.Errorf("expected phrase match to count once, got %d", result.CategoryCounts["grace"])
	}
}

func TestScorer_Score_WordBoundaries(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	// "disgraceful" must not match "grace"
	result, err := scorer.Score("a disgraceful display of hellfire", lex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CategoryCounts["grace"] != 0 {
		t.Errorf("substring matched across word boundary: %d", result.CategoryCounts["grace"])
	}
	if result.CategoryCounts["fear"] != 0 {
		t.Errorf("'hellfire' should not match 'hell': %d", result.CategoryCounts["fear"])
	}
}

func TestScorer_Score_EmptyInput(t *testing.T) {
	scorer := NewScorer(defaultScoringConfig())
	lex := testLexicon(t)

	for _, text := range []string{"", "   ", "\n\t", "!!! ... ???"} {
		_, err := scorer.Score(text, lex)
		if err == nil {
			t.Fatalf("expected error for %q", text)
		}
		var empty *model.EmptyInputError
		if !errors.As(err, &empty) {
			t.Errorf("expected EmptyInputError for %q, got %v", text, err)
		}
	}
}
