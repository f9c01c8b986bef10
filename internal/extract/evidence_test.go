package extract

import (
	"strings"
	"testing"

	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/model"
)

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Compile(model.LexiconDoc{
		Version: "test-1",
		Categories: map[string]model.CategoryDef{
			"grace": {Keywords: []string{"grace", "mercy"}},
			"fear":  {Keywords: []string{"judgment"}},
		},
	})
	if err != nil {
		t.Fatalf("compile lexicon: %v", err)
	}
	return lex
}

func testExtractor() *Extractor {
	return NewExtractor(model.EvidenceConfig{
		WindowWords:    28,
		MaxPerCategory: 3,
		MaxPerAxis:     4,
		TopCategories:  3,
	})
}

func TestExtractor_ForCategory_Basic(t *testing.T) {
	lex := testLexicon(t)
	e := testExtractor()

	text := "In the beginning of the message the preacher spoke about grace as the heart of the gospel, and later he returned to mercy once more."
	receipts := e.ForCategory(text, lex.Category("grace"), 3)

	if len(receipts) == 0 {
		t.Fatal("expected at least one receipt")
	}
	first := receipts[0]
	if first.Keyword != "grace" {
		t.Errorf("expected first receipt for 'grace', got %q", first.Keyword)
	}
	if first.StartChar != strings.Index(strings.ToLower(text), "grace") {
		t.Errorf("start char %d does not match text position", first.StartChar)
	}
	if !strings.Contains(strings.ToLower(first.Excerpt), "grace") {
		t.Errorf("excerpt does not contain the keyword: %q", first.Excerpt)
	}
}

func TestExtractor_ForCategory_CapAndDedupe(t *testing.T) {
	lex := testLexicon(t)
	e := testExtractor()

	// Both keywords land within one position bucket; only one receipt should
	// survive the dedupe.
	text := "grace mercy " + strings.Repeat("filler words to pad the transcript body out ", 20)
	receipts := e.ForCategory(text, lex.Category("grace"), 3)
	if len(receipts) != 1 {
		t.Errorf("expected 1 receipt after bucket dedupe, got %d", len(receipts))
	}

	// Zero cap extracts nothing.
	if got := e.ForCategory(text, lex.Category("grace"), 0); got != nil {
		t.Errorf("expected nil for zero cap, got %v", got)
	}
}

func TestExtractor_ForCategory_RejectsBoilerplate(t *testing.T) {
	lex := testLexicon(t)
	e := testExtractor()

	text := "Welcome to the podcast, subscribe for more grace filled episodes every week"
	receipts := e.ForCategory(text, lex.Category("grace"), 3)
	if len(receipts) != 0 {
		t.Errorf("expected boilerplate window to be rejected, got %d receipts", len(receipts))
	}
}

func TestExtractor_ForCategory_NoMatches(t *testing.T) {
	lex := testLexicon(t)
	e := testExtractor()

	if got := e.ForCategory("an entirely unrelated talk", lex.Category("grace"), 3); len(got) != 0 {
		t.Errorf("expected no receipts, got %v", got)
	}
	if got := e.ForCategory("", lex.Category("grace"), 3); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}

func TestExtractor_Extract_Deterministic(t *testing.T) {
	lex := testLexicon(t)
	e := testExtractor()

	text := "The sermon moved from judgment to grace, and closed with mercy for all who ask."
	first := e.Extract(text, lex, 3)
	for i := 0; i < 3; i++ {
		again := e.Extract(text, lex, 3)
		if len(again) != len(first) {
			t.Fatalf("run %d: receipt count changed: %d != %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: receipt %d changed: %+v != %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestWordWindow_Ellipsis(t *testing.T) {
	long := strings.Repeat("word ", 200) + "grace " + strings.Repeat("word ", 200)
	pos := strings.Index(long, "grace")

	excerpt := wordWindow(long, pos, 10)
	if !strings.HasPrefix(excerpt, "…") || !strings.HasSuffix(excerpt, "…") {
		t.Errorf("expected ellipsis on both cut edges: %q", excerpt)
	}
	words := strings.Fields(strings.Trim(excerpt, "…"))
	if len(words) > 20 {
		t.Errorf("window too wide: %d words", len(words))
	}
}
