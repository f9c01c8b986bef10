package score

import "testing"

func TestExtractScriptureRefs(t *testing.T) {
	text := `Turn with me to Romans 8. Paul says in Romans that nothing separates us.
Then 1 Corinthians 13 speaks of love, and the psalmist agrees: Psalm 23 is
a shepherd song. Genesis tells how it began.`

	refs := ExtractScriptureRefs(text)

	if refs["romans"] != 2 {
		t.Errorf("expected 2 romans refs, got %d", refs["romans"])
	}
	if refs["1 corinthians"] != 1 {
		t.Errorf("expected 1 corinthians ref, got %d", refs["1 corinthians"])
	}
	if refs["psalms"] != 1 {
		t.Errorf("expected 1 psalms ref, got %d", refs["psalms"])
	}
	if refs["genesis"] != 1 {
		t.Errorf("expected 1 genesis ref, got %d", refs["genesis"])
	}
}

func TestExtractScriptureRefs_NoRefs(t *testing.T) {
	refs := ExtractScriptureRefs("a talk with no citations at all")
	if len(refs) != 0 {
		t.Errorf("expected no refs, got %v", refs)
	}
}

func TestExtractScriptureRefs_Abbreviations(t *testing.T) {
	refs := ExtractScriptureRefs("as it says in 1 cor 13 and also ps 100")
	if refs["1 corinthians"] != 1 {
		t.Errorf("expected abbreviation '1 cor' to count, got %v", refs)
	}
	if refs["psalms"] != 1 {
		t.Errorf("expected abbreviation 'ps' to count, got %v", refs)
	}
}
