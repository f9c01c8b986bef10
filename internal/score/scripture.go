package score

import (
	"regexp"
	"strings"
)

// bookPatterns maps canonical book names to the spoken/abbreviated forms that
// show up in transcripts. Order fixed for deterministic iteration.
var bookPatterns = []struct {
	book string
	pats []string
}{
	{"genesis", []string{`genesis`, `\bgen\b`}},
	{"exodus", []string{`exodus`, `\bexo\b`, `\bex\b`}},
	{"deuteronomy", []string{`deuteronomy`, `\bdeut\b`, `\bdeu\b`}},
	{"psalms", []string{`psalms`, `\bpsalm\b`, `\bps\b`}},
	{"proverbs", []string{`proverbs`, `\bprov\b`, `\bpr\b`}},
	{"isaiah", []string{`isaiah`, `\bisa\b`}},
	{"jeremiah", []string{`jeremiah`, `\bjer\b`}},
	{"matthew", []string{`matthew`, `\bmatt\b`, `\bmt\b`}},
	{"mark", []string{`\bmark\b`, `\bmk\b`}},
	{"luke", []string{`\bluke\b`, `\blk\b`}},
	{"john", []string{`\bjohn\b`, `\bjn\b`}},
	{"acts", []string{`\bacts\b`}},
	{"romans", []string{`\bromans\b`, `\brom\b`}},
	{"1 corinthians", []string{`\b1\s*corinthians\b`, `\b1\s*cor\b`, `\bi\s*cor\b`}},
	{"2 corinthians", []string{`\b2\s*corinthians\b`, `\b2\s*cor\b`, `\bii\s*cor\b`}},
	{"galatians", []string{`\bgalatians\b`, `\bgal\b`}},
	{"ephesians", []string{`\bephesians\b`, `\beph\b`}},
	{"philippians", []string{`\bphilippians\b`, `\bphil\b`}},
	{"colossians", []string{`\bcolossians\b`, `\bcol\b`}},
	{"1 thessalonians", []string{`\b1\s*thessalonians\b`, `\b1\s*thess\b`}},
	{"2 thessalonians", []string{`\b2\s*thessalonians\b`, `\b2\s*thess\b`}},
	{"1 timothy", []string{`\b1\s*timothy\b`, `\b1\s*tim\b`}},
	{"2 timothy", []string{`\b2\s*timothy\b`, `\b2\s*tim\b`}},
	{"hebrews", []string{`\bhebrews\b`, `\bheb\b`}},
	{"james", []string{`\bjames\b`, `\bjas\b`}},
	{"1 peter", []string{`\b1\s*peter\b`, `\b1\s*pet\b`}},
	{"2 peter", []string{`\b2\s*peter\b`, `\b2\s*pet\b`}},
	{"revelation", []string{`\brevelation\b`, `\brev\b`}},
}

// chapterVerse optionally follows a book name: "3", "3:16", "3:16-18".
const chapterVerse = `(?:\s+\d{1,3}(?::\d{1,3}(?:\s*[-–]\s*\d{1,3})?)?)?`

var bookRes = compileBookPatterns()

func compileBookPatterns() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(bookPatterns))
	for i, bp := range bookPatterns {
		res[i] = regexp.MustCompile(`(?:` + strings.Join(bp.pats, `|`) + `)` + chapterVerse)
	}
	return res
}

// ExtractScriptureRefs counts scripture book references in text. It runs on
// full text, not summaries, to keep scripture anchoring strong. Books with no
// matches are omitted.
func ExtractScriptureRefs(text string) map[string]int {
	if text == "" {
		return map[string]int{}
	}
	lower := strings.ToLower(text)
	counts := make(map[string]int)
	for i, bp := range bookPatterns {
		if n := len(bookRes[i].FindAllStringIndex(lower, -1)); n > 0 {
			counts[bp.book] = n
		}
	}
	return counts
}
