package extract

import (
	"sort"
	"strings"

	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/model"
)

// charWindow is how far around a match (in bytes) the raw excerpt reaches
// before word-window trimming.
const charWindow = 600

// positionBucket collapses hits landing within the same 50-char region so a
// dense cluster of keywords yields one receipt, not many near-duplicates.
const positionBucket = 50

// Extractor produces bounded evidence snippets ("receipts") for category
// matches. Extraction is a pure function of (text, lexicon, caps): the same
// input always yields the same receipts, so audits are reproducible.
type Extractor struct {
	cfg model.EvidenceConfig
}

// NewExtractor creates a new evidence extractor.
func NewExtractor(cfg model.EvidenceConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract extracts capped receipts for every category in the lexicon,
// ordered by category name then match position.
func (e *Extractor) Extract(text string, lex *lexicon.Lexicon, perCategoryCap int) []model.Evidence {
	var out []model.Evidence
	for _, name := range lex.CategoryNames {
		out = append(out, e.ForCategory(text, lex.Category(name), perCategoryCap)...)
	}
	return out
}

// ForCategory extracts up to max receipts for one category. The first
// occurrence of each pattern is located in the full text; hits are ordered by
// position, deduplicated by position bucket, and boilerplate is rejected.
func (e *Extractor) ForCategory(text string, cat *lexicon.Category, max int) []model.Evidence {
	if text == "" || cat == nil || max <= 0 {
		return nil
	}

	lower := strings.ToLower(text)

	type hit struct {
		pos     int
		keyword string
	}
	var hits []hit
	for _, p := range cat.Patterns {
		if pos := p.FindFirst(lower); pos >= 0 {
			hits = append(hits, hit{pos: pos, keyword: p.Raw})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].keyword < hits[j].keyword
	})

	var out []model.Evidence
	seen := make(map[int]bool)
	for _, h := range hits {
		if len(out) >= max {
			break
		}
		bucket := h.pos / positionBucket
		if seen[bucket] {
			continue
		}
		seen[bucket] = true

		excerpt := wordWindow(text, h.pos, e.cfg.WindowWords)
		if excerpt == "" || IsBoilerplate(excerpt) {
			continue
		}
		out = append(out, model.Evidence{
			Category:  cat.Name,
			Keyword:   h.keyword,
			Excerpt:   excerpt,
			StartChar: h.pos,
		})
	}
	return out
}

// wordWindow extracts up to 2*windowWords words centered on the match at
// startChar, with explicit ellipsis markers wherever the window cuts into
// the middle of the text.
func wordWindow(text string, startChar, windowWords int) string {
	if text == "" {
		return ""
	}
	lo := startChar - charWindow
	if lo < 0 {
		lo = 0
	}
	hi := startChar + charWindow
	if hi > len(text) {
		hi = len(text)
	}
	chunk := strings.TrimSpace(wsRe.ReplaceAllString(text[lo:hi], " "))
	if chunk == "" {
		return ""
	}

	cutLeft := lo > 0
	cutRight := hi < len(text)

	words := strings.Split(chunk, " ")
	if len(words) > windowWords*2 {
		mid := len(words) / 2
		loW := mid - windowWords
		if loW < 0 {
			loW = 0
		}
		hiW := mid + windowWords
		if hiW > len(words) {
			hiW = len(words)
		}
		if loW > 0 {
			cutLeft = true
		}
		if hiW < len(words) {
			cutRight = true
		}
		words = words[loW:hiW]
	}

	excerpt := strings.TrimSpace(strings.Join(words, " "))
	if cutLeft {
		excerpt = "…" + excerpt
	}
	if cutRight {
		excerpt = excerpt + "…"
	}
	return excerpt
}
