// Package lexicon loads and compiles the versioned theological lexicon:
// category keyword patterns and the bipolar axes built from them. A lexicon
// is immutable once compiled; multiple versions can coexist during backfill.
package lexicon

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/digitalpulpit/pulpit/internal/model"
	"gopkg.in/yaml.v3"
)

var (
	punctRe = regexp.MustCompile(`[^\w\s:-]`)
	spaceRe = regexp.MustCompile(`\s+`)
	wordRe  = regexp.MustCompile(`\w+`)
)

// Normalize lowercases text and strips punctuation while keeping digits,
// colons and hyphens (scripture references) and word boundaries intact.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = punctRe.ReplaceAllString(t, " ")
	t = spaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// WordCount counts word tokens in text.
func WordCount(text string) int {
	return len(wordRe.FindAllStringIndex(text, -1))
}

// Pattern is one compiled keyword pattern. Single words match on word
// boundaries; multi-word phrases match as plain substrings of normalized text.
type Pattern struct {
	Raw    string // keyword as written in the lexicon document
	norm   string // normalized form used for matching
	phrase bool
	re     *regexp.Regexp // nil for phrases
}

// Count counts non-overlapping occurrences in normalized text.
func (p *Pattern) Count(normalized string) int {
	if p.phrase {
		return strings.Count(normalized, p.norm)
	}
	return len(p.re.FindAllStringIndex(normalized, -1))
}

// FindFirst returns the byte offset of the first occurrence in lowercased
// text, or -1. Used by the evidence extractor against the original transcript.
func (p *Pattern) FindFirst(lower string) int {
	if p.phrase {
		return strings.Index(lower, p.norm)
	}
	loc := p.re.FindStringIndex(lower)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// Category is a compiled keyword class, optionally assigned to one axis.
type Category struct {
	Name     string
	Weight   float64
	Patterns []*Pattern
	Axis     string // "" when the category is not on an axis
	Polarity int    // +1, -1, or 0
}

// Count counts non-overlapping matches of all patterns in normalized text.
func (c *Category) Count(normalized string) int {
	total := 0
	for _, p := range c.Patterns {
		total += p.Count(normalized)
	}
	return total
}

// Axis is a bipolar dimension built from exactly two opposite-polarity
// categories.
type Axis struct {
	Name     string
	Positive string
	Negative string
}

// Lexicon is a compiled, versioned lexicon. Read-only after compilation so
// batch workers can share it without locking.
type Lexicon struct {
	Version    string
	categories map[string]*Category
	axes       map[string]Axis

	// CategoryNames and AxisNames are sorted so every iteration over the
	// lexicon is deterministic.
	CategoryNames []string
	AxisNames     []string
}

// Category returns the named category, or nil.
func (l *Lexicon) Category(name string) *Category {
	return l.categories[name]
}

// Axis returns the named axis.
func (l *Lexicon) Axis(name string) (Axis, bool) {
	a, ok := l.axes[name]
	return a, ok
}

// Load reads and compiles a lexicon document from a YAML file.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var doc model.LexiconDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &model.ConfigError{Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return Compile(doc)
}

// Compile validates a lexicon document and compiles its patterns.
// Validation failures return *model.ConfigError: a bad lexicon silently
// corrupts every score, so nothing is scored until it passes.
func Compile(doc model.LexiconDoc) (*Lexicon, error) {
	if doc.Version == "" {
		return nil, &model.ConfigError{Field: "version", Reason: "missing lexicon version"}
	}
	if len(doc.Categories) == 0 {
		return nil, &model.ConfigError{Field: "categories", Reason: "no categories defined"}
	}

	lex := &Lexicon{
		Version:    doc.Version,
		categories: make(map[string]*Category, len(doc.Categories)),
		axes:       make(map[string]Axis, len(doc.Axes)),
	}

	for name, def := range doc.Categories {
		if strings.TrimSpace(name) == "" {
			return nil, &model.ConfigError{Field: "categories", Reason: "empty category name"}
		}
		weight := def.Weight
		if weight == 0 {
			weight = 1.0
		}
		if weight < 0 {
			return nil, &model.ConfigError{Field: name, Reason: "negative weight"}
		}

		cat := &Category{Name: name, Weight: weight}
		for _, kw := range def.Keywords {
			p, err := compilePattern(kw)
			if err != nil {
				return nil, &model.ConfigError{Field: name, Reason: err.Error()}
			}
			if p != nil {
				cat.Patterns = append(cat.Patterns, p)
			}
		}
		if len(cat.Patterns) == 0 {
			return nil, &model.ConfigError{Field: name, Reason: "empty pattern list"}
		}
		lex.categories[name] = cat
		lex.CategoryNames = append(lex.CategoryNames, name)
	}
	sort.Strings(lex.CategoryNames)

	assigned := make(map[string]string) // category -> axis
	for name, def := range doc.Axes {
		if def.Positive == "" || def.Negative == "" {
			return nil, &model.ConfigError{Field: name, Reason: "axis must name a positive and a negative category"}
		}
		if def.Positive == def.Negative {
			return nil, &model.ConfigError{Field: name, Reason: "axis poles must be two distinct categories"}
		}
		pos, ok := lex.categories[def.Positive]
		if !ok {
			return nil, &model.ConfigError{Field: name, Reason: fmt.Sprintf("unknown positive category %q", def.Positive)}
		}
		neg, ok := lex.categories[def.Negative]
		if !ok {
			return nil, &model.ConfigError{Field: name, Reason: fmt.Sprintf("unknown negative category %q", def.Negative)}
		}
		for _, member := range []string{def.Positive, def.Negative} {
			if prev, dup := assigned[member]; dup {
				return nil, &model.ConfigError{
					Field:  name,
					Reason: fmt.Sprintf("category %q already belongs to axis %q", member, prev),
				}
			}
			assigned[member] = name
		}
		pos.Axis, pos.Polarity = name, 1
		neg.Axis, neg.Polarity = name, -1
		lex.axes[name] = Axis{Name: name, Positive: def.Positive, Negative: def.Negative}
		lex.AxisNames = append(lex.AxisNames, name)
	}
	sort.Strings(lex.AxisNames)

	return lex, nil
}

func compilePattern(raw string) (*Pattern, error) {
	norm := Normalize(raw)
	if norm == "" {
		return nil, nil // blank keywords are dropped, not fatal
	}
	p := &Pattern{Raw: raw, norm: norm}
	if strings.Contains(norm, " ") {
		p.phrase = true
		return p, nil
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(norm) + `\b`)
	if err != nil {
		return nil, fmt.Errorf("keyword %q: %v", raw, err)
	}
	p.re = re
	return p, nil
}
