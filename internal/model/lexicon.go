package model

// LexiconDoc is the on-disk lexicon document: a versioned mapping from
// category names to keyword patterns, plus the bipolar axes built from them.
// It is plain data; compilation and validation live in the lexicon package.
type LexiconDoc struct {
	Version    string                 `yaml:"version" json:"version"`
	Categories map[string]CategoryDef `yaml:"categories" json:"categories"`
	Axes       map[string]AxisDef     `yaml:"axes" json:"axes"`
}

// CategoryDef defines one keyword class. Patterns are matched
// case-insensitively; single words on word boundaries, phrases as substrings.
type CategoryDef struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Weight   float64  `yaml:"weight,omitempty" json:"weight,omitempty"` // 0 means 1.0
}

// AxisDef names the two opposite-polarity categories of a bipolar axis.
type AxisDef struct {
	Positive string `yaml:"positive" json:"positive"`
	Negative string `yaml:"negative" json:"negative"`
}
