package extract

import (
	"regexp"
	"strings"
)

// boilerplatePatterns reject show bumpers, fundraising scripts, announcements
// and contact plugs so receipts quote the sermon, not the packaging.
var boilerplatePatterns = []string{
	// Show bumpers / podcast meta
	`\bnow (?:let'?s|lets) dive into (?:today'?s|this) (?:teaching|message)\b`,
	`\bnow (?:let'?s|lets) get into (?:today'?s|this) (?:teaching|message)\b`,
	`\bwelcome to\b`,
	`\bthanks for (?:joining|tuning in)\b`,
	`\bwe'?re glad you'?re here\b`,
	`\byou'?re listening to\b`,
	`\byou are listening to\b`,
	`\bthis is\b.*\bpodcast\b`,
	`\bsubscribe\b`,
	`\blike and subscribe\b`,
	`\bturn on notifications\b`,
	`\bsmash that like\b`,

	// Contact / question scripts
	`\bif you have a question\b`,
	`\bsend (?:that|your question)\b`,
	`\bemail us\b`,
	`\bcall the office\b`,
	`\bcontact us\b`,

	// Spelled-out web addresses
	`\bdot com\b`,
	`\bwith an x\b`,

	// Fundraising / support scripts
	`\bsupport this ministry\b`,
	`\bpartner with\b`,
	`\bdonate\b`,
	`\bgive (?:today|now)\b`,
	`\bto thank you for your support\b`,
	`\bwe'?ll send you\b`,
	`\bevery day, the generosity of friends like you\b`,
	`\byour gift\b.*\bhelps\b`,
	`\btext\s+\w+\s+to\s+\d+\b`,
	`\bthank you for (?:your|the) support\b`,

	// Announcements
	`\bannouncements\b`,
	`\bservice times\b`,
	`\bwe have (?:prayer|bible study)\b`,
	`\bevery (?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b.*\b(?:prayer|service|bible study|group)\b`,
}

var (
	boilerplateRe = regexp.MustCompile(`(?i)(?:` + strings.Join(boilerplatePatterns, `)|(?:`) + `)`)
	emailRe       = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	urlRe         = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+|\b\S+\.(?:com|org|net|io|co|us|tv)\b)`)
	wsRe          = regexp.MustCompile(`\s+`)
)

// IsBoilerplate reports whether a snippet looks like podcast packaging
// (bumpers, URLs, fundraising, announcements) rather than sermon content.
func IsBoilerplate(text string) bool {
	t := strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
	if t == "" {
		return false
	}
	// Structural fast rejects
	if emailRe.MatchString(t) || urlRe.MatchString(t) {
		return true
	}
	return boilerplateRe.MatchString(t)
}
