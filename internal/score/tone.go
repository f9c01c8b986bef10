package score

// toneThreshold is how far an axis must lean before it earns a tone tag.
const toneThreshold = 0.25

// maxToneTags caps the tone profile length.
const maxToneTags = 5

// DeriveToneTags derives lightweight tone tags from axis scores. Only the
// four classic axes contribute; unknown axes are ignored so custom lexicons
// degrade gracefully.
func DeriveToneTags(axisScores map[string]float64) []string {
	var tags []string

	add := func(axis, high, low string) {
		v := axisScores[axis]
		switch {
		case v >= toneThreshold:
			tags = append(tags, high)
		case v <= -toneThreshold:
			tags = append(tags, low)
		}
	}

	add("hope_vs_fear", "hopeful", "warning-heavy")
	add("grace_vs_effort", "grace-forward", "effort-forward")
	add("scripture_vs_story", "text-anchored", "story-driven")
	add("doctrine_vs_experience", "doctrinal", "experiential")

	if len(tags) > maxToneTags {
		tags = tags[:maxToneTags]
	}
	return tags
}
