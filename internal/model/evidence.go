package model

// Evidence is one bounded text snippet ("receipt") justifying a category
// match. Evidence for a transcript is fully replaced whenever the transcript
// is re-scored, so stale receipts never outlive their signature.
type Evidence struct {
	TranscriptID string `json:"transcript_id"`
	ChannelID    string `json:"channel_id,omitempty"`
	Axis         string `json:"axis,omitempty"` // set when the snippet backs an axis verdict
	Category     string `json:"category"`
	Keyword      string `json:"keyword"`
	Excerpt      string `json:"excerpt"` // bounded window, ellipsis-marked at cut edges
	StartChar    int    `json:"start_char"`
}
