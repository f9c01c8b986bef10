package llm

import (
	"context"
	"fmt"

	"github.com/digitalpulpit/pulpit/internal/model"
)

// Provider defines the interface for clean-summary generation backends.
// Summaries strip podcast packaging so semantic scoring runs on the sermon's
// burden; they never feed evidence extraction, which always runs on full text.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize distills one transcript into a clean summary
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for summary generation.
type SummarizeRequest struct {
	// Transcript metadata shown to the model for orientation only
	Title       string
	PublishedAt string

	// Transcript is the full sermon text
	Transcript string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the generated summary.
type SummarizeResponse struct {
	// Summary is the clean summary text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// MinSummaryWords rejects summaries too thin to score against
	MinSummaryWords int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:        "", // Disabled by default
		Model:           "gpt-4o-mini",
		Timeout:         60,
		MaxTokens:       900,
		MinSummaryWords: 120,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:        mc.Provider,
		Model:           mc.Model,
		APIKey:          mc.APIKey,
		BaseURL:         mc.BaseURL,
		Timeout:         mc.TimeoutSeconds,
		MaxTokens:       mc.MaxTokens,
		MinSummaryWords: mc.MinSummaryWords,
	}
}

// summarySystemPrompt makes the model a distillation engine, not a preacher:
// packaging out, burden kept, no added commentary.
const summarySystemPrompt = `You are a sermon distillation engine.
Your job is to produce a CLEAN SUMMARY that removes noise and preserves the core burden.

Rules:
- Remove: bumpers, welcomes, announcements, giving promos, podcast/subscribe lines, greetings, stage directions.
- Remove: long scripture-reading blocks (you may mention the passage, but do not quote long sections).
- Remove: repetitive rhetorical loops, filler, crowd work.
- Keep: the sermon's core thesis, main movements, main warnings, encouragements, and calls to action.
- Do NOT add your own commentary or evaluation.
- Do NOT preach.
- Do NOT moralize.
- Output: plain text (no JSON), clean paragraphs, 400-800 words.`

// BuildPrompt constructs the user prompt for summary generation.
func BuildPrompt(req SummarizeRequest) string {
	return fmt.Sprintf(`Distill the sermon transcript below into a clean summary.

Metadata:
- Title: %s
- Published: %s

Transcript:
%s`, truncate(req.Title, 140), truncate(req.PublishedAt, 40), req.Transcript)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
