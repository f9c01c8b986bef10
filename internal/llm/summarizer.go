package llm

import (
	"context"
	"fmt"

	"github.com/digitalpulpit/pulpit/internal/cache"
	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/model"
)

// minSummarizeWords is the floor below which a transcript is already short
// enough to score directly.
const minSummarizeWords = 200

// Limiter throttles outbound API calls under a key, so each endpoint keeps
// its own token budget.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Summarizer wraps a Provider with caching, rate limiting and quality
// gates. A nil provider means summary-first analysis is disabled and every
// call returns ErrDisabled.
type Summarizer struct {
	provider   Provider
	cache      cache.Cache
	limiter    Limiter
	limiterKey string
	minWords   int
}

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = fmt.Errorf("summarization disabled: no LLM provider configured")

// ErrTooShort is returned for transcripts below the summarization floor;
// callers should score the full text instead.
var ErrTooShort = fmt.Errorf("transcript too short to summarize")

// NewSummarizer creates a summarizer. cache may be nil to disable caching;
// limiter may be nil to disable rate limiting. limiterKey names the bucket
// the summarizer draws from, typically the API endpoint host.
func NewSummarizer(provider Provider, c cache.Cache, limiter Limiter, limiterKey string, minSummaryWords int) *Summarizer {
	if minSummaryWords <= 0 {
		minSummaryWords = DefaultConfig().MinSummaryWords
	}
	return &Summarizer{
		provider:   provider,
		cache:      c,
		limiter:    limiter,
		limiterKey: limiterKey,
		minWords:   minSummaryWords,
	}
}

// Enabled reports whether a provider is configured.
func (s *Summarizer) Enabled() bool {
	return s.provider != nil
}

// Summarize produces a clean summary for the transcript, serving from cache
// when possible. The returned summary always meets the configured minimum
// word count; thinner responses are rejected as unusable.
func (s *Summarizer) Summarize(ctx context.Context, t *model.Transcript) (string, error) {
	if s.provider == nil {
		return "", ErrDisabled
	}
	if lexicon.WordCount(t.FullText) < minSummarizeWords {
		return "", ErrTooShort
	}

	key := cache.SummaryKey(t.ID, t.FullText)
	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			return string(data), nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.limiterKey); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Title:       t.Title,
		PublishedAt: t.PublishedAt,
		Transcript:  t.FullText,
	})
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", t.ID, err)
	}

	if got := lexicon.WordCount(resp.Summary); got < s.minWords {
		return "", fmt.Errorf("summary for %s too thin: %d words (need %d)", t.ID, got, s.minWords)
	}

	if s.cache != nil {
		_ = s.cache.Set(key, []byte(resp.Summary), 0)
	}
	return resp.Summary, nil
}
