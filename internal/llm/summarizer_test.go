package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/digitalpulpit/pulpit/internal/model"
)

type fakeProvider struct {
	summary string
	err     error
	calls   int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &SummarizeResponse{Summary: p.summary, Model: "fake-1"}, nil
}

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(key string) error { delete(c.data, key); return nil }
func (c *mapCache) Clear() error            { c.data = map[string][]byte{}; return nil }

func longTranscript() *model.Transcript {
	return &model.Transcript{
		ID:       "t1",
		Title:    "On Grace",
		FullText: strings.Repeat("the preacher spoke at length about grace and mercy today ", 40),
	}
}

func goodSummary() string {
	return strings.Repeat("a faithful distillation of the sermon burden ", 30)
}

func TestSummarizer_Disabled(t *testing.T) {
	s := NewSummarizer(nil, nil, nil, "", 120)
	if s.Enabled() {
		t.Error("nil provider should report disabled")
	}
	if _, err := s.Summarize(context.Background(), longTranscript()); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestSummarizer_ShortTranscript(t *testing.T) {
	provider := &fakeProvider{summary: goodSummary()}
	s := NewSummarizer(provider, nil, nil, "", 120)

	short := &model.Transcript{ID: "t1", FullText: "a very short reflection on mercy"}
	if _, err := s.Summarize(context.Background(), short); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider called for a short transcript: %d", provider.calls)
	}
}

func TestSummarizer_CachesByTranscriptText(t *testing.T) {
	provider := &fakeProvider{summary: goodSummary()}
	c := newMapCache()
	s := NewSummarizer(provider, c, nil, "", 120)

	tr := longTranscript()
	first, err := s.Summarize(context.Background(), tr)
	if err != nil {
		t.Fatalf("first summarize: %v", err)
	}
	second, err := s.Summarize(context.Background(), tr)
	if err != nil {
		t.Fatalf("second summarize: %v", err)
	}
	if first != second {
		t.Error("cached summary differs")
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}

	// A re-transcribed text must miss the cache.
	tr.FullText += " with an extra closing word"
	if _, err := s.Summarize(context.Background(), tr); err != nil {
		t.Fatalf("third summarize: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("expected cache miss after text change, got %d calls", provider.calls)
	}
}

func TestSummarizer_RejectsThinSummary(t *testing.T) {
	provider := &fakeProvider{summary: "too thin"}
	s := NewSummarizer(provider, nil, nil, "", 120)

	if _, err := s.Summarize(context.Background(), longTranscript()); err == nil {
		t.Fatal("expected error for a summary below the minimum word count")
	}
}

type fakeLimiter struct {
	keys []string
	err  error
}

func (l *fakeLimiter) Wait(ctx context.Context, key string) error {
	l.keys = append(l.keys, key)
	return l.err
}

func TestSummarizer_WaitsOnLimiterKey(t *testing.T) {
	provider := &fakeProvider{summary: goodSummary()}
	lim := &fakeLimiter{}
	s := NewSummarizer(provider, nil, lim, "api.openai.com", 120)

	if _, err := s.Summarize(context.Background(), longTranscript()); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(lim.keys) != 1 || lim.keys[0] != "api.openai.com" {
		t.Errorf("limiter keys = %v, want one wait on api.openai.com", lim.keys)
	}
}

func TestSummarizer_LimiterErrorStopsCall(t *testing.T) {
	provider := &fakeProvider{summary: goodSummary()}
	lim := &fakeLimiter{err: context.Canceled}
	s := NewSummarizer(provider, nil, lim, "api.openai.com", 120)

	if _, err := s.Summarize(context.Background(), longTranscript()); err == nil {
		t.Fatal("expected limiter error to propagate")
	}
	if provider.calls != 0 {
		t.Errorf("provider called despite limiter refusal: %d", provider.calls)
	}
}

func TestSummarizer_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("api down")}
	c := newMapCache()
	s := NewSummarizer(provider, c, nil, "", 120)

	if _, err := s.Summarize(context.Background(), longTranscript()); err == nil {
		t.Fatal("expected provider error to propagate")
	}
	if len(c.data) != 0 {
		t.Error("failed summarization must not populate the cache")
	}
}
