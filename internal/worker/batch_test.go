package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/digitalpulpit/pulpit/internal/model"
	"github.com/digitalpulpit/pulpit/internal/pipeline"
)

type fakeAnalyzer struct {
	calls   int32
	failFor map[string]bool
	delay   time.Duration
}

func (a *fakeAnalyzer) AnalyzeTranscript(ctx context.Context, transcriptID string) (*pipeline.AnalysisResult, error) {
	atomic.AddInt32(&a.calls, 1)
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.failFor[transcriptID] {
		return nil, errors.New("analysis failed")
	}
	return &pipeline.AnalysisResult{
		Signature: &model.Signature{TranscriptID: transcriptID},
	}, nil
}

func TestBatchProcessor_ProcessTranscripts(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	b := NewBatchProcessor(analyzer, 3)

	ids := []string{"t1", "t2", "t3", "t4"}
	results := b.ProcessTranscripts(context.Background(), ids)

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}
	if atomic.LoadInt32(&analyzer.calls) != int32(len(ids)) {
		t.Errorf("expected %d analyses, got %d", len(ids), analyzer.calls)
	}

	seen := make(map[string]bool)
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.TranscriptID, res.Error)
		}
		if res.Analysis == nil || res.Analysis.Signature.TranscriptID != res.TranscriptID {
			t.Errorf("result/signature mismatch: %+v", res)
		}
		seen[res.TranscriptID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("missing result for %s", id)
		}
	}
}

func TestBatchProcessor_DeduplicatesIDs(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	b := NewBatchProcessor(analyzer, 2)

	results := b.ProcessTranscripts(context.Background(), []string{"t1", "t1", "", "t2", "t1"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results after dedupe, got %d", len(results))
	}
	if atomic.LoadInt32(&analyzer.calls) != 2 {
		t.Errorf("expected 2 analyses, got %d", analyzer.calls)
	}
}

func TestBatchProcessor_PartialFailure(t *testing.T) {
	analyzer := &fakeAnalyzer{failFor: map[string]bool{"bad": true}}
	b := NewBatchProcessor(analyzer, 2)

	results := b.ProcessTranscripts(context.Background(), []string{"good", "bad"})

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			if res.TranscriptID != "bad" {
				t.Errorf("wrong transcript failed: %s", res.TranscriptID)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := NewBatchProcessor(&fakeAnalyzer{}, 2)
	if results := b.ProcessTranscripts(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBatchProcessor_FullCorpus(t *testing.T) {
	// A season's worth of transcripts through a small pool: every ID must
	// come back even though the batch far exceeds the pool's channel buffers.
	analyzer := &fakeAnalyzer{}
	b := NewBatchProcessor(analyzer, 4)

	count := 120
	ids := make([]string, count)
	for i := range ids {
		ids[i] = fmt.Sprintf("sermon-%03d", i)
	}

	done := make(chan []*AnalyzeResult, 1)
	go func() { done <- b.ProcessTranscripts(context.Background(), ids) }()

	var results []*AnalyzeResult
	select {
	case results = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("batch stalled on a corpus larger than the pool buffers")
	}

	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&analyzer.calls) != int32(count) {
		t.Errorf("expected %d analyses, got %d", count, analyzer.calls)
	}
	seen := make(map[string]bool, count)
	for _, res := range results {
		seen[res.TranscriptID] = true
	}
	if len(seen) != count {
		t.Errorf("expected %d distinct transcripts, got %d", count, len(seen))
	}
}

func TestBatchProcessor_ContextCancelStopsWork(t *testing.T) {
	analyzer := &fakeAnalyzer{delay: 50 * time.Millisecond}
	b := NewBatchProcessor(analyzer, 1)

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%d", i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(75*time.Millisecond, cancel)

	done := make(chan []*AnalyzeResult, 1)
	go func() { done <- b.ProcessTranscripts(ctx, ids) }()

	select {
	case results := <-done:
		if atomic.LoadInt32(&analyzer.calls) == int32(len(ids)) {
			t.Error("cancellation did not stop queued analyses")
		}
		for _, res := range results {
			if res.Error != nil && !errors.Is(res.Error, context.Canceled) {
				t.Errorf("unexpected error for %s: %v", res.TranscriptID, res.Error)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not return after context cancellation")
	}
}
