package worker

import (
	"context"

	"github.com/digitalpulpit/pulpit/internal/pipeline"
)

// Analyzer runs the scoring pipeline for one stored transcript
type Analyzer interface {
	AnalyzeTranscript(ctx context.Context, transcriptID string) (*pipeline.AnalysisResult, error)
}

// AnalyzeJob analyzes one transcript
type AnalyzeJob struct {
	TranscriptID string
	Analyzer     Analyzer
}

// Execute runs the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	analysis, err := j.Analyzer.AnalyzeTranscript(ctx, j.TranscriptID)
	return &AnalyzeResult{
		TranscriptID: j.TranscriptID,
		Analysis:     analysis,
		Error:        err,
	}
}

// AnalyzeResult is the outcome of one analysis job
type AnalyzeResult struct {
	TranscriptID string
	Analysis     *pipeline.AnalysisResult
	Error        error
}

// GetError returns the job error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many transcripts concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessTranscripts analyzes the given transcript IDs concurrently.
// Duplicate IDs are collapsed so a transcript is analyzed at most once per
// batch.
func (b *BatchProcessor) ProcessTranscripts(ctx context.Context, ids []string) []*AnalyzeResult {
	seen := make(map[string]bool, len(ids))
	var unique []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, id := range unique {
		pool.Submit(&AnalyzeJob{
			TranscriptID: id,
			Analyzer:     b.analyzer,
		})
	}

	results := pool.Wait()

	out := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		out[i] = result.(*AnalyzeResult)
	}

	return out
}
