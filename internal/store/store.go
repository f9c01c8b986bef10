// Package store persists transcripts, signatures and evidence. The engine
// depends on one consistency guarantee: a transcript's signature upsert and
// evidence replacement appear atomic to any concurrent reader, so a reader
// never sees a signature from one lexicon version paired with receipts from
// another.
package store

import (
	"context"

	"github.com/digitalpulpit/pulpit/internal/model"
)

// Store is the persistence seam the engine writes through. Implementations
// may be backed by any transactional engine that preserves the atomic
// signature+evidence replacement.
type Store interface {
	// UpsertTranscript inserts or refreshes a transcript row.
	UpsertTranscript(ctx context.Context, t *model.Transcript) error

	// GetTranscript returns the transcript, or nil if unknown.
	GetTranscript(ctx context.Context, id string) (*model.Transcript, error)

	// ListTranscripts returns transcripts newest-first. With recompute false,
	// transcripts that already have a signature are skipped. ids narrows the
	// result to specific transcripts; limit <= 0 means no limit.
	ListTranscripts(ctx context.Context, limit int, recompute bool, ids []string) ([]model.Transcript, error)

	// SaveSummary stores a generated clean summary on the transcript.
	SaveSummary(ctx context.Context, id, summary string) error

	// SaveAnalysis upserts the signature and replaces the transcript's
	// evidence set in one transaction. Re-running it for the same transcript
	// leaves exactly one signature and one evidence set.
	SaveAnalysis(ctx context.Context, sig *model.Signature, evidence []model.Evidence) error

	// GetSignature returns the current signature, or nil if never scored.
	GetSignature(ctx context.Context, id string) (*model.Signature, error)

	// History returns up to limit prior signatures for a channel, newest
	// first, excluding excludeID (the item being classified).
	History(ctx context.Context, channelID, excludeID string, limit int) ([]model.Signature, error)

	// ListSignatures returns signatures published at or after since (all
	// when since is empty), newest first; limit <= 0 means no limit.
	ListSignatures(ctx context.Context, since string, limit int) ([]model.Signature, error)

	// Evidence returns the stored receipts for a transcript, in insertion
	// order.
	Evidence(ctx context.Context, id string) ([]model.Evidence, error)

	Close() error
}
