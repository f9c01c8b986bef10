package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/digitalpulpit/pulpit/internal/model"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transcripts (
    transcript_id TEXT PRIMARY KEY,
    channel_id    TEXT,
    title         TEXT,
    published_at  TEXT,
    full_text     TEXT NOT NULL,
    summary_text  TEXT,
    word_count    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS signatures (
    transcript_id   TEXT PRIMARY KEY,
    channel_id      TEXT,
    published_at    TEXT,
    lexicon_version TEXT NOT NULL,
    density         REAL NOT NULL,
    raw_json        TEXT NOT NULL,
    analyzed_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (transcript_id) REFERENCES transcripts(transcript_id)
);
CREATE INDEX IF NOT EXISTS idx_signatures_channel ON signatures(channel_id, published_at);

CREATE TABLE IF NOT EXISTS evidence (
    evidence_id   INTEGER PRIMARY KEY AUTOINCREMENT,
    transcript_id TEXT NOT NULL,
    channel_id    TEXT,
    axis          TEXT,
    category      TEXT,
    keyword       TEXT,
    excerpt       TEXT NOT NULL,
    start_char    INTEGER,
    FOREIGN KEY (transcript_id) REFERENCES transcripts(transcript_id)
);
CREATE INDEX IF NOT EXISTS idx_evidence_transcript ON evidence(transcript_id);
CREATE INDEX IF NOT EXISTS idx_evidence_category ON evidence(category);
`

// SQLite is the default Store, backed by a single-file embedded database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the corpus database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000; PRAGMA foreign_keys=ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// UpsertTranscript inserts or refreshes a transcript row. An existing clean
// summary survives re-ingestion unless the new row carries its own.
func (s *SQLite) UpsertTranscript(ctx context.Context, t *model.Transcript) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO transcripts (transcript_id, channel_id, title, published_at, full_text, summary_text, word_count)
        VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?)
        ON CONFLICT(transcript_id) DO UPDATE SET
            channel_id   = excluded.channel_id,
            title        = excluded.title,
            published_at = excluded.published_at,
            full_text    = excluded.full_text,
            summary_text = COALESCE(excluded.summary_text, transcripts.summary_text),
            word_count   = excluded.word_count
    `, t.ID, t.ChannelID, t.Title, t.PublishedAt, t.FullText, t.SummaryText, t.WordCount)
	if err != nil {
		return fmt.Errorf("upsert transcript %s: %w", t.ID, err)
	}
	return nil
}

// GetTranscript returns the transcript, or nil if unknown.
func (s *SQLite) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT transcript_id, COALESCE(channel_id, ''), COALESCE(title, ''),
               COALESCE(published_at, ''), full_text, COALESCE(summary_text, ''), word_count
        FROM transcripts WHERE transcript_id = ?
    `, id)
	var t model.Transcript
	err := row.Scan(&t.ID, &t.ChannelID, &t.Title, &t.PublishedAt, &t.FullText, &t.SummaryText, &t.WordCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript %s: %w", id, err)
	}
	return &t, nil
}

// ListTranscripts returns transcripts newest-first; see Store.
func (s *SQLite) ListTranscripts(ctx context.Context, limit int, recompute bool, ids []string) ([]model.Transcript, error) {
	q := `
        SELECT t.transcript_id, COALESCE(t.channel_id, ''), COALESCE(t.title, ''),
               COALESCE(t.published_at, ''), t.full_text, COALESCE(t.summary_text, ''), t.word_count
        FROM transcripts t`
	var args []any
	where := ""
	if !recompute {
		q += ` LEFT JOIN signatures sg ON sg.transcript_id = t.transcript_id`
		where = " WHERE sg.transcript_id IS NULL"
	}
	if len(ids) > 0 {
		placeholders := ""
		for i, id := range ids {
			if i > 0 {
				placeholders += ","
			}
			placeholders += "?"
			args = append(args, id)
		}
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += "t.transcript_id IN (" + placeholders + ")"
	}
	q += where + " ORDER BY t.published_at DESC, t.transcript_id"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transcript
	for rows.Next() {
		var t model.Transcript
		if err := rows.Scan(&t.ID, &t.ChannelID, &t.Title, &t.PublishedAt, &t.FullText, &t.SummaryText, &t.WordCount); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveSummary stores a generated clean summary on the transcript.
func (s *SQLite) SaveSummary(ctx context.Context, id, summary string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE transcripts SET summary_text = ? WHERE transcript_id = ?`, summary, id)
	if err != nil {
		return fmt.Errorf("save summary %s: %w", id, err)
	}
	return nil
}

// SaveAnalysis upserts the signature and replaces the transcript's evidence
// in a single transaction, keeping re-scoring idempotent: one signature, one
// evidence set, never an accumulation.
func (s *SQLite) SaveAnalysis(ctx context.Context, sig *model.Signature, evidence []model.Evidence) error {
	raw, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal signature %s: %w", sig.TranscriptID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO signatures (transcript_id, channel_id, published_at, lexicon_version, density, raw_json, analyzed_at)
        VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(transcript_id) DO UPDATE SET
            channel_id      = excluded.channel_id,
            published_at    = excluded.published_at,
            lexicon_version = excluded.lexicon_version,
            density         = excluded.density,
            raw_json        = excluded.raw_json,
            analyzed_at     = CURRENT_TIMESTAMP
    `, sig.TranscriptID, sig.ChannelID, sig.PublishedAt, sig.LexiconVersion, sig.Density, string(raw))
	if err != nil {
		return fmt.Errorf("upsert signature %s: %w", sig.TranscriptID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM evidence WHERE transcript_id = ?`, sig.TranscriptID); err != nil {
		return fmt.Errorf("clear evidence %s: %w", sig.TranscriptID, err)
	}
	for _, ev := range evidence {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO evidence (transcript_id, channel_id, axis, category, keyword, excerpt, start_char)
            VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?)
        `, sig.TranscriptID, sig.ChannelID, ev.Axis, ev.Category, ev.Keyword, ev.Excerpt, ev.StartChar)
		if err != nil {
			return fmt.Errorf("insert evidence %s: %w", sig.TranscriptID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit analysis %s: %w", sig.TranscriptID, err)
	}
	return nil
}

// GetSignature returns the current signature, or nil if never scored.
func (s *SQLite) GetSignature(ctx context.Context, id string) (*model.Signature, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT raw_json FROM signatures WHERE transcript_id = ?`, id)
	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get signature %s: %w", id, err)
	}
	return unmarshalSignature(raw)
}

// History returns up to limit prior signatures for a channel, newest first.
func (s *SQLite) History(ctx context.Context, channelID, excludeID string, limit int) ([]model.Signature, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT raw_json FROM signatures
        WHERE channel_id = ? AND transcript_id != ?
        ORDER BY published_at DESC, transcript_id
        LIMIT ?
    `, channelID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", channelID, err)
	}
	return scanSignatures(rows)
}

// ListSignatures returns signatures published at or after since, newest first.
func (s *SQLite) ListSignatures(ctx context.Context, since string, limit int) ([]model.Signature, error) {
	q := `SELECT raw_json FROM signatures`
	var args []any
	if since != "" {
		q += ` WHERE published_at >= ?`
		args = append(args, since)
	}
	q += ` ORDER BY published_at DESC, transcript_id`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	return scanSignatures(rows)
}

// Evidence returns the stored receipts for a transcript, in insertion order.
func (s *SQLite) Evidence(ctx context.Context, id string) ([]model.Evidence, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT transcript_id, COALESCE(channel_id, ''), COALESCE(axis, ''),
               COALESCE(category, ''), COALESCE(keyword, ''), excerpt, COALESCE(start_char, 0)
        FROM evidence WHERE transcript_id = ? ORDER BY evidence_id
    `, id)
	if err != nil {
		return nil, fmt.Errorf("evidence %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Evidence
	for rows.Next() {
		var ev model.Evidence
		if err := rows.Scan(&ev.TranscriptID, &ev.ChannelID, &ev.Axis, &ev.Category, &ev.Keyword, &ev.Excerpt, &ev.StartChar); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanSignatures(rows *sql.Rows) ([]model.Signature, error) {
	defer func() { _ = rows.Close() }()
	var out []model.Signature
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		sig, err := unmarshalSignature(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *sig)
	}
	return out, rows.Err()
}

func unmarshalSignature(raw string) (*model.Signature, error) {
	var sig model.Signature
	if err := json.Unmarshal([]byte(raw), &sig); err != nil {
		return nil, fmt.Errorf("unmarshal signature: %w", err)
	}
	return &sig, nil
}
