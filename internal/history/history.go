// Package history journals completed processing runs.
//
// The journal is optional. When no database is configured the wizard records
// into Nop and nothing is persisted. Journal failures never affect the
// workflow; callers log them and move on.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Run is one completed processing run.
type Run struct {
	ID             uuid.UUID
	SourceName     string
	AnalysisHandle string
	ProcessedFile  string
	Options        core.ProcessingOptions
	InitialRows    int
	FinalRows      int
	RecordedAt     time.Time
}

// NewRun stamps a run with a fresh ID and the current time.
func NewRun(source, analysisHandle, processedFile string, opts core.ProcessingOptions, stats core.ProcessingStats) Run {
	return Run{
		ID:             uuid.New(),
		SourceName:     source,
		AnalysisHandle: analysisHandle,
		ProcessedFile:  processedFile,
		Options:        opts,
		InitialRows:    stats.InitialRows,
		FinalRows:      stats.FinalRows,
		RecordedAt:     time.Now().UTC(),
	}
}

// Recorder persists runs.
type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// Nop discards every run.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Run) error { return nil }

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS wizard_runs (
	id              UUID PRIMARY KEY,
	source_name     TEXT NOT NULL,
	analysis_handle TEXT NOT NULL,
	processed_file  TEXT NOT NULL,
	options         JSONB NOT NULL,
	initial_rows    INTEGER NOT NULL,
	final_rows      INTEGER NOT NULL,
	recorded_at     TIMESTAMPTZ NOT NULL
)`

const insertSQL = `INSERT INTO wizard_runs
	(id, source_name, analysis_handle, processed_file, options, initial_rows, final_rows, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// PGStore journals runs in Postgres.
type PGStore struct {
	db DBTX
}

// NewPGStore creates the wizard_runs table if needed and returns a store.
func NewPGStore(ctx context.Context, db DBTX) (*PGStore, error) {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("create wizard_runs: %w", err)
	}
	return &PGStore{db: db}, nil
}

// Record inserts a run.
func (s *PGStore) Record(ctx context.Context, run Run) error {
	opts, err := json.Marshal(run.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	_, err = s.db.Exec(ctx, insertSQL,
		run.ID,
		run.SourceName,
		run.AnalysisHandle,
		run.ProcessedFile,
		opts,
		run.InitialRows,
		run.FinalRows,
		run.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *PGStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(ctx, `SELECT id, source_name, analysis_handle, processed_file, options,
		initial_rows, final_rows, recorded_at
		FROM wizard_runs ORDER BY recorded_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r    Run
			opts []byte
		)
		if err := rows.Scan(&r.ID, &r.SourceName, &r.AnalysisHandle, &r.ProcessedFile, &opts,
			&r.InitialRows, &r.FinalRows, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal(opts, &r.Options); err != nil {
			return nil, fmt.Errorf("decode options for %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
