package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"GapDesk/internal/ports"
)

const (
	// KindAnalysis marks a completed batch analysis.
	KindAnalysis = "analysis"
	// KindExport marks a saved export file.
	KindExport = "export"
)

// PostgresLedger keeps a local audit trail of analyses and saved exports.
// All writes are best-effort from the caller's perspective; the TUI logs
// failures and moves on.
type PostgresLedger struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Ledger = (*PostgresLedger)(nil)

// NewPostgresLedger wires a sql.DB implementation.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres and ensures the ledger table exists.
func Open(ctx context.Context, dsn string) (*PostgresLedger, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS gapdesk_ledger (
        id SERIAL PRIMARY KEY,
        project_id TEXT NOT NULL,
        kind TEXT NOT NULL,
        filename TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure ledger table: %w", err)
	}

	return NewPostgresLedger(db), nil
}

// RecordAnalysis stores one completed batch-analysis entry.
func (l *PostgresLedger) RecordAnalysis(ctx context.Context, projectID string) error {
	return l.insert(ctx, projectID, KindAnalysis, "")
}

// RecordExport stores one saved export file entry.
func (l *PostgresLedger) RecordExport(ctx context.Context, projectID, filename string) error {
	return l.insert(ctx, projectID, KindExport, filename)
}

func (l *PostgresLedger) insert(ctx context.Context, projectID, kind, filename string) error {
	if l.db == nil {
		return nil
	}

	query, args, err := l.builder.
		Insert("gapdesk_ledger").
		Columns("project_id", "kind", "filename").
		Values(projectID, kind, filename).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ledger insert: %w", err)
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (l *PostgresLedger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
