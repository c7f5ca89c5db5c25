package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/po-toolkit/jira-reports/internal/report"
)

// Run is one recorded report execution.
type Run struct {
	ID         string    `db:"id"`
	Report     string    `db:"report"`
	JQL        string    `db:"jql"`
	IssueCount int       `db:"issue_count"`
	OutputPath string    `db:"output_path"`
	StartedAt  time.Time `db:"started_at"`
	DurationMS int64     `db:"duration_ms"`
}

// Store keeps a local run history in a SQLite database.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the history database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Record persists one report run.
func (s *Store) Record(ctx context.Context, summary report.RunSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, report, jql, issue_count, output_path, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), summary.Report, summary.JQL, summary.IssueCount,
		summary.OutputPath, summary.StartedAt.UTC(), summary.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording run for %s: %w", summary.Report, err)
	}
	return nil
}

// Recent returns the last n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		n = 10
	}

	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		"SELECT * FROM runs ORDER BY started_at DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	return runs, nil
}
