package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// Store persists authorization decision records in SQLite.
//
// The store uses WAL journaling for better concurrent read performance and
// prepared statements for the append path. A single Store is safe for use
// from multiple goroutines.
type Store struct {
	db        *sql.DB
	dbPath    string
	closeOnce sync.Once

	appendStmt *sql.Stmt
}

// StoreConfig configures the event log store.
type StoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// MaxOpenConns limits concurrent connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns limits idle pooled connections.
	// Default: 5
	MaxIdleConns int

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewStore opens (creating if necessary) the event log database.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(0)

	store := &Store{
		db:     db,
		dbPath: cfg.DBPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		path TEXT NOT NULL,
		operation TEXT NOT NULL,
		policy_name TEXT NOT NULL,
		decision TEXT NOT NULL,
		binary_path TEXT NOT NULL DEFAULT '',
		team_id TEXT NOT NULL DEFAULT '',
		cdhash TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_decisions_policy ON decisions(policy_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements pre-compiles the hot-path statements.
func (s *Store) prepareStatements() error {
	stmt, err := s.db.Prepare(`
		INSERT INTO decisions
			(id, timestamp, path, operation, policy_name, decision, binary_path, team_id, cdhash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	s.appendStmt = stmt
	return nil
}

// Append persists one decision record. A missing ID or Timestamp is filled
// in; the stored record is returned.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err := s.appendStmt.ExecContext(ctx,
		rec.ID,
		rec.Timestamp.UnixNano(),
		rec.Path,
		rec.Operation,
		rec.PolicyName,
		rec.Decision,
		rec.BinaryPath,
		rec.TeamID,
		rec.CDHash,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to append decision record: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, path, operation, policy_name, decision, binary_path, team_id, cdhash
		FROM decisions
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var ts int64
		if err := rows.Scan(&rec.ID, &ts, &rec.Path, &rec.Operation, &rec.PolicyName,
			&rec.Decision, &rec.BinaryPath, &rec.TeamID, &rec.CDHash); err != nil {
			return nil, fmt.Errorf("failed to scan decision record: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count decision records: %w", err)
	}
	return count, nil
}

// DeleteOlderThan deletes records with timestamps before cutoff and returns
// the number deleted.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM decisions WHERE timestamp < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old records: %w", err)
	}
	return res.RowsAffected()
}

// TrimToMax deletes the oldest records beyond max and returns the number
// deleted.
func (s *Store) TrimToMax(ctx context.Context, max int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM decisions WHERE id IN (
			SELECT id FROM decisions
			ORDER BY timestamp DESC
			LIMIT -1 OFFSET ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to trim records: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database resources. It is safe to call multiple times.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.appendStmt != nil {
			s.appendStmt.Close()
		}
		err = s.db.Close()
	})
	return err
}
