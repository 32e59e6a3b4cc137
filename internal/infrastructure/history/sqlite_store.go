package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// timestampLayout sorts lexically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

var schema = []string{`CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	command TEXT NOT NULL,
	exit_code INTEGER,
	cwd TEXT,
	model TEXT,
	cause TEXT,
	fix TEXT,
	succeeded INTEGER,
	from_cache INTEGER,
	duration_ms INTEGER
)`,
	`CREATE INDEX IF NOT EXISTS analyses_timestamp ON analyses(timestamp)`,
}

// SQLiteStore persists the analysis log in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open returns a SQLite-backed log at path, falling back to a JSON lines
// file next to it when the database cannot be opened.
func Open(path string) ports.AnalysisRepository {
	store, err := NewSQLiteStore(path)
	if err != nil {
		return NewFileStore(path + ".jsonl")
	}
	return store
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init analysis log: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts a new record, assigning an ID and timestamp when missing.
func (s *SQLiteStore) Save(record domain.AnalysisRecord) error {
	record = stamp(record)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO analyses
		(id, timestamp, command, exit_code, cwd, model, cause, fix, succeeded, from_cache, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(timestampLayout),
		record.Command,
		record.ExitCode,
		record.WorkingDir,
		record.Model,
		record.Cause,
		record.Fix,
		boolToInt(record.Succeeded),
		boolToInt(record.FromCache),
		record.DurationMS,
	)
	return err
}

// Records returns the newest entries first; limit <= 0 returns everything.
func (s *SQLiteStore) Records(limit int) ([]domain.AnalysisRecord, error) {
	query := `SELECT id, timestamp, command, exit_code, cwd, model, cause, fix, succeeded, from_cache, duration_ms
		FROM analyses ORDER BY timestamp DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AnalysisRecord
	for rows.Next() {
		var rec domain.AnalysisRecord
		var ts string
		var succeeded, fromCache int
		if err := rows.Scan(&rec.ID, &ts, &rec.Command, &rec.ExitCode, &rec.WorkingDir, &rec.Model,
			&rec.Cause, &rec.Fix, &succeeded, &fromCache, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Succeeded = succeeded == 1
		rec.FromCache = fromCache == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all entries.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM analyses")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func stamp(record domain.AnalysisRecord) domain.AnalysisRecord {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	return record
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.AnalysisRepository = (*SQLiteStore)(nil)
