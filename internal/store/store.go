// Package store persists pipeline state in SQLite: the CIK-RSSD mapping
// cache (fuzzy matching is the slow step, so its result is reused across
// runs) and a log of pipeline runs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"bankpanel/internal/logging"
	"bankpanel/internal/match"
)

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	log := logging.Get(logging.CategoryStore)
	log.Info("opening store at %s", path)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	mappingTable := `
	CREATE TABLE IF NOT EXISTS cik_rssd_mapping (
		cik TEXT NOT NULL,
		rssd_id TEXT NOT NULL,
		edgar_name TEXT NOT NULL,
		ffiec_name TEXT NOT NULL,
		match_score INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(cik, rssd_id)
	);
	CREATE INDEX IF NOT EXISTS idx_mapping_rssd ON cik_rssd_mapping(rssd_id);
	CREATE INDEX IF NOT EXISTS idx_mapping_cik ON cik_rssd_mapping(cik);
	`

	runsTable := `
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		id TEXT PRIMARY KEY,
		step TEXT NOT NULL,
		records INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_step ON pipeline_runs(step);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON pipeline_runs(created_at);
	`

	for _, table := range []string{mappingTable, runsTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	logging.Get(logging.CategoryStore).Info("closing store")
	return s.db.Close()
}

// SaveMapping replaces the cached CIK-RSSD mapping.
func (s *Store) SaveMapping(mappings []match.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cik_rssd_mapping"); err != nil {
		return fmt.Errorf("failed to clear mapping: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO cik_rssd_mapping (cik, rssd_id, edgar_name, ffiec_name, match_score)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range mappings {
		if _, err := stmt.Exec(m.CIK, m.RSSDID, m.EdgarName, m.FFIECName, m.Score); err != nil {
			return fmt.Errorf("failed to insert mapping: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mapping: %w", err)
	}

	logging.Get(logging.CategoryStore).Info("saved %d mappings", len(mappings))
	return nil
}

// LoadMapping returns the cached CIK-RSSD mapping, or nil when the cache
// is empty.
func (s *Store) LoadMapping() ([]match.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT cik, rssd_id, edgar_name, ffiec_name, match_score
		FROM cik_rssd_mapping ORDER BY rssd_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mapping: %w", err)
	}
	defer rows.Close()

	var mappings []match.Mapping
	for rows.Next() {
		var m match.Mapping
		if err := rows.Scan(&m.CIK, &m.RSSDID, &m.EdgarName, &m.FFIECName, &m.Score); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}
	return mappings, nil
}

// ClearMapping discards the cached mapping, forcing a rebuild.
func (s *Store) ClearMapping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM cik_rssd_mapping"); err != nil {
		return fmt.Errorf("failed to clear mapping: %w", err)
	}
	return nil
}

// Run records one pipeline step execution.
type Run struct {
	ID       string
	Step     string
	Records  int
	Duration time.Duration
	Status   string
	Error    string
}

// RecordRun logs a pipeline step to the runs table and returns its id.
func (s *Store) RecordRun(step string, records int, duration time.Duration, runErr error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	status := "ok"
	errMsg := ""
	if runErr != nil {
		status = "error"
		errMsg = runErr.Error()
	}

	_, err := s.db.Exec(`
		INSERT INTO pipeline_runs (id, step, records, duration_ms, status, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, step, records, duration.Milliseconds(), status, errMsg)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RecentRuns returns the most recent pipeline runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, step, records, duration_ms, status, COALESCE(error, '')
		FROM pipeline_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &r.Step, &r.Records, &ms, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetStats returns row counts per table.
func (s *Store) GetStats() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int64)
	for _, table := range []string{"cik_rssd_mapping", "pipeline_runs"} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			continue
		}
		stats[table] = count
	}
	return stats, nil
}
