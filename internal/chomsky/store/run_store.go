package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/arcanequest/foundation/arcane"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
)

// Run is the recorded outcome of one analysis
type Run struct {
	ID         string        `json:"id" yaml:"id"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Name       string        `json:"name" yaml:"name"`
	Tokens     int           `json:"tokens" yaml:"tokens"`
	Statements int           `json:"statements" yaml:"statements"`
	Lexical    int           `json:"lexical" yaml:"lexical"`
	Syntax     int           `json:"syntax" yaml:"syntax"`
	Semantic   int           `json:"semantic" yaml:"semantic"`
	Internal   int           `json:"internal" yaml:"internal"`
	Duration   time.Duration `json:"duration" yaml:"duration"`

	// Diagnostics are loaded by Get only
	Diagnostics diag.List `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Valid reports whether the run had no diagnostics
func (r *Run) Valid() bool {
	return r.Lexical+r.Syntax+r.Semantic+r.Internal == 0
}

// RunFromResult converts a pipeline result into a history record
func RunFromResult(res *arcane.Result) *Run {
	return &Run{
		ID:          res.RunID,
		Timestamp:   res.Started,
		Name:        res.Name,
		Tokens:      len(res.Tokens),
		Statements:  res.Statements,
		Lexical:     res.Counts[diag.Lexical],
		Syntax:      res.Counts[diag.Syntax],
		Semantic:    res.Counts[diag.Semantic],
		Internal:    res.Counts[diag.Internal],
		Duration:    res.Duration,
		Diagnostics: res.Diagnostics,
	}
}

// RunFilter defines criteria for listing runs
type RunFilter struct {
	Name   string
	Since  time.Time
	Failed bool // only runs with diagnostics
	Limit  int
}

// RunStats summarizes the history
type RunStats struct {
	TotalRuns   int64            `json:"total_runs" yaml:"total_runs"`
	FailedRuns  int64            `json:"failed_runs" yaml:"failed_runs"`
	Diagnostics map[string]int64 `json:"diagnostics" yaml:"diagnostics"`
	LastRun     time.Time        `json:"last_run,omitempty" yaml:"last_run,omitempty"`
}

// RunStore defines the interface for run history persistence
type RunStore interface {
	Record(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	Query(ctx context.Context, filter RunFilter) ([]*Run, error)
	Stats(ctx context.Context) (*RunStats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRunStore implements RunStore using SQLite
type SQLiteRunStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteRunConfig holds configuration for SQLite store
type SQLiteRunConfig struct {
	Path string
}

// DefaultRunConfig returns default configuration
func DefaultRunConfig() SQLiteRunConfig {
	return SQLiteRunConfig{
		Path: "./data/arcq-history.db",
	}
}

func storageError(err error, message, op string) error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeStorage).
		WithOperation(op)
}

// NewSQLiteRunStore opens or creates the history database
func NewSQLiteRunStore(cfg SQLiteRunConfig) (*SQLiteRunStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storageError(err, "failed to create directory", "store.open")
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open database").
			WithCode(mdwerror.CodeConnectionFailed).
			WithOperation("store.open")
	}

	store := &SQLiteRunStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema", "store.open")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteRunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		name TEXT NOT NULL,
		tokens INTEGER NOT NULL,
		statements INTEGER NOT NULL,
		lexical INTEGER NOT NULL,
		syntax INTEGER NOT NULL,
		semantic INTEGER NOT NULL,
		internal INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS diagnostics (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		line INTEGER NOT NULL,
		origin TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run and its diagnostics in one transaction
func (s *SQLiteRunStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError(err, "failed to begin transaction", "store.record")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, timestamp, name, tokens, statements, lexical, syntax, semantic, internal, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Timestamp.UTC(), run.Name, run.Tokens, run.Statements,
		run.Lexical, run.Syntax, run.Semantic, run.Internal, run.Duration.Milliseconds())
	if err != nil {
		return storageError(err, "failed to insert run", "store.record")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (run_id, seq, line, origin, message)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return storageError(err, "failed to prepare statement", "store.record")
	}
	defer stmt.Close()

	for i, d := range run.Diagnostics {
		if _, err := stmt.ExecContext(ctx, run.ID, i, d.Line, d.Origin.String(), d.Message); err != nil {
			return storageError(err, "failed to insert diagnostic", "store.record")
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError(err, "failed to commit transaction", "store.record")
	}
	return nil
}

const runColumns = `id, timestamp, name, tokens, statements, lexical, syntax, semantic, internal, duration_ms`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var durationMS int64
	if err := row.Scan(&run.ID, &run.Timestamp, &run.Name, &run.Tokens, &run.Statements,
		&run.Lexical, &run.Syntax, &run.Semantic, &run.Internal, &durationMS); err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

// Get returns one run with its diagnostics
func (s *SQLiteRunStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdwerror.Newf("run %s not found", id).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("store.get")
	}
	if err != nil {
		return nil, storageError(err, "failed to load run", "store.get")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT line, origin, message FROM diagnostics WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, storageError(err, "failed to load diagnostics", "store.get")
	}
	defer rows.Close()

	for rows.Next() {
		var d diag.Diagnostic
		var origin string
		if err := rows.Scan(&d.Line, &origin, &d.Message); err != nil {
			return nil, storageError(err, "failed to scan diagnostic", "store.get")
		}
		if d.Origin, _ = diag.ParseOrigin(origin); origin != d.Origin.String() {
			return nil, mdwerror.Newf("run %s has diagnostic with origin %q", id, origin).
				WithCode(mdwerror.CodeDataCorruption).
				WithOperation("store.get")
		}
		run.Diagnostics = append(run.Diagnostics, d)
	}
	return run, rows.Err()
}

// Query lists runs newest first
func (s *SQLiteRunStore) Query(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Name != "" {
		query += " AND name = ?"
		args = append(args, filter.Name)
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}
	if filter.Failed {
		query += " AND lexical + syntax + semantic + internal > 0"
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query runs", "store.query")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, storageError(err, "failed to scan run", "store.query")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats returns history statistics
func (s *SQLiteRunStore) Stats(ctx context.Context) (*RunStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &RunStats{Diagnostics: make(map[string]int64)}

	var lexical, syntax, semantic, internal sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN lexical + syntax + semantic + internal > 0 THEN 1 ELSE 0 END), 0),
		       SUM(lexical), SUM(syntax), SUM(semantic), SUM(internal)
		FROM runs
	`).Scan(&stats.TotalRuns, &stats.FailedRuns, &lexical, &syntax, &semantic, &internal)
	if err != nil {
		return nil, storageError(err, "failed to compute statistics", "store.stats")
	}
	stats.Diagnostics[diag.Lexical.String()] = lexical.Int64
	stats.Diagnostics[diag.Syntax.String()] = syntax.Int64
	stats.Diagnostics[diag.Semantic.String()] = semantic.Int64
	stats.Diagnostics[diag.Internal.String()] = internal.Int64

	if stats.TotalRuns > 0 {
		last, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY timestamp DESC LIMIT 1`))
		if err != nil {
			return nil, storageError(err, "failed to load last run", "store.stats")
		}
		stats.LastRun = last.Timestamp
	}
	return stats, nil
}

// Prune removes runs older than the specified duration
func (s *SQLiteRunStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageError(err, "failed to begin transaction", "store.prune")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM diagnostics WHERE run_id IN (SELECT id FROM runs WHERE timestamp < ?)
	`, cutoff); err != nil {
		return 0, storageError(err, "failed to prune diagnostics", "store.prune")
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, storageError(err, "failed to prune runs", "store.prune")
	}
	deleted, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, storageError(err, "failed to commit transaction", "store.prune")
	}
	return deleted, nil
}

// Close closes the database connection
func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}

// MemoryRunStore is an in-memory implementation for testing and for
// history-less servers
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs []*Run
}

// NewMemoryRunStore creates a new in-memory run store
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{}
}

// Record stores a copy of run
func (s *MemoryRunStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	for _, r := range s.runs {
		if r.ID == run.ID {
			return mdwerror.Newf("run %s already recorded", run.ID).
				WithCode(mdwerror.CodeStorage).
				WithOperation("store.record")
		}
	}
	cp := *run
	cp.Diagnostics = append(diag.List(nil), run.Diagnostics...)
	s.runs = append(s.runs, &cp)
	return nil
}

// Get returns one run with its diagnostics
func (s *MemoryRunStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.runs {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, mdwerror.Newf("run %s not found", id).
		WithCode(mdwerror.CodeNotFound).
		WithOperation("store.get")
}

// Query lists runs newest first
func (s *MemoryRunStore) Query(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Run
	for _, r := range s.runs {
		if filter.Name != "" && r.Name != filter.Name {
			continue
		}
		if !filter.Since.IsZero() && r.Timestamp.Before(filter.Since) {
			continue
		}
		if filter.Failed && r.Valid() {
			continue
		}
		cp := *r
		cp.Diagnostics = nil
		results = append(results, &cp)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}
	return results, nil
}

// Stats returns history statistics
func (s *MemoryRunStore) Stats(ctx context.Context) (*RunStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &RunStats{Diagnostics: map[string]int64{
		diag.Lexical.String(): 0, diag.Syntax.String(): 0,
		diag.Semantic.String(): 0, diag.Internal.String(): 0,
	}}
	for _, r := range s.runs {
		stats.TotalRuns++
		if !r.Valid() {
			stats.FailedRuns++
		}
		stats.Diagnostics[diag.Lexical.String()] += int64(r.Lexical)
		stats.Diagnostics[diag.Syntax.String()] += int64(r.Syntax)
		stats.Diagnostics[diag.Semantic.String()] += int64(r.Semantic)
		stats.Diagnostics[diag.Internal.String()] += int64(r.Internal)
		if r.Timestamp.After(stats.LastRun) {
			stats.LastRun = r.Timestamp
		}
	}
	return stats, nil
}

// Prune removes old runs
func (s *MemoryRunStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var deleted int64

	kept := make([]*Run, 0, len(s.runs))
	for _, r := range s.runs {
		if r.Timestamp.After(cutoff) {
			kept = append(kept, r)
		} else {
			deleted++
		}
	}
	s.runs = kept
	return deleted, nil
}

// Close is a no-op for memory store
func (s *MemoryRunStore) Close() error {
	return nil
}
