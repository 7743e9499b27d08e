// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runstore persists completed pipeline runs in a local SQLite
// database so demos can replay and compare results without re-invoking the
// agent. It also maintains named monotonic counters used to label
// successive design generations.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/foldlab/protein-research/pkg/types"
)

const dbFile = "runs.db"

// Store manages the run history SQLite database.
type Store struct {
	db      *sql.DB
	dir     string
	maxList int
}

// NewStore opens or creates the run database at dir/runs.db, creating the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxList := cfg.MaxList
	if maxList <= 0 {
		maxList = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxList: maxList}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			entity_id TEXT NOT NULL,
			entity_name TEXT,
			model TEXT,
			degraded INTEGER NOT NULL DEFAULT 0,
			reasons TEXT,
			sections TEXT,
			citations TEXT,
			items TEXT,
			raw_text TEXT,
			elapsed_ms INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_entity_id ON runs(entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun persists one completed pipeline result.
func (s *Store) SaveRun(ctx context.Context, result *types.PipelineResult) error {
	reasonsJSON, _ := json.Marshal(result.Reasons)
	sectionsJSON, _ := json.Marshal(result.Sections)
	citationsJSON, _ := json.Marshal(result.Citations)
	itemsJSON, _ := json.Marshal(result.Items)

	degraded := 0
	if result.Degraded {
		degraded = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, entity_id, entity_name, model, degraded, reasons,
			sections, citations, items, raw_text, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			entity_id=excluded.entity_id, entity_name=excluded.entity_name,
			model=excluded.model, degraded=excluded.degraded,
			reasons=excluded.reasons, sections=excluded.sections,
			citations=excluded.citations, items=excluded.items,
			raw_text=excluded.raw_text, elapsed_ms=excluded.elapsed_ms,
			created_at=excluded.created_at`,
		result.RunID, result.Entity.ID, result.Entity.DisplayName,
		result.Model, degraded, string(reasonsJSON),
		string(sectionsJSON), string(citationsJSON), string(itemsJSON),
		result.RawText, result.Elapsed.Milliseconds(),
		result.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", result.RunID, err)
	}
	return nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	EntityID   string    `json:"entity_id" yaml:"entity_id"`
	EntityName string    `json:"entity_name,omitempty" yaml:"entity_name,omitempty"`
	Model      string    `json:"model,omitempty" yaml:"model,omitempty"`
	Degraded   bool      `json:"degraded" yaml:"degraded"`
	Citations  int       `json:"citations" yaml:"citations"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// ListRuns returns recent runs, newest first, optionally filtered by entity
// identifier. A non-positive limit uses the store default.
func (s *Store) ListRuns(ctx context.Context, entityID string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxList
	}

	query := `SELECT id, entity_id, entity_name, model, degraded, citations, created_at
		FROM runs`
	args := []any{}
	if entityID != "" {
		query += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var (
			sum       RunSummary
			degraded  int
			citations sql.NullString
			createdAt string
		)
		if err := rows.Scan(&sum.RunID, &sum.EntityID, &sum.EntityName,
			&sum.Model, &degraded, &citations, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		sum.Degraded = degraded != 0
		if citations.Valid {
			var cites []types.Citation
			if json.Unmarshal([]byte(citations.String), &cites) == nil {
				sum.Citations = len(cites)
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			sum.CreatedAt = t
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// GetRun loads one stored run by identifier.
func (s *Store) GetRun(ctx context.Context, runID string) (*types.PipelineResult, error) {
	var (
		result    types.PipelineResult
		degraded  int
		reasons   sql.NullString
		sections  sql.NullString
		citations sql.NullString
		items     sql.NullString
		elapsedMS int64
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, entity_id, entity_name, model, degraded, reasons,
			sections, citations, items, raw_text, elapsed_ms, created_at
		 FROM runs WHERE id = ?`, runID,
	).Scan(&result.RunID, &result.Entity.ID, &result.Entity.DisplayName,
		&result.Model, &degraded, &reasons, &sections, &citations, &items,
		&result.RawText, &elapsedMS, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}

	result.Degraded = degraded != 0
	result.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		result.CreatedAt = t
	}
	unmarshalColumn(reasons, &result.Reasons)
	unmarshalColumn(sections, &result.Sections)
	unmarshalColumn(citations, &result.Citations)
	unmarshalColumn(items, &result.Items)
	return &result, nil
}

func unmarshalColumn[T any](col sql.NullString, dst *T) {
	if col.Valid && col.String != "" {
		_ = json.Unmarshal([]byte(col.String), dst)
	}
}

// NextGeneration atomically increments and returns the named counter,
// starting at 1 for a new name. Used to label successive design
// generations for an entity.
func (s *Store) NextGeneration(ctx context.Context, name string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1`, name)
	if err != nil {
		return 0, fmt.Errorf("incrementing counter %s: %w", name, err)
	}

	var value int
	if err := tx.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE name = ?`, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("reading counter %s: %w", name, err)
	}
	return value, tx.Commit()
}
