// Copyright Redwood Labs, 2026. All rights reserved.

// Package history keeps a local SQLite log of dispatched conversions.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

const defaultListLimit = 20

// Store manages the conversion-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dbPath, creating the schema if
// it does not exist.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			from_format TEXT NOT NULL,
			to_format TEXT NOT NULL,
			mode TEXT NOT NULL,
			inputs TEXT,
			outputs TEXT,
			status TEXT NOT NULL,
			error TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one job. Inputs and outputs are stored as JSON arrays.
func (s *Store) Record(ctx context.Context, job types.Job) error {
	inputs, err := json.Marshal(job.Inputs)
	if err != nil {
		return fmt.Errorf("encoding inputs: %w", err)
	}
	outputs, err := json.Marshal(job.Outputs)
	if err != nil {
		return fmt.Errorf("encoding outputs: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, from_format, to_format, mode, inputs, outputs, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.From, job.To, job.Mode, string(inputs), string(outputs),
		string(job.Status), job.Error, job.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting job %s: %w", job.ID, err)
	}
	return nil
}

// List returns the most recent jobs, newest first. A non-positive limit
// uses the default (20).
func (s *Store) List(ctx context.Context, limit int) ([]types.Job, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_format, to_format, mode, inputs, outputs, status, error, created_at
		 FROM jobs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var job types.Job
		var inputs, outputs, status, createdAt string
		if err := rows.Scan(&job.ID, &job.From, &job.To, &job.Mode,
			&inputs, &outputs, &status, &job.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &job.Inputs); err != nil {
			return nil, fmt.Errorf("decoding inputs for %s: %w", job.ID, err)
		}
		if err := json.Unmarshal([]byte(outputs), &job.Outputs); err != nil {
			return nil, fmt.Errorf("decoding outputs for %s: %w", job.ID, err)
		}
		job.Status = types.JobStatus(status)
		if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			job.CreatedAt = t
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
