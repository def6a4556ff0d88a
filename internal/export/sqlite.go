// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSnapshot is returned by Latest when a site has no stored runs.
var ErrNoSnapshot = errors.New("export: no snapshot stored for site")

// Store keeps catalog snapshots in a SQLite database. Each Save adds a run;
// earlier runs are kept so catalogs can be compared over time.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path and its schema.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			site_name TEXT NOT NULL,
			domain TEXT NOT NULL,
			api_endpoint TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			documents INTEGER NOT NULL,
			downloads INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site_name, fetched_at)`,
		`CREATE TABLE IF NOT EXISTS documents (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			public_url TEXT NOT NULL,
			filename TEXT,
			download_path TEXT,
			skipped INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores snap as a new run and returns its ID.
func (s *Store) Save(ctx context.Context, snap Snapshot) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, site_name, domain, api_endpoint, fetched_at, documents, downloads)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, snap.Site.SiteName, snap.Site.Domain, snap.Site.APIEndpoint,
		snap.FetchedAt.UTC().Format(time.RFC3339Nano), snap.Documents, snap.Downloads,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (run_id, position, name, public_url, filename, download_path, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range snap.Entries {
		if _, err := stmt.ExecContext(ctx, runID, e.Position, e.Name, e.URL, e.Filename, e.DownloadPath, e.Skipped); err != nil {
			return "", fmt.Errorf("inserting document %d: %w", e.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Latest returns the most recently fetched snapshot stored for siteName.
func (s *Store) Latest(ctx context.Context, siteName string) (Snapshot, error) {
	var (
		snap      Snapshot
		runID     string
		fetchedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, site_name, domain, api_endpoint, fetched_at, documents, downloads
		 FROM runs WHERE site_name = ? ORDER BY fetched_at DESC LIMIT 1`, siteName,
	).Scan(&runID, &snap.Site.SiteName, &snap.Site.Domain, &snap.Site.APIEndpoint,
		&fetchedAt, &snap.Documents, &snap.Downloads)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%s: %w", siteName, ErrNoSnapshot)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying runs: %w", err)
	}
	if snap.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
		return Snapshot{}, fmt.Errorf("parsing fetched_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, name, public_url, filename, download_path, skipped
		 FROM documents WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	snap.Entries = []Entry{}
	for rows.Next() {
		var (
			e                      Entry
			filename, downloadPath sql.NullString
		)
		if err := rows.Scan(&e.Position, &e.Name, &e.URL, &filename, &downloadPath, &e.Skipped); err != nil {
			return Snapshot{}, fmt.Errorf("scanning document: %w", err)
		}
		e.Filename = filename.String
		e.DownloadPath = downloadPath.String
		snap.Entries = append(snap.Entries, e)
	}
	return snap, rows.Err()
}

// Runs returns the number of runs stored for siteName.
func (s *Store) Runs(ctx context.Context, siteName string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE site_name = ?`, siteName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}
