// ABOUTME: SQLite-backed history of validation reports for the web view and CLI.
// ABOUTME: Provides record, get, and list-recent operations; recording is always best-effort.

package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/2389-research/galley/texlog"
)

// Entry is one recorded validation run. ULIDs are lexically sortable, so
// the id doubles as a creation-order key.
type Entry struct {
	ID        string
	DocPath   string
	Summary   string
	Success   bool
	Report    *texlog.Report
	CreatedAt time.Time
}

// Store is a SQLite-backed history of validation reports. It is a
// convenience record, never a source of truth: a validation call is
// complete with or without its history row.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			report_id TEXT PRIMARY KEY,
			doc_path TEXT NOT NULL,
			summary TEXT NOT NULL,
			success INTEGER NOT NULL,
			report_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a validation report and returns its new id.
func (s *Store) Record(docPath string, rep *texlog.Report) (string, error) {
	id := ulid.Make().String()

	data, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO reports (report_id, doc_path, summary, success, report_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, docPath, rep.Summary, boolToInt(rep.Success), string(data),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}

// Get returns the entry with the given id, or sql.ErrNoRows wrapped in a
// descriptive error when absent.
func (s *Store) Get(id string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT report_id, doc_path, summary, success, report_json, created_at
		 FROM reports WHERE report_id = ?`, id)
	return scanEntry(row)
}

// ListRecent returns up to limit entries, newest first.
func (s *Store) ListRecent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT report_id, doc_path, summary, success, report_json, created_at
		 FROM reports ORDER BY report_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry      Entry
		success    int
		reportJSON string
		createdAt  string
	)
	if err := row.Scan(&entry.ID, &entry.DocPath, &entry.Summary, &success, &reportJSON, &createdAt); err != nil {
		return nil, fmt.Errorf("scan report row: %w", err)
	}

	entry.Success = success != 0
	var rep texlog.Report
	if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", entry.ID, err)
	}
	entry.Report = &rep

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entry.CreatedAt = ts
	}
	return &entry, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
