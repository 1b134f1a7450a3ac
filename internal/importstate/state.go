// Package importstate remembers which export files have already been
// imported so batch runs can skip them.
package importstate

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB tracks imported files by path, size and content hash.
type DB struct {
	db *sql.DB
}

// Entry is one recorded import.
type Entry struct {
	Path       string
	Size       int64
	Hash       string
	Sessions   int64
	ImportedAt time.Time
}

// Open opens (or creates) the SQLite state database at dir/state.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS imported_files (
		path        TEXT PRIMARY KEY,
		size        INTEGER NOT NULL,
		hash        TEXT NOT NULL,
		sessions    INTEGER NOT NULL DEFAULT 0,
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &DB{db: db}, nil
}

// IsImported checks if a file has already been imported with the same size and hash.
func (s *DB) IsImported(path string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM imported_files WHERE path = ? AND size = ? AND hash = ?`,
		path, size, hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return count > 0, nil
}

// MarkImported records that a file was successfully imported.
func (s *DB) MarkImported(path string, size int64, hash string, sessions int64) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO imported_files (path, size, hash, sessions, imported_at)
		 VALUES (?, ?, ?, ?, ?)`,
		path, size, hash, sessions, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("marking %s: %w", path, err)
	}
	return nil
}

// List returns all recorded imports, newest first.
func (s *DB) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT path, size, hash, sessions, imported_at FROM imported_files
		 ORDER BY imported_at DESC, path ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Size, &e.Hash, &e.Sessions, &e.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes the record for path so the next run imports it again.
func (s *DB) Forget(path string) error {
	if _, err := s.db.Exec(`DELETE FROM imported_files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("forgetting %s: %w", path, err)
	}
	return nil
}

// Close closes the state database.
func (s *DB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
