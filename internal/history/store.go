// Package history persists the target URLs entered on the attack page.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// ErrEmptyURL is returned when recording a blank URL.
var ErrEmptyURL = errors.New("history: empty url")

// Store keeps recently used target URLs in DuckDB.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
	schema SchemaInfo
	now    func() time.Time
}

// NewStore opens or creates the history database. An empty dbPath keeps the
// history in memory.
func NewStore(dbPath string) (*Store, error) {
	dsn := ""
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("history: mkdir: %w", err)
		}
		dsn = dbPath
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	schema, err := upgradeSchema(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dbPath: dbPath, schema: schema, now: time.Now}, nil
}

// Schema reports the schema version and the steps this open applied.
func (s *Store) Schema() SchemaInfo { return s.schema }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the on-disk location, empty for an in-memory store.
func (s *Store) DBPath() string { return s.dbPath }

// Record notes that url was used as a target just now.
func (s *Store) Record(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("INSERT INTO target_urls (url, used_at) VALUES (?, ?)", url, s.now().UTC()); err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns up to limit distinct URLs, most recently used first.
func (s *Store) Recent(limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT url FROM target_urls
		GROUP BY url
		ORDER BY MAX(id) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// Prune deletes entries older than the cutoff and returns how many were
// removed.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().UTC().Add(-olderThan)
	res, err := s.db.Exec("DELETE FROM target_urls WHERE used_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return res.RowsAffected()
}
