package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"bayes/internal/port"
)

// SQLiteStore keeps models in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		dbPath: path,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to set WAL mode: %w", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS models (
			name TEXT PRIMARY KEY,
			state BLOB NOT NULL,
			config_hash TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS schema_info (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version INTEGER NOT NULL
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute init query: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Save(rec port.ModelRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("model name is empty")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO models (name, state, config_hash, updated_at)
		VALUES (?, ?, ?, ?)
	`, rec.Name, rec.State, rec.ConfigHash, rec.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", rec.Name, err)
	}
	return nil
}

func (s *SQLiteStore) Load(name string) (port.ModelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := port.ModelRecord{Name: name}
	var updatedAt int64
	err := s.db.QueryRow(`
		SELECT state, config_hash, updated_at FROM models WHERE name = ?
	`, name).Scan(&rec.State, &rec.ConfigHash, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return port.ModelRecord{}, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
		return port.ModelRecord{}, fmt.Errorf("failed to load model %s: %w", name, err)
	}
	rec.UpdatedAt = time.Unix(updatedAt, 0)
	return rec, nil
}

func (s *SQLiteStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM models WHERE name = ?", name)
	return err
}

func (s *SQLiteStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT name FROM models ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) SchemaVersion() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_info WHERE id = 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

func (s *SQLiteStore) SetSchemaVersion(v int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR REPLACE INTO schema_info (id, version) VALUES (1, ?)`, v)
	return err
}

// Migrate records CurrentSchemaVersion. The SQLite layout has not changed
// since it was introduced at v2.
func (s *SQLiteStore) Migrate() error {
	result, err := CheckMigration(s)
	if err != nil {
		return err
	}
	if result.Incompatible {
		return fmt.Errorf("failed to migrate: %s", result.Reason)
	}
	if !result.NeedsMigration {
		return nil
	}
	return s.SetSchemaVersion(CurrentSchemaVersion)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
