package pagesblog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eringen/pagesblog/theme"
)

// Store wraps a SQLite database of key/value settings. The CLI keeps the
// reader's theme preference here.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL with a busy timeout lets the server and the CLI share the file.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// DeleteSetting removes a setting.
func (s *Store) DeleteSetting(key string) error {
	_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// ThemePersister stores the theme preference under theme.StorageKey.
func (s *Store) ThemePersister() theme.Persister {
	return settingPersister{store: s, key: theme.StorageKey}
}

type settingPersister struct {
	store *Store
	key   string
}

func (p settingPersister) Load() (theme.Theme, error) {
	v, err := p.store.GetSetting(p.key)
	if err != nil {
		return theme.Unset, fmt.Errorf("%w: %v", theme.ErrPersistenceUnavailable, err)
	}
	return theme.Theme(v), nil
}

func (p settingPersister) Save(t theme.Theme) error {
	if err := p.store.SetSetting(p.key, string(t)); err != nil {
		return fmt.Errorf("%w: %v", theme.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (p settingPersister) Clear() error {
	if err := p.store.DeleteSetting(p.key); err != nil {
		return fmt.Errorf("%w: %v", theme.ErrPersistenceUnavailable, err)
	}
	return nil
}
