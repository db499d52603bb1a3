package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/topi314/gomigrate"
	"github.com/topi314/gomigrate/drivers/sqlite"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound reports an absent key. Storage failures are returned as-is;
// callers must treat them as "absent" and never crash on them.
var ErrNotFound = errors.New("session: key not found")

type Config struct {
	// Path is the on-device database file holding session state. The file
	// plays the role a mobile key-value store would.
	Path string `toml:"path" env:"CAMPUSCLUB_SESSION_PATH"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Path: %s", c.Path)
}

func New(cfg Config) (*Store, error) {
	dbx, err := sqlx.Connect("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = gomigrate.Migrate(ctx, dbx, sqlite.New, migrations); err != nil {
		return nil, fmt.Errorf("failed to run session store migrations: %w", err)
	}

	return &Store{db: dbx}, nil
}

// Store is the persistent device key-value store. Writes are rare and
// user-serialized (one session per device), so last-write-wins is fine.
type Store struct {
	db *sqlx.DB
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close session store: %w", err)
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM session_values WHERE key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session value: %w", err)
	}
	return value, nil
}

// Set stores value under key. After Set returns nil an immediate Get of the
// same key observes the new value.
func (s *Store) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set session value: %w", err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session_values WHERE key = $1", key)
	if err != nil {
		return fmt.Errorf("failed to remove session value: %w", err)
	}
	return nil
}

// Clear wipes every key. Used on logout.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session_values")
	if err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	return nil
}
