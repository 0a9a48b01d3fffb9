// Package cache persists completed provider calls in a SQLite database so
// repeated runs over the same notebooks do not pay twice for identical
// translations. It plugs in as a provider decorator; orchestration code
// never knows whether an answer came from the network or from disk.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/daekeun-ml/ipynb-translator/provider"
)

// Store is a SQLite-backed translation cache.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the per-user cache database location.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(dir, "ipynb-translator", "translations.db"), nil
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS translations (
		key        TEXT PRIMARY KEY,
		model      TEXT,
		result     TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

// Key derives the cache key for one provider call. The system prompt is
// part of the key because it encodes target language, glossary and
// polishing mode.
func Key(model, system, user string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up a cached result. The second return value reports whether
// the key was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var result string
	err := s.db.QueryRowContext(ctx, "SELECT result FROM translations WHERE key = ?", key).Scan(&result)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache lookup: %w", err)
	}
	return result, true, nil
}

// Put stores a completed call, replacing any previous entry for the key.
func (s *Store) Put(ctx context.Context, key, model, result string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO translations (key, model, result) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET model=excluded.model, result=excluded.result
	`, key, model, result)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}

// cachedProvider consults the store before the wrapped provider and
// records every successful call. Store errors never fail a translation;
// the call simply proceeds uncached.
type cachedProvider struct {
	inner provider.Provider
	store *Store
	model string
}

// Wrap decorates p with the store. model is part of every key so switching
// models never serves stale text.
func Wrap(p provider.Provider, store *Store, model string) provider.Provider {
	return &cachedProvider{inner: p, store: store, model: model}
}

func (c *cachedProvider) Name() string { return c.inner.Name() }

func (c *cachedProvider) Invoke(ctx context.Context, req provider.Request) (string, error) {
	key := Key(c.model, req.System, req.User)

	if cached, ok, err := c.store.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	out, err := c.inner.Invoke(ctx, req)
	if err != nil {
		return "", err
	}
	_ = c.store.Put(ctx, key, c.model, out)
	return out, nil
}
