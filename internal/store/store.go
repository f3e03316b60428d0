// Package store persists the knowledge table. Backends: a JSON file (the
// default), SQLite and Postgres. Memory stays authoritative; a failing store
// never changes a reply.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
)

// ErrCorrupt marks stored data that exists but cannot be decoded.
var ErrCorrupt = errors.New("knowledge store is corrupt")

// Store loads and saves the whole knowledge table.
type Store interface {
	Load(ctx context.Context) (knowledge.Snapshot, error)
	Save(ctx context.Context, snap knowledge.Snapshot) error
	Close() error
}

// Backend names a storage implementation.
type Backend string

const (
	BackendJSON     Backend = "json"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Config selects and locates a backend.
type Config struct {
	Backend Backend `yaml:"backend" json:"backend"`
	// Path is the JSON file or SQLite database.
	Path string `yaml:"path" json:"path"`
	// DSN is the Postgres connection string.
	DSN string `yaml:"dsn" json:"dsn"`
	// Watch reloads the JSON file when it changes on disk.
	Watch bool `yaml:"watch" json:"watch"`
}

// Open returns the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch Backend(strings.ToLower(string(cfg.Backend))) {
	case "", BackendJSON:
		return NewFileStore(cfg.Path)
	case BackendSQLite:
		return OpenSQL(ctx, DialectSQLite, cfg.Path)
	case BackendPostgres:
		return OpenSQL(ctx, DialectPostgres, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown knowledge backend %q", cfg.Backend)
	}
}

// LoadOrEmpty loads the table, falling back to an empty snapshot when the
// store is missing, unreadable or corrupt. The error is logged, not returned.
func LoadOrEmpty(ctx context.Context, s Store) knowledge.Snapshot {
	if s == nil {
		return knowledge.Snapshot{}
	}
	snap, err := s.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			logging.StoreWarn("Ignoring corrupt knowledge store, starting from seeds: %v", err)
		} else {
			logging.StoreError("Failed to load knowledge store, starting from seeds: %v", err)
		}
		return knowledge.Snapshot{}
	}
	return snap
}

// clean drops empty keys and empty replies. Nil snapshots become empty.
func clean(snap knowledge.Snapshot) knowledge.Snapshot {
	out := make(knowledge.Snapshot, len(snap))
	for key, replies := range snap {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		kept := make([]string, 0, len(replies))
		for _, r := range replies {
			if strings.TrimSpace(r) != "" {
				kept = append(kept, r)
			}
		}
		out[key] = kept
	}
	return out
}
