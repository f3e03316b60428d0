package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
)

// Dialect is a database/sql driver plus its placeholder style.
type Dialect struct {
	Name   string
	Driver string
	// Numbered placeholders ($1, $2) instead of ?.
	Numbered bool
}

var (
	DialectSQLite   = Dialect{Name: "sqlite", Driver: "sqlite"}
	DialectPostgres = Dialect{Name: "postgres", Driver: "postgres", Numbered: true}
)

// Rebind rewrites ? placeholders for the dialect.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const knowledgeSchema = `
CREATE TABLE IF NOT EXISTS knowledge (
	pattern  TEXT    NOT NULL,
	position INTEGER NOT NULL,
	reply    TEXT    NOT NULL,
	PRIMARY KEY (pattern, position)
)`

// SQLStore keeps one row per reply.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL connects and creates the table if needed. For SQLite, dsn is a
// file path or ":memory:".
func OpenSQL(ctx context.Context, d Dialect, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s knowledge store: connection string required", d.Name)
	}
	if d.Driver == DialectSQLite.Driver && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}
	timer := logging.StartTimer(logging.CategoryStore, "OpenSQL")
	defer timer.Stop()

	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.Name, err)
	}
	if d.Driver == DialectSQLite.Driver {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.Name, err)
	}
	if _, err := db.ExecContext(ctx, knowledgeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create knowledge table: %w", err)
	}
	logging.Store("Knowledge store ready (%s)", d.Name)
	return &SQLStore{db: db, dialect: d}, nil
}

// Load reads every row, keeping reply order.
func (s *SQLStore) Load(ctx context.Context) (knowledge.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pattern, reply FROM knowledge ORDER BY pattern, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge: %w", err)
	}
	defer rows.Close()

	snap := knowledge.Snapshot{}
	for rows.Next() {
		var pattern, reply string
		if err := rows.Scan(&pattern, &reply); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		snap[pattern] = append(snap[pattern], reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read knowledge: %w", err)
	}
	return clean(snap), nil
}

// Save replaces the table contents in one transaction.
func (s *SQLStore) Save(ctx context.Context, snap knowledge.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.StoreWarn("Rollback failed: %v", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM knowledge`); err != nil {
		return fmt.Errorf("failed to clear knowledge: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`INSERT INTO knowledge (pattern, position, reply) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for pattern, replies := range clean(snap) {
		for i, reply := range replies {
			if _, err = stmt.ExecContext(ctx, pattern, i, reply); err != nil {
				return fmt.Errorf("failed to insert %q: %w", pattern, err)
			}
			rows++
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit knowledge: %w", err)
	}
	logging.StoreDebug("Saved %d topics (%d rows) to %s", len(snap), rows, s.dialect.Name)
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
