package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurechat/internal/knowledge"
)

func sampleSnapshot() knowledge.Snapshot {
	return knowledge.Snapshot{
		"привет|hello": {"Привет! 👋", "Здравствуй <друг> & гость"},
		"кошки":        {"кошки любят спать", "кошки любопытные"},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "knowledge_base.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleSnapshot(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Привет! 👋", "non-ASCII is written as is")
	assert.Contains(t, string(raw), "<друг> & гость", "HTML is not escaped")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed away")
}

func TestFileStore_MissingAndEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	s, err = NewFileStore(empty)
	require.NoError(t, err)
	snap, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestFileStore_Corrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kb.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	for _, body := range []string{`{"a": [`, `["not", "an", "object"]`, `{"a": "not a list"}`} {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := s.Load(ctx)
		assert.ErrorIs(t, err, ErrCorrupt, body)
		assert.Empty(t, LoadOrEmpty(ctx, s), body)
	}
}

func TestFileStore_DropsBlankEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"": ["x"], "a": ["", "  ", "ok"]}`), 0o644))
	s, err := NewFileStore(path)
	require.NoError(t, err)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, knowledge.Snapshot{"a": {"ok"}}, snap)
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "kb.json"))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Save(ctx, sampleSnapshot()), context.Canceled)
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLStore_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "knowledge.db")
	s, err := OpenSQL(ctx, DialectSQLite, path)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleSnapshot(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// A later save replaces the whole table.
	require.NoError(t, s.Save(ctx, knowledge.Snapshot{"собаки": {"собаки умные"}}))
	require.NoError(t, s.Close())

	s, err = OpenSQL(ctx, DialectSQLite, path)
	require.NoError(t, err)
	defer s.Close()
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, knowledge.Snapshot{"собаки": {"собаки умные"}}, got)
}

func TestSQLStore_RequiresDSN(t *testing.T) {
	_, err := OpenSQL(context.Background(), DialectPostgres, "")
	assert.Error(t, err)
}

func TestDialect_Rebind(t *testing.T) {
	q := `INSERT INTO knowledge (pattern, position, reply) VALUES (?, ?, ?)`
	assert.Equal(t, q, DialectSQLite.Rebind(q))
	assert.Equal(t, `INSERT INTO knowledge (pattern, position, reply) VALUES ($1, $2, $3)`, DialectPostgres.Rebind(q))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Config{Path: filepath.Join(dir, "kb.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Config{Backend: "SQLite", Path: filepath.Join(dir, "kb.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Backend: "redis"})
	assert.Error(t, err)
}

func TestLoadOrEmpty_NilStore(t *testing.T) {
	assert.NotNil(t, LoadOrEmpty(context.Background(), nil))
}
