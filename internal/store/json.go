package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
)

// DefaultPath is where the JSON table lives when nothing is configured.
const DefaultPath = "knowledge_base.json"

// FileStore keeps the table as one JSON object: pattern key -> replies.
type FileStore struct {
	path string
	mu   sync.Mutex
	// last is the hash of the bytes this store wrote most recently.
	last [sha256.Size]byte
}

// NewFileStore returns a store for path. The file is not touched until the
// first Load or Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve knowledge path: %w", err)
	}
	return &FileStore{path: abs}, nil
}

// Path is the absolute file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the file. A missing file is an empty table.
func (s *FileStore) Load(ctx context.Context) (knowledge.Snapshot, error) {
	snap, _, err := s.load(ctx, false)
	return snap, err
}

// loadIfChanged is Load that reports changed=false, with no snapshot, when
// the file holds exactly what this store last saved.
func (s *FileStore) loadIfChanged(ctx context.Context) (knowledge.Snapshot, bool, error) {
	return s.load(ctx, true)
}

func (s *FileStore) load(ctx context.Context, skipOwn bool) (knowledge.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	own := err == nil && sha256.Sum256(data) == s.last
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		logging.StoreDebug("No knowledge file at %s", s.path)
		return knowledge.Snapshot{}, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read knowledge file: %w", err)
	}
	if skipOwn && own {
		return nil, false, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return knowledge.Snapshot{}, true, nil
	}

	var snap knowledge.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	snap = clean(snap)
	logging.StoreDebug("Loaded %d topics from %s", len(snap), s.path)
	return snap, true, nil
}

// Save writes the table to a temp file and renames it over the old one, so
// readers never see a partial file.
func (s *FileStore) Save(ctx context.Context, snap knowledge.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(clean(snap)); err != nil {
		return fmt.Errorf("failed to encode knowledge: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create knowledge dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write knowledge: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace knowledge file: %w", err)
	}
	s.last = sha256.Sum256(buf.Bytes())
	logging.StoreDebug("Saved %d topics to %s", len(snap), s.path)
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
