// Package bestmatch is a local statistical responder: learned prompt/reply
// pairs in SQLite, ranked by Levenshtein similarity, plus math and time
// logic adapters.
package bestmatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	_ "modernc.org/sqlite"

	"futurechat/internal/logging"
	"futurechat/internal/matcher"
	"futurechat/internal/textnorm"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config configures the responder.
type Config struct {
	// Path is the SQLite file. ":memory:" keeps everything in process.
	Path string
	// MinSimilarity is the floor below which a learned pair is ignored.
	MinSimilarity float64
	// Seed trains the built-in Russian conversation pairs into an empty store.
	Seed bool
	// Clock drives the time adapter. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultMinSimilarity keeps loosely similar prompts out.
const DefaultMinSimilarity = 0.35

// =============================================================================
// RESPONDER
// =============================================================================

type pair struct {
	prompt     string
	normalized string
	reply      string
}

// Responder implements matcher.Responder.
type Responder struct {
	db     *sql.DB
	mu     sync.RWMutex
	pairs  []pair
	minSim float64
	logic  []LogicAdapter
}

var _ matcher.Responder = (*Responder)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS statements (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt        TEXT NOT NULL,
	normalized    TEXT NOT NULL,
	reply         TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	UNIQUE(normalized, reply)
);`

// Open creates or opens the statement store and loads it into memory.
func Open(ctx context.Context, cfg Config) (*Responder, error) {
	if cfg.Path == "" {
		return nil, errors.New("bestmatch: database path required")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create statements table: %w", err)
	}

	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = DefaultMinSimilarity
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	r := &Responder{
		db:     db,
		minSim: cfg.MinSimilarity,
		logic:  []LogicAdapter{TimeAdapter{Clock: clock}, MathAdapter{}},
	}
	if err := r.load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.Seed && r.Len() == 0 {
		if err := r.TrainList(ctx, SeedConversation); err != nil {
			logging.MatcherWarn("Seeding statement store failed: %v", err)
		}
	}
	logging.Matcher("Best-match store ready: %s (%d statements)", cfg.Path, r.Len())
	return r, nil
}

func (r *Responder) load(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, `SELECT prompt, normalized, reply FROM statements ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load statements: %w", err)
	}
	defer rows.Close()

	var pairs []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.prompt, &p.normalized, &p.reply); err != nil {
			return fmt.Errorf("failed to scan statement: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read statements: %w", err)
	}
	r.mu.Lock()
	r.pairs = pairs
	r.mu.Unlock()
	return nil
}

// Name implements matcher.Responder.
func (r *Responder) Name() string { return "bestmatch" }

// Len returns the number of learned pairs.
func (r *Responder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pairs)
}

// Respond returns the highest-confidence answer among the learned pairs and
// the logic adapters. Equal confidences keep the learned pair.
func (r *Responder) Respond(ctx context.Context, text string) (matcher.Response, error) {
	if err := ctx.Err(); err != nil {
		return matcher.Response{}, err
	}
	best := r.closest(textnorm.Normalize(text))
	for _, adapter := range r.logic {
		if !adapter.CanProcess(text) {
			continue
		}
		resp, ok := adapter.Process(text)
		if ok && resp.Confidence > best.Confidence {
			best = resp
		}
	}
	return best, nil
}

func (r *Responder) closest(normalized string) matcher.Response {
	if normalized == "" {
		return matcher.Response{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best matcher.Response
	for _, p := range r.pairs {
		sim := Similarity(normalized, p.normalized)
		if sim > best.Confidence {
			best = matcher.Response{Text: p.reply, Confidence: sim}
		}
	}
	if best.Confidence < r.minSim {
		return matcher.Response{}
	}
	return best
}

// Train stores one prompt/reply pair. Re-training a known pair is a no-op.
func (r *Responder) Train(ctx context.Context, prompt, reply string) error {
	prompt, reply = strings.TrimSpace(prompt), strings.TrimSpace(reply)
	if prompt == "" || reply == "" {
		return errors.New("bestmatch: prompt and reply must be non-empty")
	}
	normalized := textnorm.Normalize(prompt)

	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO statements(prompt, normalized, reply, created_at) VALUES(?,?,?,?)`,
		prompt, normalized, reply, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store statement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	r.mu.Lock()
	r.pairs = append(r.pairs, pair{prompt: prompt, normalized: normalized, reply: reply})
	r.mu.Unlock()
	return nil
}

// TrainList trains consecutive statements as prompt/reply pairs: [0]->[1],
// [2]->[3], and so on. A trailing odd statement is ignored.
func (r *Responder) TrainList(ctx context.Context, conversation []string) error {
	for i := 0; i+1 < len(conversation); i += 2 {
		if err := r.Train(ctx, conversation[i], conversation[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (r *Responder) Close() error {
	return r.db.Close()
}

// Similarity is the Levenshtein ratio 1 - distance/max(len) over runes.
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
