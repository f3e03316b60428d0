package knowledge

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"futurechat/internal/logging"
	"futurechat/internal/textnorm"
)

// ErrEmptyTeach is returned by Teach when the topic or info is blank.
var ErrEmptyTeach = errors.New("topic and info must be non-empty")

// Snapshot is the persisted form: pattern key -> replies.
type Snapshot map[string][]string

// Result is the outcome of one lookup. Replies is a private copy taken under
// the same lock as the scoring pass.
type Result struct {
	Key        string
	Confidence float64
	Replies    []string
}

// Found reports whether any entry scored above zero.
func (r Result) Found() bool { return r.Key != "" && r.Confidence > 0 }

// TeachResult describes what a Teach call changed.
type TeachResult struct {
	Key     string
	Created bool // a new entry was added
	Added   bool // false when the reply was already known
}

// Base is the in-memory knowledge table. Entries keep insertion order, which
// is also the tie-break order for Match. Safe for concurrent use.
type Base struct {
	mu      sync.RWMutex
	entries []*Entry
	byKey   map[string]*Entry
	dynamic map[string]Renderer
	clock   func() time.Time
}

// Option configures a Base.
type Option func(*Base)

// WithClock sets the clock used by dynamic entries.
func WithClock(clock func() time.Time) Option {
	return func(b *Base) { b.clock = clock }
}

// WithoutDynamic drops the built-in time and date entries.
func WithoutDynamic() Option {
	return func(b *Base) { b.dynamic = map[string]Renderer{} }
}

// NewBase returns an empty base with the built-in dynamic entries registered.
func NewBase(opts ...Option) *Base {
	b := &Base{
		byKey:   make(map[string]*Entry),
		dynamic: DefaultDynamic(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewSeeded builds a base from the seed table with loaded merged over it.
// Loaded replies replace the seed replies for the same key. Seed keys keep
// their table order; remaining loaded keys follow in sorted order.
func NewSeeded(loaded Snapshot, opts ...Option) *Base {
	b := NewBase(opts...)
	b.Replace(loaded)
	return b
}

// Replace swaps the static contents for seeds merged with snap. Dynamic
// entries stay registered.
func (b *Base) Replace(snap Snapshot) {
	entries := make([]*Entry, 0, len(Seeds)+len(snap))
	byKey := make(map[string]*Entry, len(Seeds)+len(snap))

	add := func(key string, replies []string) {
		if _, dup := byKey[key]; dup {
			return
		}
		e := newEntry(key, replies)
		if e == nil {
			logging.KnowledgeDebug("Skipping key with no variants: %q", key)
			return
		}
		if len(e.Replies) == 0 && !b.isDynamicLocked(key) {
			logging.KnowledgeDebug("Skipping key with no replies: %q", key)
			return
		}
		entries = append(entries, e)
		byKey[key] = e
	}

	b.mu.RLock()
	for _, seed := range Seeds {
		if loaded, ok := snap[seed.Key]; ok && len(loaded) > 0 {
			add(seed.Key, loaded)
			continue
		}
		add(seed.Key, seed.Replies)
	}
	extra := make([]string, 0, len(snap))
	for key := range snap {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		add(key, snap[key])
	}
	b.mu.RUnlock()

	b.mu.Lock()
	b.entries = entries
	b.byKey = byKey
	b.mu.Unlock()

	logging.Knowledge("Knowledge base loaded: %d topics (%d from store)", len(entries), len(snap))
}

// Match scores normalized input against every variant. See ScoreVariant.
func (b *Base) Match(normalized string) Result {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var best *Entry
	bestScore := 0.0
	for _, e := range b.entries {
		for _, v := range e.normalized {
			if s := ScoreVariant(v, normalized); s > bestScore {
				bestScore = s
				best = e
			}
		}
	}
	if best == nil {
		return Result{}
	}
	res := Result{Key: best.Key, Confidence: bestScore, Replies: b.repliesLocked(best)}
	logging.KnowledgeDebug("Match %q -> %q (%.2f)", normalized, res.Key, res.Confidence)
	return res
}

// Replies returns the current replies for key, rendering dynamic entries.
func (b *Base) Replies(key string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.byKey[key]
	if !ok {
		return nil
	}
	return b.repliesLocked(e)
}

func (b *Base) repliesLocked(e *Entry) []string {
	var out []string
	if render, ok := b.dynamic[e.Key]; ok {
		out = append(out, render(b.clock())...)
	}
	return append(out, e.Replies...)
}

func (b *Base) isDynamicLocked(key string) bool {
	_, ok := b.dynamic[key]
	return ok
}

// Teach appends info under topic. A topic equal to an existing variant
// extends that entry; otherwise a new entry is created.
func (b *Base) Teach(topic, info string) (TeachResult, error) {
	key := strings.ToLower(strings.TrimSpace(topic))
	info = strings.TrimSpace(info)
	if key == "" || info == "" {
		return TeachResult{}, ErrEmptyTeach
	}
	normalized := textnorm.Normalize(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.byKey[key]; ok {
		return TeachResult{Key: e.Key, Added: e.addReply(info)}, nil
	}
	for _, e := range b.entries {
		if e.hasVariant(normalized) {
			return TeachResult{Key: e.Key, Added: e.addReply(info)}, nil
		}
	}

	e := newEntry(key, []string{info})
	if e == nil {
		return TeachResult{}, ErrEmptyTeach
	}
	b.entries = append(b.entries, e)
	b.byKey[key] = e
	return TeachResult{Key: key, Created: true, Added: true}, nil
}

// Snapshot copies the static replies of every entry. Dynamic entries are
// included only for replies that were taught on top of them.
func (b *Base) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap := make(Snapshot, len(b.entries))
	for _, e := range b.entries {
		if len(e.Replies) == 0 {
			continue
		}
		snap[e.Key] = append([]string(nil), e.Replies...)
	}
	return snap
}

// Keys returns entry keys in insertion order.
func (b *Base) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, len(b.entries))
	for i, e := range b.entries {
		keys[i] = e.Key
	}
	return keys
}

// Stats returns the number of topics and the number of replies across them.
func (b *Base) Stats() (topics, replies int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range b.entries {
		replies += len(b.repliesLocked(e))
	}
	return len(b.entries), replies
}
