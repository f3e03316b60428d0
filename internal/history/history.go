// Package history keeps the bounded conversation log shared by the context
// tracker and the stats surfaces.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCap is the number of turns kept before FIFO eviction.
const DefaultCap = 100

// Turn is one user utterance and the reply chosen for it.
type Turn struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Reply     string    `json:"bot"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// History is a size-bounded, append-only turn log. Append and trim happen
// under one lock.
type History struct {
	mu    sync.RWMutex
	turns []Turn
	limit int
	total int
	now   func() time.Time
}

// New returns a history holding at most capacity turns. capacity <= 0 means
// DefaultCap.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &History{limit: capacity, now: time.Now}
}

// Append records a turn, filling ID and Timestamp when unset, and evicts the
// oldest turns beyond the cap. It returns the stored turn.
func (h *History) Append(t Turn) Turn {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if t.Timestamp.IsZero() {
		t.Timestamp = h.now()
	}
	h.turns = append(h.turns, t)
	if over := len(h.turns) - h.limit; over > 0 {
		// Copy down so the backing array does not grow without bound.
		n := copy(h.turns, h.turns[over:])
		for i := n; i < len(h.turns); i++ {
			h.turns[i] = Turn{}
		}
		h.turns = h.turns[:n]
	}
	h.total++
	return t
}

// Snapshot returns a copy of the stored turns, oldest first.
func (h *History) Snapshot() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Last returns up to n most recent turns, oldest first.
func (h *History) Last(n int) []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.turns) {
		n = len(h.turns)
	}
	if n <= 0 {
		return nil
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Len returns the number of stored turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Total returns the number of turns ever appended, evicted ones included.
func (h *History) Total() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// Cap returns the eviction cap.
func (h *History) Cap() int { return h.limit }

// Reset drops all turns.
func (h *History) Reset() {
	h.mu.Lock()
	h.turns = nil
	h.mu.Unlock()
}
