// Package phrase holds the seedable random source used to vary replies.
package phrase

import (
	"math/rand"
	"sync"
	"time"
)

// Picker draws uniformly from phrase lists. Safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPicker returns a picker with a fixed seed. Seed 0 means "seed from the clock".
func NewPicker(seed int64) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns one element of options, or "" when options is empty.
func (p *Picker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	if len(options) == 1 {
		return options[0]
	}
	p.mu.Lock()
	i := p.rnd.Intn(len(options))
	p.mu.Unlock()
	return options[i]
}

// Pickf picks a template and formats it with args.
func (p *Picker) Pickf(templates []string, args ...interface{}) string {
	return Format(p.Pick(templates), args...)
}
