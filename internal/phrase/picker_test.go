package phrase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPicker_SameSeedSameSequence(t *testing.T) {
	opts := []string{"a", "b", "c", "d", "e"}
	p1, p2 := NewPicker(42), NewPicker(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, p1.Pick(opts), p2.Pick(opts))
	}
}

func TestPicker_Edges(t *testing.T) {
	p := NewPicker(1)
	assert.Equal(t, "", p.Pick(nil))
	assert.Equal(t, "only", p.Pick([]string{"only"}))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[p.Pick([]string{"x", "y"})] = true
	}
	assert.Len(t, seen, 2)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "про кошек", Format("про %s", "кошек", "лишнее"))
	assert.Equal(t, "без подстановки", Format("без подстановки", "x"))
	assert.Equal(t, "a и b", Format("%s и %s", "a", "b"))
	assert.Equal(t, "100%", Format("100%"))
}
