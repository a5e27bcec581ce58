package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermIsPermutation(t *testing.T) {
	r := New()
	for i := 0; i < 20; i++ {
		p := r.Perm(9)
		sorted := append([]int(nil), p...)
		sort.Ints(sorted)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, sorted)
	}
}

func TestIntnRange(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Intn(0))
	for i := 0; i < 100; i++ {
		n := r.Intn(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
}

func TestIDUnique(t *testing.T) {
	r := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := r.ID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
