package optimize

import (
	"strconv"
	"strings"
	"sync"
)

// ShapeCache memoizes Solution evaluation by a content-addressed key over
// the piece order and rotation vector, avoiding a repeat pack run for a
// permutation/rotation combination the search has already scored — the Go
// counterpart of the repeated-recomputation cost noted in spec.md §9
// (original_source never memoizes this; it recomputes freely since it is a
// single-process batch tool, but a library used inside a long-lived search
// loop benefits from not re-packing an already-seen candidate).
type ShapeCache struct {
	mu     sync.Mutex
	table  map[string]Solution
	hits   int
	misses int
}

// NewShapeCache returns an empty cache.
func NewShapeCache() *ShapeCache {
	return &ShapeCache{table: make(map[string]Solution)}
}

func cacheKey(order []int, rotations []float64) string {
	var b strings.Builder
	for _, idx := range order {
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, r := range rotations {
		b.WriteString(strconv.FormatFloat(r, 'f', 1, 64))
		b.WriteByte(',')
	}
	return b.String()
}

// Lookup returns the cached Solution for (order, rotations), if present.
func (c *ShapeCache) Lookup(order []int, rotations []float64) (Solution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.table[cacheKey(order, rotations)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return s, ok
}

// Store records the evaluated Solution for (order, rotations).
func (c *ShapeCache) Store(order []int, rotations []float64, s Solution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table[cacheKey(order, rotations)] = s
}

// Stats reports cumulative hit/miss counts.
func (c *ShapeCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
