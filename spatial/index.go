// Package spatial provides the broad-phase collision index the bin engine
// consults before falling back to exact geometry tests: an R-tree keyed by
// the axis-aligned bounding box of each placed piece, standing in for the
// original engine's boost::geometry::index::rtree<RTreeValue, rstar<16>>.
package spatial

import (
	"github.com/dhconnelly/rtreego"

	"github.com/innermond/nestpack/geom"
)

const (
	minChildren = 4
	maxChildren = 16 // matches the original's rstar<16> branching factor
)

// Index is an incremental 2D R-tree mapping an integer id to the bounding
// box it was inserted with. It answers "which ids might overlap this
// rectangle" in better-than-linear time so binengine does not have to walk
// every placed piece on every placement attempt.
type Index struct {
	tree  *rtreego.Rtree
	items map[int]*entry
}

type entry struct {
	id   int
	rect geom.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() *rtreego.Rect {
	r, err := rtreego.NewRect(
		rtreego.Point{e.rect.Min.X, e.rect.Min.Y},
		[]float64{width(e.rect), height(e.rect)},
	)
	if err != nil {
		// Degenerate (zero-size) rectangles are widened by an epsilon so
		// rtreego, which rejects zero-length sides, never sees one.
		r, _ = rtreego.NewRect(
			rtreego.Point{e.rect.Min.X, e.rect.Min.Y},
			[]float64{width(e.rect) + geom.Epsilon, height(e.rect) + geom.Epsilon},
		)
	}
	return r
}

func width(r geom.Rect) float64 {
	w := r.Width()
	if w <= 0 {
		return geom.Epsilon
	}
	return w
}

func height(r geom.Rect) float64 {
	h := r.Height()
	if h <= 0 {
		return geom.Epsilon
	}
	return h
}

// New creates an empty index.
func New() *Index {
	return &Index{
		tree:  rtreego.NewTree(2, minChildren, maxChildren),
		items: make(map[int]*entry),
	}
}

// Insert registers id with rect. Re-inserting an id that is already present
// replaces its rectangle.
func (idx *Index) Insert(rect geom.Rect, id int) {
	if old, ok := idx.items[id]; ok {
		idx.tree.Delete(old)
		delete(idx.items, id)
	}
	e := &entry{id: id, rect: rect}
	idx.tree.Insert(e)
	idx.items[id] = e
}

// Remove drops id from the index. It is a no-op if id was never inserted.
func (idx *Index) Remove(id int) {
	e, ok := idx.items[id]
	if !ok {
		return
	}
	idx.tree.Delete(e)
	delete(idx.items, id)
}

// QueryIntersects returns the ids whose stored bounding box intersects rect.
// This is a broad-phase filter: callers must still run an exact geometry
// test (geom.Intersects) on the returned candidates before concluding two
// pieces actually overlap.
func (idx *Index) QueryIntersects(rect geom.Rect) []int {
	bb, err := rtreego.NewRect(
		rtreego.Point{rect.Min.X, rect.Min.Y},
		[]float64{width(rect), height(rect)},
	)
	if err != nil {
		return nil
	}
	hits := idx.tree.SearchIntersect(bb)
	ids := make([]int, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.(*entry).id)
	}
	return ids
}

// Len returns the number of entries currently indexed.
func (idx *Index) Len() int {
	return len(idx.items)
}

// Rect returns the bounding box stored for id, if present.
func (idx *Index) Rect(id int) (geom.Rect, bool) {
	e, ok := idx.items[id]
	if !ok {
		return geom.Rect{}, false
	}
	return e.rect, true
}
