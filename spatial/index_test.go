package spatial

import (
	"sort"
	"testing"

	"github.com/innermond/nestpack/geom"
)

func rect(minX, minY, maxX, maxY float64) geom.Rect {
	return geom.NewRect(geom.Point{X: minX, Y: minY}, geom.Point{X: maxX, Y: maxY})
}

func TestInsertAndQueryIntersects(t *testing.T) {
	idx := New()
	idx.Insert(rect(0, 0, 10, 10), 1)
	idx.Insert(rect(20, 20, 30, 30), 2)

	got := idx.QueryIntersects(rect(5, 5, 15, 15))
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("QueryIntersects = %v, want [1]", got)
	}
}

func TestQueryIntersectsMultipleHits(t *testing.T) {
	idx := New()
	idx.Insert(rect(0, 0, 10, 10), 1)
	idx.Insert(rect(5, 5, 15, 15), 2)
	idx.Insert(rect(100, 100, 110, 110), 3)

	got := idx.QueryIntersects(rect(0, 0, 20, 20))
	sort.Ints(got)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("QueryIntersects = %v, want [1 2]", got)
	}
}

func TestRemove(t *testing.T) {
	idx := New()
	idx.Insert(rect(0, 0, 10, 10), 1)
	idx.Remove(1)

	if got := idx.QueryIntersects(rect(0, 0, 10, 10)); len(got) != 0 {
		t.Errorf("expected no hits after Remove, got %v", got)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
}

func TestRemoveNonexistentIsNoop(t *testing.T) {
	idx := New()
	idx.Remove(42) // must not panic
}

func TestReinsertReplacesRect(t *testing.T) {
	idx := New()
	idx.Insert(rect(0, 0, 10, 10), 1)
	idx.Insert(rect(50, 50, 60, 60), 1) // same id, new location

	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after re-insert", idx.Len())
	}
	if got := idx.QueryIntersects(rect(0, 0, 10, 10)); len(got) != 0 {
		t.Errorf("expected the old location to no longer hit, got %v", got)
	}
	if got := idx.QueryIntersects(rect(50, 50, 60, 60)); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected the new location to hit id 1, got %v", got)
	}
}

func TestZeroAreaRectDoesNotPanic(t *testing.T) {
	idx := New()
	idx.Insert(rect(5, 5, 5, 5), 1) // degenerate point rectangle
	_ = idx.QueryIntersects(rect(0, 0, 10, 10))
}

func TestRectLookup(t *testing.T) {
	idx := New()
	r := rect(1, 2, 3, 4)
	idx.Insert(r, 7)
	got, ok := idx.Rect(7)
	if !ok || got != r {
		t.Errorf("Rect(7) = (%+v, %v), want (%+v, true)", got, ok, r)
	}
	if _, ok := idx.Rect(999); ok {
		t.Error("expected Rect for an unknown id to report not-found")
	}
}
