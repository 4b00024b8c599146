package geom

import "testing"

func TestWithin(t *testing.T) {
	bin := NewRect(Point{0, 0}, Point{100, 100})
	inside := NewShape(squarePoints(10, 10, 20))
	if !Within(inside, bin) {
		t.Error("expected square fully inside bin to be Within")
	}
	crossing := NewShape(squarePoints(90, 90, 20))
	if Within(crossing, bin) {
		t.Error("did not expect a square crossing the bin edge to be Within")
	}
}

func TestIntersectsOverlapping(t *testing.T) {
	a := NewShape(squarePoints(0, 0, 10))
	b := NewShape(squarePoints(5, 5, 10))
	if !Intersects(a, b) {
		t.Error("expected overlapping squares to intersect")
	}
}

func TestIntersectsDisjoint(t *testing.T) {
	a := NewShape(squarePoints(0, 0, 10))
	b := NewShape(squarePoints(50, 50, 10))
	if Intersects(a, b) {
		t.Error("did not expect disjoint squares to intersect")
	}
}

func TestIntersectsSharedEdgeIsNotIntersection(t *testing.T) {
	a := NewShape(squarePoints(0, 0, 10))
	b := NewShape(squarePoints(10, 0, 10)) // shares the x=10 edge
	if Intersects(a, b) {
		t.Error("shared-edge squares should not be treated as intersecting")
	}
}

func TestIntersectsSharedCornerIsNotIntersection(t *testing.T) {
	a := NewShape(squarePoints(0, 0, 10))
	b := NewShape(squarePoints(10, 10, 10)) // shares only the (10,10) corner
	if Intersects(a, b) {
		t.Error("corner-touching squares should not be treated as intersecting")
	}
}

func TestIntersectsUnequalWidthFlushStackingIsNotIntersection(t *testing.T) {
	// A wide base (10x5) with a narrower piece (4 wide) resting flush on
	// top of it: the touching edge is only a sub-segment of the wider
	// piece's top edge, not the whole edge, and the two shapes' interiors
	// are on opposite sides of that sub-segment.
	base := NewShape([]Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5}})
	onTop := NewShape([]Point{{X: 3, Y: 5}, {X: 7, Y: 5}, {X: 7, Y: 8}, {X: 3, Y: 8}})
	if Intersects(base, onTop) {
		t.Error("a narrower piece resting flush on a wider one's edge should not be treated as intersecting")
	}
}

func TestIntersectsUnequalWidthOverlapIsIntersection(t *testing.T) {
	// Same footprint as above, but onTop is shifted down so its interior
	// actually overlaps the base's interior instead of merely touching.
	base := NewShape([]Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5}})
	overlapping := NewShape([]Point{{X: 3, Y: 3}, {X: 7, Y: 3}, {X: 7, Y: 8}, {X: 3, Y: 8}})
	if !Intersects(base, overlapping) {
		t.Error("expected a genuinely overlapping narrower piece to intersect")
	}
}

func TestIntersectsNestedShape(t *testing.T) {
	outer := NewShape(squarePoints(0, 0, 20))
	inner := NewShape(squarePoints(5, 5, 5))
	if !Intersects(outer, inner) {
		t.Error("expected a fully nested square to be reported as intersecting")
	}
}

func TestIntersectsEmptyShapes(t *testing.T) {
	var empty Shape
	full := NewShape(squarePoints(0, 0, 10))
	if Intersects(empty, full) || Intersects(full, empty) {
		t.Error("an empty shape should never intersect")
	}
}
