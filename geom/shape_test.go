package geom

import (
	"math"
	"testing"
)

func squarePoints(minX, minY, side float64) []Point {
	return []Point{
		{minX, minY},
		{minX + side, minY},
		{minX + side, minY + side},
		{minX, minY + side},
	}
}

func TestNewPolygonCanonicalizesWinding(t *testing.T) {
	// Clockwise input outer ring.
	cw := []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	p := NewPolygon(cw)
	if signedArea(p.Outer) < 0 {
		t.Error("outer ring should be canonicalized to counter-clockwise (positive signed area)")
	}

	hole := []Point{{2, 2}, {4, 2}, {4, 4}, {2, 4}} // CCW hole, should become CW
	p2 := NewPolygon(squarePoints(0, 0, 10), hole)
	if signedArea(p2.Holes[0]) > 0 {
		t.Error("hole ring should be canonicalized to clockwise (negative signed area)")
	}
}

func TestAreaSquare(t *testing.T) {
	s := NewShape(squarePoints(0, 0, 10))
	if got, want := Area(s), 100.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Area() = %v, want %v", got, want)
	}
}

func TestAreaWithHoleIsExteriorMinusInterior(t *testing.T) {
	outer := squarePoints(0, 0, 10) // area 100
	hole := squarePoints(2, 2, 4)   // area 16
	s := NewShape(outer, hole)
	if got, want := Area(s), 84.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Area() = %v, want %v", got, want)
	}
}

func TestBoundingBox(t *testing.T) {
	s := NewShape(squarePoints(3, 4, 10))
	bb := BoundingBox(s)
	want := NewRect(Point{3, 4}, Point{13, 14})
	if bb != want {
		t.Errorf("BoundingBox() = %+v, want %+v", bb, want)
	}
}

func TestTranslate(t *testing.T) {
	s := NewShape(squarePoints(0, 0, 10))
	moved := Translate(s, Vector{DX: 5, DY: 7})
	bb := BoundingBox(moved)
	if bb.Min != (Point{5, 7}) {
		t.Errorf("translated min corner = %+v, want {5 7}", bb.Min)
	}
}

func TestRotate360IsIdentity(t *testing.T) {
	s := NewShape(squarePoints(0, 0, 10))
	pivot := center(BoundingBox(s))
	rotated := Rotate(s, 360, pivot)
	for i, v := range rotated.Polygons[0].Outer {
		orig := s.Polygons[0].Outer[i]
		if !v.EqualEps(orig, 1e-6) {
			t.Errorf("vertex %d after 360deg rotation = %+v, want %+v", i, v, orig)
		}
	}
}

func center(r Rect) Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

func TestPlaceInPosition(t *testing.T) {
	s := NewShape(squarePoints(37, -12, 10))
	placed := PlaceInPosition(s, 100, 200)
	bb := BoundingBox(placed)
	if !bb.Min.EqualEps(Point{100, 200}, 1e-9) {
		t.Errorf("PlaceInPosition min corner = %+v, want {100 200}", bb.Min)
	}
}

func TestOuterVertexCount(t *testing.T) {
	s := NewShape(squarePoints(0, 0, 10))
	if got, want := OuterVertexCount(s), 4; got != want {
		t.Errorf("OuterVertexCount() = %d, want %d", got, want)
	}
}

func TestIsEmpty(t *testing.T) {
	var s Shape
	if !s.IsEmpty() {
		t.Error("zero-value Shape should be empty")
	}
	full := NewShape(squarePoints(0, 0, 10))
	if full.IsEmpty() {
		t.Error("populated Shape should not be empty")
	}
}
