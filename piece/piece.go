// Package piece defines the fundamental item placed by the packer: an
// identifier carried through all transforms, a possibly-concave
// possibly-holed shape, and the cumulative rotation applied to it.
package piece

import (
	"math"

	"github.com/innermond/nestpack/geom"
)

// Piece is the fundamental item the packer places into bins. Once placed
// in a Bin it is treated as immutable for the remainder of that bin's
// packing — it may still be moved by compaction/sweep, but never reshaped.
type Piece struct {
	ID       int
	Shape    geom.Shape
	Rotation float64 // cumulative rotation in degrees, mod 360
}

// New builds a piece from an input vertex list (counter-clockwise) plus
// optional hole vertex lists.
func New(id int, outer []geom.Point, holes ...[]geom.Point) *Piece {
	return &Piece{
		ID:    id,
		Shape: geom.NewShape(outer, holes...),
	}
}

// Clone returns a deep-enough copy: pieces are never shared mutably once
// placed, so every transform operates on a clone.
func (p *Piece) Clone() *Piece {
	cp := *p
	polys := make([]geom.Polygon, len(p.Shape.Polygons))
	copy(polys, p.Shape.Polygons)
	cp.Shape = geom.Shape{Polygons: polys}
	return &cp
}

// Area is the non-negative geometric area of the shape.
func (p *Piece) Area() float64 {
	return geom.Area(p.Shape)
}

// BoundingBox is the axis-aligned bounding box of the shape.
func (p *Piece) BoundingBox() geom.Rect {
	return geom.BoundingBox(p.Shape)
}

// FreeArea is the bbox area minus the shape area: the "concavity budget"
// available for sweep-replace to exploit.
func (p *Piece) FreeArea() float64 {
	return p.BoundingBox().Area() - p.Area()
}

// Perimeter is the total outer-boundary edge length, used for cut-length
// pricing.
func (p *Piece) Perimeter() float64 {
	return geom.Perimeter(p.Shape)
}

// OuterVertexCount is the number of vertices across the shape's outer rings.
func (p *Piece) OuterVertexCount() int {
	return geom.OuterVertexCount(p.Shape)
}

// Rotate composes degrees onto the stored rotation and rotates the shape
// about its bounding-box center.
func (p *Piece) Rotate(degrees float64) {
	pivot := center(p.BoundingBox())
	p.Shape = geom.Rotate(p.Shape, degrees, pivot)
	p.Rotation = math.Mod(p.Rotation+degrees, 360)
	if p.Rotation < 0 {
		p.Rotation += 360
	}
}

// Translate shifts the piece by v.
func (p *Piece) Translate(v geom.Vector) {
	p.Shape = geom.Translate(p.Shape, v)
}

// PlaceInPosition translates the piece so its bounding box's min corner is
// at (x, y).
func (p *Piece) PlaceInPosition(x, y float64) {
	p.Shape = geom.PlaceInPosition(p.Shape, x, y)
}

// IsInside reports whether the piece lies entirely within rect.
func (p *Piece) IsInside(rect geom.Rect) bool {
	return geom.Within(p.Shape, rect)
}

// Intersects reports whether this piece's shape overlaps other's.
func (p *Piece) Intersects(other *Piece) bool {
	return geom.Intersects(p.Shape, other.Shape)
}

func center(r geom.Rect) geom.Point {
	return geom.Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// ByAreaDescending sorts pieces by shape area, largest first, matching the
// initial sort strategy.Pack performs before its first stage.
type ByAreaDescending []*Piece

func (s ByAreaDescending) Len() int      { return len(s) }
func (s ByAreaDescending) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s ByAreaDescending) Less(i, j int) bool {
	return s[i].Area() > s[j].Area()
}
