package geom

import "math"

// Ring is a closed polygon boundary: the first point is implicitly
// connected back to the last. Canonical winding is counter-clockwise for
// outer rings and clockwise for holes; NewPolygon enforces this.
type Ring []Point

// Polygon is a single region: an outer boundary plus zero or more holes.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// Shape is a possibly-disjoint collection of polygons — the Go analogue of
// the original's boost::geometry multi_polygon. A Piece's geometry is a
// Shape; most pieces are a single Polygon, but Union can produce several.
type Shape struct {
	Polygons []Polygon
}

// signedArea returns the shoelace signed area of a ring: positive for
// counter-clockwise winding, negative for clockwise.
func signedArea(r Ring) float64 {
	if len(r) < 3 {
		return 0
	}
	sum := 0.0
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2.0
}

func reversed(r Ring) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// NewPolygon builds a Polygon from an outer ring and optional hole rings,
// canonicalizing winding: outer becomes counter-clockwise, holes clockwise.
func NewPolygon(outer []Point, holes ...[]Point) Polygon {
	o := Ring(append([]Point(nil), outer...))
	if signedArea(o) < 0 {
		o = reversed(o)
	}
	p := Polygon{Outer: o}
	for _, h := range holes {
		hr := Ring(append([]Point(nil), h...))
		if signedArea(hr) > 0 {
			hr = reversed(hr)
		}
		p.Holes = append(p.Holes, hr)
	}
	return p
}

// NewShape wraps a single polygon (outer + holes) as a Shape — the common
// case for a piece built from an input vertex list.
func NewShape(outer []Point, holes ...[]Point) Shape {
	return Shape{Polygons: []Polygon{NewPolygon(outer, holes...)}}
}

// IsEmpty reports whether the shape has no geometry.
func (s Shape) IsEmpty() bool {
	for _, p := range s.Polygons {
		if len(p.Outer) >= 3 {
			return false
		}
	}
	return true
}

// Area returns the non-negative area of the shape: the sum of exterior-ring
// areas minus interior-ring areas (spec invariant).
func Area(s Shape) float64 {
	total := 0.0
	for _, p := range s.Polygons {
		total += signedArea(p.Outer)
		for _, h := range p.Holes {
			total += signedArea(h)
		}
	}
	if total < 0 {
		total = -total
	}
	return total
}

// Perimeter returns the total length of every outer ring's edges — the
// generalization of a rectangle's 2*(w+h) to an arbitrary polygon, used by
// the pricing report's cut-length estimate.
func Perimeter(s Shape) float64 {
	total := 0.0
	for _, p := range s.Polygons {
		total += ringPerimeter(p.Outer)
	}
	return total
}

func ringPerimeter(r Ring) float64 {
	if len(r) < 2 {
		return 0
	}
	total := 0.0
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		dx := r[j].X - r[i].X
		dy := r[j].Y - r[i].Y
		total += math.Hypot(dx, dy)
	}
	return total
}

// BoundingBox returns the axis-aligned bounding box of the shape.
func BoundingBox(s Shape) Rect {
	first := true
	var bb Rect
	for _, p := range s.Polygons {
		for _, v := range p.Outer {
			if first {
				bb = Rect{Min: v, Max: v}
				first = false
				continue
			}
			bb.Min.X = min(bb.Min.X, v.X)
			bb.Min.Y = min(bb.Min.Y, v.Y)
			bb.Max.X = max(bb.Max.X, v.X)
			bb.Max.Y = max(bb.Max.Y, v.Y)
		}
	}
	return bb
}

// OuterVertexCount returns the total vertex count across outer rings only.
func OuterVertexCount(s Shape) int {
	n := 0
	for _, p := range s.Polygons {
		n += len(p.Outer)
	}
	return n
}

// Translate returns a copy of s shifted by v.
func Translate(s Shape, v Vector) Shape {
	out := Shape{Polygons: make([]Polygon, len(s.Polygons))}
	for i, p := range s.Polygons {
		out.Polygons[i] = translatePolygon(p, v)
	}
	return out
}

func translatePolygon(p Polygon, v Vector) Polygon {
	np := Polygon{Outer: translateRing(p.Outer, v)}
	for _, h := range p.Holes {
		np.Holes = append(np.Holes, translateRing(h, v))
	}
	return np
}

func translateRing(r Ring, v Vector) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = p.Add(v)
	}
	return out
}

// Rotate returns a copy of s rotated by degrees (counter-clockwise) around
// pivot. Rotating by 360 degrees is the identity up to floating-point error.
func Rotate(s Shape, degrees float64, pivot Point) Shape {
	out := Shape{Polygons: make([]Polygon, len(s.Polygons))}
	for i, p := range s.Polygons {
		out.Polygons[i] = rotatePolygon(p, degrees, pivot)
	}
	return out
}

func rotatePolygon(p Polygon, degrees float64, pivot Point) Polygon {
	np := Polygon{Outer: rotateRing(p.Outer, degrees, pivot)}
	for _, h := range p.Holes {
		np.Holes = append(np.Holes, rotateRing(h, degrees, pivot))
	}
	return np
}

func rotateRing(r Ring, degrees float64, pivot Point) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = rotatePoint(p, pivot, degrees)
	}
	return out
}

// PlaceInPosition translates the shape so its bounding box's min corner
// lands on (x, y).
func PlaceInPosition(s Shape, x, y float64) Shape {
	bb := BoundingBox(s)
	return Translate(s, Vector{DX: x - bb.Min.X, DY: y - bb.Min.Y})
}
