package geom

import "math"

// Point is a location in the plane.
type Point struct {
	X, Y float64
}

// Vector is a displacement.
type Vector struct {
	DX, DY float64
}

// Inverse returns the opposite displacement.
func (v Vector) Inverse() Vector {
	return Vector{-v.DX, -v.DY}
}

// Add translates a point by a vector.
func (p Point) Add(v Vector) Point {
	return Point{p.X + v.DX, p.Y + v.DY}
}

// Sub returns the displacement from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{p.X - o.X, p.Y - o.Y}
}

// EqualEps reports whether two points coincide within eps.
func (p Point) EqualEps(o Point, eps float64) bool {
	return math.Abs(p.X-o.X) <= eps && math.Abs(p.Y-o.Y) <= eps
}

// rotatePoint rotates p around pivot by degrees counter-clockwise.
func rotatePoint(p, pivot Point, degrees float64) Point {
	rad := degrees * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx := p.X - pivot.X
	dy := p.Y - pivot.Y
	return Point{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}
