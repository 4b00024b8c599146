package geom

import "testing"

func TestVectorInverse(t *testing.T) {
	v := Vector{DX: 3, DY: -4}
	inv := v.Inverse()
	if inv.DX != -3 || inv.DY != 4 {
		t.Errorf("Inverse() = %+v, want {-3 4}", inv)
	}
}

func TestPointAddSub(t *testing.T) {
	p := Point{X: 1, Y: 2}
	v := Vector{DX: 5, DY: 5}
	got := p.Add(v)
	want := Point{X: 6, Y: 7}
	if got != want {
		t.Errorf("Add() = %+v, want %+v", got, want)
	}
	if got.Sub(p) != v {
		t.Errorf("Sub() = %+v, want %+v", got.Sub(p), v)
	}
}

func TestEqualEps(t *testing.T) {
	a := Point{X: 1, Y: 1}
	b := Point{X: 1 + 1e-12, Y: 1 - 1e-12}
	if !a.EqualEps(b, 1e-9) {
		t.Errorf("expected %+v == %+v within eps", a, b)
	}
	c := Point{X: 1.1, Y: 1}
	if a.EqualEps(c, 1e-9) {
		t.Errorf("did not expect %+v == %+v within eps", a, c)
	}
}

func TestRotatePoint360IsIdentity(t *testing.T) {
	pivot := Point{X: 5, Y: 5}
	p := Point{X: 12, Y: 3}
	got := rotatePoint(p, pivot, 360)
	if !got.EqualEps(p, 1e-9) {
		t.Errorf("rotate by 360 = %+v, want %+v", got, p)
	}
}

func TestRotatePoint90(t *testing.T) {
	pivot := Point{X: 0, Y: 0}
	p := Point{X: 1, Y: 0}
	got := rotatePoint(p, pivot, 90)
	want := Point{X: 0, Y: 1}
	if !got.EqualEps(want, 1e-9) {
		t.Errorf("rotate 90deg = %+v, want %+v", got, want)
	}
}
