package tilespace_test

import (
	"math"
	"testing"

	"github.com/setanarut/tilespace"
	"github.com/setanarut/v"
)

func TestBBIntersects(t *testing.T) {
	a := tilespace.NewBB(0, 0, 10, 10)

	if !a.Intersects(tilespace.NewBB(5, 5, 15, 15)) {
		t.Fail()
	}
	if a.Intersects(tilespace.NewBB(11, 0, 20, 10)) {
		t.Fail()
	}
	// touching edges count as intersecting
	if !a.Intersects(tilespace.NewBB(10, 0, 20, 10)) {
		t.Fail()
	}
}

func TestBBMergeContains(t *testing.T) {
	a := tilespace.NewBB(0, 0, 10, 10)
	b := tilespace.NewBB(5, 5, 20, 20)
	m := a.Merge(b)

	if !m.Contains(a) || !m.Contains(b) {
		t.Fail()
	}
	if m.L != 0 || m.B != 0 || m.R != 20 || m.T != 20 {
		t.Fail()
	}
}

func TestBBScaledAboutCenter(t *testing.T) {
	bb := tilespace.NewBB(0, 0, 10, 10).ScaledAboutCenter(0.98)

	if math.Abs(bb.L-0.1) > 1e-9 || math.Abs(bb.R-9.9) > 1e-9 {
		t.Fail()
	}
	if math.Abs(bb.B-0.1) > 1e-9 || math.Abs(bb.T-9.9) > 1e-9 {
		t.Fail()
	}
	if !bb.Center().Equals(v.Vec{X: 5, Y: 5}) {
		t.Fail()
	}
}

func TestBBSegmentQuery(t *testing.T) {
	bb := tilespace.NewBB(10, 0, 20, 10)

	frac := bb.SegmentQuery(v.Vec{X: 0, Y: 5}, v.Vec{X: 40, Y: 5})
	if math.Abs(frac-0.25) > 1e-9 {
		t.Fatalf("fraction = %v", frac)
	}

	if bb.IntersectsSegment(v.Vec{X: 0, Y: 20}, v.Vec{X: 40, Y: 20}) {
		t.Fail()
	}
	// segment starting inside hits at zero
	if bb.SegmentQuery(v.Vec{X: 15, Y: 5}, v.Vec{X: 40, Y: 5}) != 0 {
		t.Fail()
	}
}

func TestBBClampVect(t *testing.T) {
	bb := tilespace.NewBB(0, 0, 10, 10)

	p := bb.ClampVect(v.Vec{X: 15, Y: -5})
	if p.X != 10 || p.Y != 0 {
		t.Fail()
	}
}
