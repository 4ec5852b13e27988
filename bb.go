package tilespace

import (
	"fmt"
	"math"

	"github.com/setanarut/v"
)

// BB is an axis-aligned 2D bounding box. (left, bottom, right, top)
type BB struct {
	L, B, R, T float64
}

// NewBB is convenience constructor for BB structs.
func NewBB(l, b, r, t float64) BB {
	return BB{
		L: l,
		B: b,
		R: r,
		T: t,
	}
}

func (bb BB) String() string {
	return fmt.Sprintf("%v %v %v %v", bb.L, bb.B, bb.R, bb.T)
}

// NewBBForExtents constructs a BB centered on a point with the given extents (half sizes).
func NewBBForExtents(c v.Vec, hw, hh float64) BB {
	return BB{
		L: c.X - hw,
		B: c.Y - hh,
		R: c.X + hw,
		T: c.Y + hh,
	}
}

// NewBBForCircle constructs a BB for a circle with the given position and radius.
func NewBBForCircle(p v.Vec, r float64) BB {
	return NewBBForExtents(p, r, r)
}

// Intersects returns true if a and b intersect.
func (bb BB) Intersects(b BB) bool {
	return bb.L <= b.R && b.L <= bb.R && bb.B <= b.T && b.B <= bb.T
}

// Contains returns true if other lies completely within bb.
func (bb BB) Contains(other BB) bool {
	return bb.L <= other.L && bb.R >= other.R && bb.B <= other.B && bb.T >= other.T
}

// ContainsVect returns true if bb contains p.
func (bb BB) ContainsVect(p v.Vec) bool {
	return bb.L <= p.X && bb.R >= p.X && bb.B <= p.Y && bb.T >= p.Y
}

// Merge returns a bounding box that holds both bounding boxes.
func (bb BB) Merge(b BB) BB {
	return BB{
		math.Min(bb.L, b.L),
		math.Min(bb.B, b.B),
		math.Max(bb.R, b.R),
		math.Max(bb.T, b.T),
	}
}

// Expand returns a bounding box that holds both bb and p.
func (bb BB) Expand(p v.Vec) BB {
	return BB{
		math.Min(bb.L, p.X),
		math.Min(bb.B, p.Y),
		math.Max(bb.R, p.X),
		math.Max(bb.T, p.Y),
	}
}

// Center returns the center of a bounding box.
func (bb BB) Center() v.Vec {
	return v.Vec{X: bb.L, Y: bb.B}.Lerp(v.Vec{X: bb.R, Y: bb.T}, 0.5)
}

// Area returns the area of the bounding box.
func (bb BB) Area() float64 {
	return (bb.R - bb.L) * (bb.T - bb.B)
}

// Offset returns a bounding box offseted by p.
func (bb BB) Offset(p v.Vec) BB {
	return BB{
		bb.L + p.X,
		bb.B + p.Y,
		bb.R + p.X,
		bb.T + p.Y,
	}
}

// ScaledAboutCenter returns bb scaled about its center by s. The tile index
// registers entities with a slightly shrunk box so that an entity flush
// against a tile edge does not bleed into the neighboring tile.
func (bb BB) ScaledAboutCenter(s float64) BB {
	c := bb.Center()
	hw := (bb.R - bb.L) * 0.5 * s
	hh := (bb.T - bb.B) * 0.5 * s
	return NewBBForExtents(c, hw, hh)
}

// SegmentQuery returns the fraction along the segment query the BB is hit.
// Returns infinity if it doesn't hit.
func (bb BB) SegmentQuery(a, b v.Vec) float64 {
	delta := b.Sub(a)
	tmin := -infinity
	tmax := infinity

	if delta.X == 0 {
		if a.X < bb.L || bb.R < a.X {
			return infinity
		}
	} else {
		t1 := (bb.L - a.X) / delta.X
		t2 := (bb.R - a.X) / delta.X
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	}

	if delta.Y == 0 {
		if a.Y < bb.B || bb.T < a.Y {
			return infinity
		}
	} else {
		t1 := (bb.B - a.Y) / delta.Y
		t2 := (bb.T - a.Y) / delta.Y
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	}

	if tmin <= tmax && 0 <= tmax && tmin <= 1.0 {
		return math.Max(tmin, 0.0)
	}
	return infinity
}

// IntersectsSegment returns true if the bounding box intersects the line segment with ends a and b.
func (bb BB) IntersectsSegment(a, b v.Vec) bool {
	return bb.SegmentQuery(a, b) != infinity
}

// ClampVect clamps a vector to bounding box.
func (bb BB) ClampVect(vect v.Vec) v.Vec {
	return v.Vec{X: clamp(vect.X, bb.L, bb.R), Y: clamp(vect.Y, bb.B, bb.T)}
}
