package tilespace

import (
	"github.com/setanarut/v"
)

// Box is the KindAabb shape class: an axis-aligned box that follows its
// body's position but deliberately ignores its rotation. Grid collision
// rectangles and other never-rotating fixtures use it so their pairs can
// dispatch to the dedicated Aabb fast paths.
type Box struct {
	*Fixture
	c      v.Vec
	hw, hh float64
	// world-space data cached by CacheData
	bb      BB
	corners [4]v.Vec
}

// NewBoxShape returns an axis-aligned box fixture with width w and height h
// centered on offset, attached to body.
func NewBoxShape(body *Body, name string, w, h float64, offset v.Vec) *Fixture {
	box := &Box{
		c:  offset,
		hw: w / 2.0,
		hh: h / 2.0,
	}
	box.Fixture = NewFixture(body, name, box)
	return box.Fixture
}

// NewBoxShape2 returns an axis-aligned box fixture covering bb in body-local
// coordinates, attached to body.
func NewBoxShape2(body *Body, name string, bb BB) *Fixture {
	return NewBoxShape(body, name, bb.R-bb.L, bb.T-bb.B, bb.Center())
}

func (box *Box) Kind() ShapeKind {
	return KindAabb
}

func (box *Box) ChildCount() int {
	return 1
}

// CacheData translates the box by the transform's position only. The box
// stays axis aligned whatever the body's angle.
func (box *Box) CacheData(transform Transform) BB {
	c := box.c.Add(transform.Position)
	box.bb = NewBBForExtents(c, box.hw, box.hh)
	box.corners = [4]v.Vec{
		{X: box.bb.R, Y: box.bb.B},
		{X: box.bb.R, Y: box.bb.T},
		{X: box.bb.L, Y: box.bb.T},
		{X: box.bb.L, Y: box.bb.B},
	}
	return box.bb
}

// WorldBB returns the cached world bounds, valid after CacheData.
func (box *Box) WorldBB() BB {
	return box.bb
}

func (box *Box) HalfExtents() (float64, float64) {
	return box.hw, box.hh
}
