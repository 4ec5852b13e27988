package tilespace

import (
	"github.com/setanarut/v"
)

type Circle struct {
	*Fixture
	c, transformC v.Vec
	radius        float64
}

// NewCircleShape returns a circle fixture with radius r centered on offset,
// attached to body.
func NewCircleShape(body *Body, name string, r float64, offset v.Vec) *Fixture {
	circle := &Circle{
		c:      offset,
		radius: r,
	}
	circle.Fixture = NewFixture(body, name, circle)
	return circle.Fixture
}

func (circle *Circle) Kind() ShapeKind {
	return KindCircle
}

func (circle *Circle) ChildCount() int {
	return 1
}

func (circle *Circle) CacheData(transform Transform) BB {
	circle.transformC = transform.Apply(circle.c)
	return NewBBForCircle(circle.transformC, circle.radius)
}

func (circle *Circle) Radius() float64 {
	return circle.radius
}

func (circle *Circle) TransformC() v.Vec {
	return circle.transformC
}
