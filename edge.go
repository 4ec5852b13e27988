package tilespace

import (
	"math"

	"github.com/setanarut/v"
)

// Edge is a single line segment with an outward normal and optional rounding
// radius. Chains produce one logical edge per child; a standalone Edge
// fixture is child 0 of itself.
type Edge struct {
	*Fixture
	a, b, n                            v.Vec
	transformA, transformB, transformN v.Vec
	// Tangents to the neighboring edges, used to reject endcap collisions
	// so bodies slide across shared chain vertices without snagging.
	aTangent, bTangent v.Vec
	radius             float64
}

// NewEdgeShape returns an edge fixture between points a and b with rounding
// radius r, attached to body.
func NewEdgeShape(body *Body, name string, a, b v.Vec, r float64) *Fixture {
	edge := &Edge{
		a:      a,
		b:      b,
		n:      reversePerp(b.Sub(a)).Unit(),
		radius: r,
	}
	edge.Fixture = NewFixture(body, name, edge)
	return edge.Fixture
}

func (edge *Edge) Kind() ShapeKind {
	return KindEdge
}

func (edge *Edge) ChildCount() int {
	return 1
}

func (edge *Edge) CacheData(transform Transform) BB {
	edge.transformA = transform.Apply(edge.a)
	edge.transformB = transform.Apply(edge.b)
	edge.transformN = transform.ApplyVector(edge.n)

	l := math.Min(edge.transformA.X, edge.transformB.X)
	r := math.Max(edge.transformA.X, edge.transformB.X)
	b := math.Min(edge.transformA.Y, edge.transformB.Y)
	t := math.Max(edge.transformA.Y, edge.transformB.Y)

	rad := edge.radius
	return BB{l - rad, b - rad, r + rad, t + rad}
}

// SetNeighborTangents provides the directions toward the previous and next
// vertex of the surrounding chain.
func (edge *Edge) SetNeighborTangents(prev, next v.Vec) {
	edge.aTangent = prev.Sub(edge.a)
	edge.bTangent = next.Sub(edge.b)
}

func (edge *Edge) Radius() float64 {
	return edge.radius
}

func (edge *Edge) TransformA() v.Vec {
	return edge.transformA
}

func (edge *Edge) TransformB() v.Vec {
	return edge.transformB
}

func (edge *Edge) Normal() v.Vec {
	return edge.transformN
}
