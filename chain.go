package tilespace

import (
	"math"

	"github.com/setanarut/v"
)

// Chain is a polyline of edge children sharing vertices. Each child collides
// as an edge with neighbor tangents, so shapes slide across the shared
// vertices without catching. Contacts against a chain are created per child
// and carry the child index.
type Chain struct {
	*Fixture
	verts          []v.Vec
	transformVerts []v.Vec
	childBounds    []BB
	radius         float64
	loop           bool
}

// NewChainShape returns a chain fixture over verts, attached to body. If
// loop is true the last vertex connects back to the first.
func NewChainShape(body *Body, name string, verts []v.Vec, radius float64, loop bool) *Fixture {
	if len(verts) < 2 {
		panic("tilespace: chain needs at least two vertices")
	}
	chain := &Chain{
		verts:          verts,
		transformVerts: make([]v.Vec, len(verts)),
		radius:         radius,
		loop:           loop,
	}
	chain.childBounds = make([]BB, chain.ChildCount())
	chain.Fixture = NewFixture(body, name, chain)
	return chain.Fixture
}

func (chain *Chain) Kind() ShapeKind {
	return KindChain
}

func (chain *Chain) ChildCount() int {
	if chain.loop {
		return len(chain.verts)
	}
	return len(chain.verts) - 1
}

func (chain *Chain) CacheData(transform Transform) BB {
	for i, p := range chain.verts {
		chain.transformVerts[i] = transform.Apply(p)
	}

	bb := BB{infinity, infinity, -infinity, -infinity}
	for i := range chain.ChildCount() {
		a, b := chain.childEndpoints(i)
		child := BB{
			math.Min(a.X, b.X) - chain.radius,
			math.Min(a.Y, b.Y) - chain.radius,
			math.Max(a.X, b.X) + chain.radius,
			math.Max(a.Y, b.Y) + chain.radius,
		}
		chain.childBounds[i] = child
		bb = bb.Merge(child)
	}
	return bb
}

// ChildBB returns the world bounds of child i, valid after CacheData.
func (chain *Chain) ChildBB(i int) BB {
	return chain.childBounds[i]
}

func (chain *Chain) childEndpoints(i int) (v.Vec, v.Vec) {
	n := len(chain.transformVerts)
	return chain.transformVerts[i], chain.transformVerts[(i+1)%n]
}

// childEdge returns the world-space edge geometry of child i, with tangents
// toward the neighboring vertices when they exist.
func (chain *Chain) childEdge(i int) edgeGeom {
	count := len(chain.transformVerts)
	a, b := chain.childEndpoints(i)

	geom := edgeGeom{
		a:      a,
		b:      b,
		n:      reversePerp(b.Sub(a)).Unit(),
		radius: chain.radius,
		hashA:  hashPair(chain.hashid, uint64(i)),
		hashB:  hashPair(chain.hashid, uint64(i+1)),
	}

	if chain.loop || i > 0 {
		prev := chain.transformVerts[(i-1+count)%count]
		geom.aTangent = prev.Sub(a)
	}
	if chain.loop || i < chain.ChildCount()-1 {
		next := chain.transformVerts[(i+2)%count]
		geom.bTangent = next.Sub(b)
	}
	return geom
}
