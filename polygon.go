package tilespace

import (
	"math"

	"github.com/setanarut/v"
)

type SplittingPlane struct {
	V0, N v.Vec
}

type Polygon struct {
	*Fixture
	Radius float64
	count  int
	// The untransformed planes are appended at the end of the transformed planes.
	planes []SplittingPlane
}

// NewPolygonShape returns a polygon fixture, attached to body. The vertexes
// must be convex with a counter-clockwise winding.
func NewPolygonShape(body *Body, name string, verts []v.Vec, roundingRadius float64) *Fixture {
	poly := &Polygon{
		Radius: roundingRadius,
	}
	poly.setVerts(len(verts), verts)
	poly.Fixture = NewFixture(body, name, poly)
	return poly.Fixture
}

func (poly *Polygon) Kind() ShapeKind {
	return KindPolygon
}

func (poly *Polygon) ChildCount() int {
	return 1
}

func (poly *Polygon) CacheData(transform Transform) BB {
	count := poly.count
	dst := poly.planes[0:count]
	src := poly.planes[count:]

	l := infinity
	r := -infinity
	b := infinity
	t := -infinity

	for i := range count {
		p := transform.Apply(src[i].V0)
		n := transform.ApplyVector(src[i].N)

		dst[i].V0 = p
		dst[i].N = n

		l = math.Min(l, p.X)
		r = math.Max(r, p.X)
		b = math.Min(b, p.Y)
		t = math.Max(t, p.Y)
	}

	radius := poly.Radius
	return BB{l - radius, b - radius, r + radius, t + radius}
}

func (poly *Polygon) Count() int {
	return poly.count
}

// Vert returns the untransformed vertex at vertIndex.
func (poly *Polygon) Vert(vertIndex int) v.Vec {
	return poly.planes[vertIndex+poly.count].V0
}

// TransformVert returns the world-space vertex at i, valid after CacheData.
func (poly *Polygon) TransformVert(i int) v.Vec {
	return poly.planes[i].V0
}

func (poly *Polygon) setVerts(count int, verts []v.Vec) {
	poly.count = count
	poly.planes = make([]SplittingPlane, count*2)

	for i := range count {
		a := verts[(i-1+count)%count]
		b := verts[i]
		n := reversePerp(b.Sub(a)).Unit()

		poly.planes[i+count].V0 = b
		poly.planes[i+count].N = n
	}
}
