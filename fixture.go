package tilespace

import (
	"fmt"
)

// ShapeKind identifies a narrow-phase shape class. The numeric order is
// load-bearing: canonical contact ordering sorts fixture pairs by kind
// (see canonicalOrder).
type ShapeKind uint8

const (
	KindCircle ShapeKind = iota
	KindEdge
	KindPolygon
	KindChain
	// KindAabb is an optimization kind for boxes that never rotate. All
	// Aabb pairs dispatch to dedicated routines instead of being cast to
	// polygons.
	KindAabb

	shapeKindCount
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "Circle"
	case KindEdge:
		return "Edge"
	case KindPolygon:
		return "Polygon"
	case KindChain:
		return "Chain"
	case KindAabb:
		return "Aabb"
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// ShapeClass is the geometry half of a fixture. Implementations cache their
// world-space data in CacheData and report it back as a bounding box.
type ShapeClass interface {
	Kind() ShapeKind
	CacheData(transform Transform) BB
	// ChildCount is 1 for primitive shapes; chains report one child per
	// segment.
	ChildCount() int
}

// Fixture is a named collision shape attached to a body, with the material
// properties mixed into contacts.
type Fixture struct {
	Class ShapeClass
	Body  *Body

	// Name identifies the fixture on its body; external systems address
	// fixtures by (entity, name).
	Name string

	Friction    float64
	Restitution float64

	// Hard is false for sensors. A contact where either fixture is
	// non-hard only ever computes an overlap boolean, never a manifold.
	Hard bool

	// BB is the world bounding box cached by the last Update.
	BB BB

	hashid uint64
}

// NewFixture wraps class in a fixture and attaches it to body.
func NewFixture(body *Body, name string, class ShapeClass) *Fixture {
	fixture := &Fixture{
		Class:    class,
		Name:     name,
		Friction: 0.4,
		Hard:     true,
	}
	body.AttachFixture(fixture)
	return fixture
}

func (f *Fixture) Kind() ShapeKind {
	return f.Class.Kind()
}

// HashID returns the fixture's stable id, assigned when it enters a world.
// Contact feature ids are built from it.
func (f *Fixture) HashID() uint64 {
	return f.hashid
}

// Update recaches the fixture's world-space data for the given transform.
func (f *Fixture) Update(transform Transform) BB {
	f.BB = f.Class.CacheData(transform)
	return f.BB
}

func (f Fixture) String() string {
	return fmt.Sprintf("%s(%T)", f.Name, f.Class)
}
