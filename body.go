package tilespace

import (
	"github.com/setanarut/v"
)

// BodyType for bodies; Dynamic, Kinematic or Static
type BodyType uint8

const (
	Dynamic   BodyType = 0
	Kinematic BodyType = 1
	Static    BodyType = 2
)

// Body is the rigid transform a set of fixtures hangs off. It does not
// integrate velocities; impulse solving lives with the consumer of the
// contact pipeline. The body record carries exactly what contacts and the
// tile index need: a world transform, an awake flag, the fixture list and
// the head of the contact edge list.
type Body struct {
	// UserData is an object that this body is associated with.
	//
	// You can use this get a reference to your game object or controller
	// object from within callbacks.
	UserData any

	Fixtures []*Fixture

	bodyType    BodyType
	position    v.Vec
	angle       float64
	transform   Transform
	awake       bool
	contactList *ContactEdge
}

// NewBody allocates a dynamic body at the origin.
func NewBody() *Body {
	return &Body{
		bodyType:  Dynamic,
		transform: NewTransformIdentity(),
		awake:     true,
	}
}

// NewStaticBody allocates a static body at the origin.
func NewStaticBody() *Body {
	body := NewBody()
	body.bodyType = Static
	return body
}

func (body *Body) Type() BodyType {
	return body.bodyType
}

func (body *Body) SetType(bt BodyType) {
	body.bodyType = bt
}

func (body *Body) Position() v.Vec {
	return body.position
}

func (body *Body) Angle() float64 {
	return body.angle
}

// Rotation returns the rotation of the body as a unit complex number.
func (body *Body) Rotation() v.Vec {
	return body.transform.Rot
}

func (body *Body) Transform() Transform {
	return body.transform
}

// SetTransform moves the body to position p with angle a. Cached fixture
// bounds are stale until the next UpdateFixtures / world step.
func (body *Body) SetTransform(p v.Vec, a float64) {
	body.position = p
	body.angle = a
	body.transform = NewTransform(p, a)
}

func (body *Body) SetPosition(p v.Vec) {
	body.SetTransform(p, body.angle)
}

// IsAwake reports whether the body is awake. Touching-state transitions and
// contact destruction mark both owning bodies awake; acting on the flag is
// the solver's responsibility.
func (body *Body) IsAwake() bool {
	return body.awake
}

func (body *Body) SetAwake(awake bool) {
	body.awake = awake
}

// AttachFixture adds fixture to the body's fixture list.
func (body *Body) AttachFixture(fixture *Fixture) {
	fixture.Body = body
	body.Fixtures = append(body.Fixtures, fixture)
}

// DetachFixture removes fixture from the body's fixture list and clears its
// back pointer. Contacts referencing a detached fixture are destroyed on the
// next world step.
func (body *Body) DetachFixture(fixture *Fixture) {
	for i, f := range body.Fixtures {
		if f == fixture {
			body.Fixtures = append(body.Fixtures[:i], body.Fixtures[i+1:]...)
			fixture.Body = nil
			return
		}
	}
}

// UpdateFixtures recaches the world-space data of every fixture on the body.
func (body *Body) UpdateFixtures() {
	for _, fixture := range body.Fixtures {
		fixture.Update(body.transform)
	}
}

// ContactList returns the head of the body's contact edge list.
func (body *Body) ContactList() *ContactEdge {
	return body.contactList
}

// EachContact enumerates the contacts attached to this body, an O(degree)
// walk of the edge list rather than a scan of the world's contact set.
func (body *Body) EachContact(f func(*Contact)) {
	for edge := body.contactList; edge != nil; edge = edge.Next {
		f(edge.Contact)
	}
}
