package tilespace

import (
	"math"
)

// ContactStatus is the per-step outcome of a contact update.
type ContactStatus uint8

const (
	// NoContact: the fixtures' bounds overlap but the shapes do not touch.
	NoContact ContactStatus = iota
	// StartTouching: the shapes began touching this step.
	StartTouching
	// Touching: the shapes keep touching.
	Touching
	// EndTouching: the shapes stopped touching this step.
	EndTouching
)

func (s ContactStatus) String() string {
	switch s {
	case NoContact:
		return "NoContact"
	case StartTouching:
		return "StartTouching"
	case Touching:
		return "Touching"
	case EndTouching:
		return "EndTouching"
	}
	return "ContactStatus(?)"
}

// Contact states
const (
	// Just pulled from the pool or created, not yet evaluated.
	contactFresh uint8 = iota
	contactNotTouching
	contactTouching
	// Returned to the pool; not reachable via the fixture pair anymore.
	contactDestroyed
)

// ContactListener receives touching-state transitions. Gameplay and
// audio/visual reaction systems subscribe through it.
type ContactListener interface {
	BeginTouch(contact *Contact)
	EndTouch(contact *Contact)
}

// Contact tracks one persistent collision relationship between two
// fixtures. It is created when their broad-phase bounds first overlap and
// recycled through the pool when they separate; identity is not preserved
// across reuse.
type Contact struct {
	// FixtureA and FixtureB are stored in canonical order (see
	// canonicalOrder); identical kind pairs always dispatch through the
	// same narrow-phase path regardless of creation order.
	FixtureA, FixtureB *Fixture
	// ChildA and ChildB are chain child indices; 0 for primitive shapes.
	ChildA, ChildB int

	// Enabled can be cleared to skip the contact's next update. The skipped
	// step re-arms it, so disabling is a one-step veto unless repeated.
	Enabled bool

	// Mixed material properties: Friction = sqrt(fA*fB) lets either
	// fixture drive friction to zero, Restitution = max(rA,rB) lets
	// anything bounce off an elastic surface.
	Friction     float64
	Restitution  float64
	TangentSpeed float64

	manifold    Manifold
	oldManifold Manifold
	collisionID uint32
	state       uint8
	stamp       uint64

	// bodyA and bodyB are captured when the contact threads into the edge
	// lists, so destruction still finds them after a fixture is detached.
	bodyA, bodyB *Body
	nodeA, nodeB ContactEdge
}

func mixFriction(f1, f2 float64) float64 {
	return math.Sqrt(f1 * f2)
}

func mixRestitution(r1, r2 float64) float64 {
	return math.Max(r1, r2)
}

// Manifold returns the contact's current manifold. Sensors always report
// an empty one.
func (c *Contact) Manifold() *Manifold {
	return &c.manifold
}

// OldManifold returns the manifold saved from the previous update.
func (c *Contact) OldManifold() *Manifold {
	return &c.oldManifold
}

func (c *Contact) IsTouching() bool {
	return c.state == contactTouching
}

// IsSensor reports whether either fixture is non-hard. Sensor contacts only
// ever compute an overlap boolean.
func (c *Contact) IsSensor() bool {
	return !c.FixtureA.Hard || !c.FixtureB.Hard
}

// OtherBody returns the body across the contact from body.
func (c *Contact) OtherBody(body *Body) *Body {
	if c.FixtureA.Body == body {
		return c.FixtureB.Body
	}
	return c.FixtureA.Body
}

// reset reinitializes the contact for a fixture pair. All transient state
// (manifolds, impulses, flags, edges) is cleared. Materials are remixed
// only when both fixtures are non-nil: the destruction path resets with
// nils and skips remixing for a contact about to be discarded.
func (c *Contact) reset(fixtureA *Fixture, childA int, fixtureB *Fixture, childB int) {
	c.FixtureA = fixtureA
	c.FixtureB = fixtureB
	c.ChildA = childA
	c.ChildB = childB
	c.Enabled = true
	c.TangentSpeed = 0
	c.manifold.Reset()
	c.oldManifold.Reset()
	c.collisionID = 0
	c.state = contactFresh
	c.stamp = 0
	c.bodyA = nil
	c.bodyB = nil
	c.nodeA = ContactEdge{}
	c.nodeB = ContactEdge{}

	if fixtureA != nil && fixtureB != nil {
		c.Friction = mixFriction(fixtureA.Friction, fixtureB.Friction)
		c.Restitution = mixRestitution(fixtureA.Restitution, fixtureB.Restitution)
	}
}

// Update refreshes the contact for the current step: it saves the previous
// manifold, recomputes touching state (overlap test for sensors, narrow
// phase otherwise), carries accumulated impulses over to contact points
// whose ids survived, wakes both bodies on a touching flip and reports the
// transition.
func (c *Contact) Update(listener ContactListener) ContactStatus {
	c.oldManifold = c.manifold

	wasTouching := c.state == contactTouching
	touching := false

	bodyA := c.FixtureA.Body
	bodyB := c.FixtureB.Body

	if c.IsSensor() {
		touching = overlapTest(c.FixtureA, c.FixtureB, c.ChildA, c.ChildB)
		// Sensors don't generate manifolds.
		c.manifold.Reset()
	} else {
		c.collisionID = evaluate(c.FixtureA, c.FixtureB, c.ChildA, c.ChildB, c.collisionID, &c.manifold)
		touching = c.manifold.Count > 0

		// Match old contact point ids to new ones and copy the stored
		// impulses to warm start the solver.
		for i := 0; i < c.manifold.Count; i++ {
			mp2 := &c.manifold.Points[i]
			mp2.NormalImpulse = 0
			mp2.TangentImpulse = 0

			for j := 0; j < c.oldManifold.Count; j++ {
				mp1 := &c.oldManifold.Points[j]
				if mp1.ID == mp2.ID {
					mp2.NormalImpulse = mp1.NormalImpulse
					mp2.TangentImpulse = mp1.TangentImpulse
					break
				}
			}
		}

		if touching != wasTouching {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
	}

	if touching {
		c.state = contactTouching
	} else {
		c.state = contactNotTouching
	}

	switch {
	case !wasTouching && touching:
		if listener != nil {
			listener.BeginTouch(c)
		}
		return StartTouching
	case wasTouching && !touching:
		if listener != nil {
			listener.EndTouch(c)
		}
		return EndTouching
	case touching:
		return Touching
	}
	return NoContact
}
