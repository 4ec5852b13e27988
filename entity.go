package tilespace

import (
	"github.com/setanarut/v"
)

// Entity is a world object tracked by the tile index. Physics participation
// is optional: an entity with a Body gets its bounds and anchor recomputed
// from the body's fixtures every step, a bodiless entity is moved through
// the command queue.
type Entity struct {
	ID EntityID

	// Body is nil for entities that only want spatial queries.
	Body *Body

	// UserData is an object this entity is associated with.
	UserData any

	position  v.Vec
	aabb      BB
	contained bool
}

// Position returns the entity's anchor point. For bodied entities this is
// the body position.
func (e *Entity) Position() v.Vec {
	return e.position
}

// AABB returns the entity's current world bounds.
func (e *Entity) AABB() BB {
	return e.aabb
}

// Contained reports whether the entity currently lives inside a container.
// Contained entities are invisible to the tile index and every query.
func (e *Entity) Contained() bool {
	return e.contained
}

// syncFromBody recomputes the entity's anchor and bounds from its body's
// cached fixture data. Valid after the body's fixtures were updated.
func (e *Entity) syncFromBody() {
	e.position = e.Body.Position()
	first := true
	for _, fixture := range e.Body.Fixtures {
		if first {
			e.aabb = fixture.BB
			first = false
		} else {
			e.aabb = e.aabb.Merge(fixture.BB)
		}
	}
	if first {
		e.aabb = NewBBForExtents(e.position, 0, 0)
	}
}
