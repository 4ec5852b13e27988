package tilespace_test

import (
	"testing"

	"github.com/setanarut/tilespace"
	"github.com/setanarut/v"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueMovesCollapseToLast(t *testing.T) {
	w := lookupWorld(t)
	e := w.Spawn(v.Vec{X: 25, Y: 25}, tilespace.NewBB(20, 20, 30, 30))

	w.Queue().QueueMove(e.ID, v.Vec{X: 45, Y: 45}, tilespace.NewBB(40, 40, 50, 50))
	w.Queue().QueueMove(e.ID, v.Vec{X: 65, Y: 65}, tilespace.NewBB(60, 60, 70, 70))
	w.Step()

	assert.Equal(t, v.Vec{X: 65, Y: 65}, e.Position())
	assert.Equal(t, []tilespace.TileRef{{Grid: 1, Coord: tilespace.TileCoord{X: 6, Y: 6}}}, w.QueryEntity(e.ID))
	assert.Empty(t, w.QueryTile(1, tilespace.TileCoord{X: 4, Y: 4}))
}

func TestQueueContainerTransitions(t *testing.T) {
	w := lookupWorld(t)
	e := w.Spawn(v.Vec{X: 25, Y: 25}, tilespace.NewBB(20, 20, 30, 30))

	w.Queue().QueueContainerInsert(e.ID)
	w.Step()

	assert.True(t, e.Contained())
	assert.Empty(t, w.QueryEntity(e.ID))
	assert.Empty(t, w.QueryAabb(tilespace.NewBB(0, 0, 160, 160)))

	w.Queue().QueueContainerRemove(e.ID)
	w.Step()

	assert.False(t, e.Contained())
	assert.Contains(t, w.QueryTile(1, tilespace.TileCoord{X: 2, Y: 2}), e.ID)
}

func TestQueueMoveWhileContainedDefersIndexing(t *testing.T) {
	w := lookupWorld(t)
	e := w.Spawn(v.Vec{X: 25, Y: 25}, tilespace.NewBB(20, 20, 30, 30))

	w.Queue().QueueContainerInsert(e.ID)
	w.Step()

	// the move lands but the entity stays out of the index until removal
	// from the container
	w.Queue().QueueMove(e.ID, v.Vec{X: 45, Y: 45}, tilespace.NewBB(40, 40, 50, 50))
	w.Step()
	assert.Equal(t, v.Vec{X: 45, Y: 45}, e.Position())
	assert.Empty(t, w.QueryEntity(e.ID))

	w.Queue().QueueContainerRemove(e.ID)
	w.Step()
	assert.Contains(t, w.QueryTile(1, tilespace.TileCoord{X: 4, Y: 4}), e.ID)
}

func TestQueueDeleteWinsOverMove(t *testing.T) {
	w := lookupWorld(t)
	e := w.Spawn(v.Vec{X: 25, Y: 25}, tilespace.NewBB(20, 20, 30, 30))

	// same-step move and delete: deletions apply last
	w.Queue().QueueMove(e.ID, v.Vec{X: 45, Y: 45}, tilespace.NewBB(40, 40, 50, 50))
	w.Queue().QueueDelete(e.ID)
	w.Step()

	assert.Nil(t, w.Entity(e.ID))
	assert.Empty(t, w.QueryTile(1, tilespace.TileCoord{X: 4, Y: 4}))
	assert.Empty(t, w.QueryTile(1, tilespace.TileCoord{X: 2, Y: 2}))
}

func TestQueueCommandsForUnknownEntityIgnored(t *testing.T) {
	w := lookupWorld(t)

	w.Queue().QueueMove(999, v.Vec{X: 45, Y: 45}, tilespace.NewBB(40, 40, 50, 50))
	w.Queue().QueueContainerInsert(999)
	w.Queue().QueueDelete(999)

	assert.NotPanics(t, func() { w.Step() })
}

func TestQueryAabbExactVersusApproximate(t *testing.T) {
	w := lookupWorld(t)
	e := w.Spawn(v.Vec{X: 22, Y: 22}, tilespace.NewBB(20, 20, 24, 24))

	// probe overlaps the entity's tile but not the entity itself
	probe := tilespace.NewBB(26, 26, 28, 28)

	assert.Empty(t, w.QueryAabb(probe))
	assert.Equal(t, []tilespace.EntityID{e.ID}, w.QueryAabbApproximate(probe))

	hit := tilespace.NewBB(23, 23, 28, 28)
	assert.Equal(t, []tilespace.EntityID{e.ID}, w.QueryAabb(hit))
}

func TestQueryRaySortedByDistance(t *testing.T) {
	w := lookupWorld(t)
	near := w.Spawn(v.Vec{X: 55, Y: 25}, tilespace.NewBB(50, 20, 60, 30))
	far := w.Spawn(v.Vec{X: 105, Y: 25}, tilespace.NewBB(100, 20, 110, 30))
	w.Spawn(v.Vec{X: 55, Y: 85}, tilespace.NewBB(50, 80, 60, 90)) // off the ray

	hits := w.QueryRay(v.Vec{X: 0, Y: 25}, v.Vec{X: 1, Y: 0}, 200)
	require.Len(t, hits, 2)
	assert.Equal(t, near.ID, hits[0].Entity)
	assert.Equal(t, far.ID, hits[1].Entity)
	assert.InDelta(t, 0.25, hits[0].Fraction, 1e-9)
	assert.InDelta(t, 0.5, hits[1].Fraction, 1e-9)
	assert.Less(t, hits[0].Fraction, hits[1].Fraction)
}

func TestStepReentrancyPanics(t *testing.T) {
	w := lookupWorld(t)

	body := tilespace.NewBody()
	tilespace.NewCircleShape(body, "circle", 5, v.Vec{})
	body.SetPosition(v.Vec{X: 25, Y: 25})
	w.SpawnBody(body)

	other := tilespace.NewBody()
	tilespace.NewCircleShape(other, "circle", 5, v.Vec{})
	other.SetPosition(v.Vec{X: 31, Y: 25})
	w.SpawnBody(other)

	reentered := false
	w.Listener = touchFunc(func(c *tilespace.Contact) {
		assert.Panics(t, func() { w.Step() })
		reentered = true
	})

	w.Step()
	require.True(t, reentered, "listener never fired")
}

// touchFunc adapts a func to ContactListener, firing it on begin only.
type touchFunc func(*tilespace.Contact)

func (f touchFunc) BeginTouch(c *tilespace.Contact) { f(c) }
func (f touchFunc) EndTouch(c *tilespace.Contact)   {}

func TestDeletedEntityContactsDestroyed(t *testing.T) {
	w := lookupWorld(t)

	a := tilespace.NewBody()
	tilespace.NewCircleShape(a, "circle", 5, v.Vec{})
	a.SetPosition(v.Vec{X: 25, Y: 25})
	ea := w.SpawnBody(a)

	b := tilespace.NewBody()
	tilespace.NewCircleShape(b, "circle", 5, v.Vec{})
	b.SetPosition(v.Vec{X: 31, Y: 25})
	w.SpawnBody(b)

	w.Step()
	require.Equal(t, 1, w.ContactCount())

	w.Queue().QueueDelete(ea.ID)
	w.Step()

	assert.Zero(t, w.ContactCount())
	assert.Nil(t, b.ContactList())
}

func TestChainCollision(t *testing.T) {
	w := lookupWorld(t)

	ground := tilespace.NewStaticBody()
	tilespace.NewChainShape(ground, "ground", []v.Vec{
		{X: 20, Y: 40}, {X: 60, Y: 40}, {X: 100, Y: 40},
	}, 1, false)
	w.SpawnBody(ground)

	ball := tilespace.NewBody()
	tilespace.NewCircleShape(ball, "ball", 5, v.Vec{})
	ball.SetPosition(v.Vec{X: 40, Y: 45})
	w.SpawnBody(ball)

	w.Step()

	require.Equal(t, 1, w.ContactCount())
	w.EachContact(func(c *tilespace.Contact) {
		assert.True(t, c.IsTouching())
		assert.Equal(t, tilespace.KindChain, c.FixtureA.Kind())
		assert.Equal(t, tilespace.KindCircle, c.FixtureB.Kind())
	})
}
