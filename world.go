package tilespace

import (
	"fmt"

	"github.com/setanarut/v"
)

// World is the composition root: grids, entities, the tile lookup, the
// command queue and the contact set. One Step drains the queue, refreshes
// entity bounds and index registration, then creates, updates and destroys
// contacts from broad-phase overlap.
type World struct {
	// Listener receives touching-state transitions; nil disables callbacks.
	Listener ContactListener

	grids      map[GridID]*Grid
	entities   map[EntityID]*Entity
	entityList []*Entity

	lookup *TileLookup
	queue  *LookupQueue

	contacts map[pairKey]*Contact
	pool     *contactPool

	stamp         uint64
	locked        bool
	nextEntityID  EntityID
	nextFixtureID uint64
}

// pairKey identifies a contact by its fixtures' stable ids and chain child
// indices, ordered so either creation order maps to the same key.
type pairKey struct {
	idA, idB       uint64
	childA, childB int
}

func makePairKey(fa *Fixture, childA int, fb *Fixture, childB int) pairKey {
	a, b := fa.hashid, fb.hashid
	if a > b || (a == b && childA > childB) {
		a, b = b, a
		childA, childB = childB, childA
	}
	return pairKey{idA: a, idB: b, childA: childA, childB: childB}
}

func NewWorld() *World {
	w := &World{
		grids:    make(map[GridID]*Grid),
		entities: make(map[EntityID]*Entity),
		contacts: make(map[pairKey]*Contact),
		pool:     newContactPool(),
	}
	w.lookup = newTileLookup(w)
	w.queue = newLookupQueue(w)
	return w
}

// Lookup returns the world's tile index.
func (w *World) Lookup() *TileLookup {
	return w.lookup
}

// Queue returns the world's command queue. Commands queued at any time apply
// at the start of the next Step.
func (w *World) Queue() *LookupQueue {
	return w.queue
}

// Stamp returns the current step counter. Chunk version stamps compare
// against it.
func (w *World) Stamp() uint64 {
	return w.stamp
}

// AddGrid creates a grid with the given id and tile size. Duplicate ids are
// a caller bug.
func (w *World) AddGrid(id GridID, tileSize float64) *Grid {
	if _, exists := w.grids[id]; exists {
		panic(fmt.Sprintf("tilespace: duplicate grid id %d", id))
	}
	grid := newGrid(w, id, tileSize)
	w.grids[id] = grid
	return grid
}

// Grid returns the grid with the given id. Unknown ids are a caller bug.
func (w *World) Grid(id GridID) *Grid {
	grid := w.grids[id]
	if grid == nil {
		panic(fmt.Sprintf("tilespace: unknown grid id %d", id))
	}
	return grid
}

// EachGrid enumerates the world's grids in unspecified order.
func (w *World) EachGrid(f func(*Grid)) {
	for _, grid := range w.grids {
		f(grid)
	}
}

// registerFixture assigns the fixture its stable id. Every fixture that can
// enter a contact must pass through here exactly once.
func (w *World) registerFixture(f *Fixture) {
	w.nextFixtureID++
	f.hashid = w.nextFixtureID
}

// Spawn creates a bodiless entity at position with the given bounds and
// registers it with the tile index immediately.
func (w *World) Spawn(position v.Vec, aabb BB) *Entity {
	if w.locked {
		panic("tilespace: spawn during step; queue the change instead")
	}
	w.nextEntityID++
	e := &Entity{
		ID:       w.nextEntityID,
		position: position,
		aabb:     aabb,
	}
	w.entities[e.ID] = e
	w.entityList = append(w.entityList, e)
	w.lookup.AddEntity(e)
	return e
}

// SpawnBody creates an entity owning body, registers the body's fixtures
// and indexes the entity at the body's current transform.
func (w *World) SpawnBody(body *Body) *Entity {
	if w.locked {
		panic("tilespace: spawn during step; queue the change instead")
	}
	for _, fixture := range body.Fixtures {
		w.registerFixture(fixture)
	}
	body.UpdateFixtures()

	w.nextEntityID++
	e := &Entity{
		ID:   w.nextEntityID,
		Body: body,
	}
	e.syncFromBody()
	w.entities[e.ID] = e
	w.entityList = append(w.entityList, e)
	w.lookup.AddEntity(e)
	return e
}

// Entity returns the entity with the given id, or nil if it does not exist.
func (w *World) Entity(id EntityID) *Entity {
	return w.entities[id]
}

// removeEntity tears an entity down: its body's contacts are destroyed, it
// leaves the tile index and the entity tables.
func (w *World) removeEntity(e *Entity) {
	if e.Body != nil {
		var doomed []*Contact
		e.Body.EachContact(func(c *Contact) {
			doomed = append(doomed, c)
		})
		for _, c := range doomed {
			w.destroyContact(makePairKeyFromContact(c), c)
		}
	}
	w.lookup.RemoveEntity(e.ID)
	delete(w.entities, e.ID)
	for i, other := range w.entityList {
		if other == e {
			w.entityList = append(w.entityList[:i], w.entityList[i+1:]...)
			break
		}
	}
}

func makePairKeyFromContact(c *Contact) pairKey {
	return makePairKey(c.FixtureA, c.ChildA, c.FixtureB, c.ChildB)
}

// QueryTile returns the ids of the entities occupying one tile of one grid.
func (w *World) QueryTile(grid GridID, coord TileCoord) []EntityID {
	return w.lookup.QueryTile(grid, coord)
}

// QueryEntity returns the tiles an entity currently occupies.
func (w *World) QueryEntity(id EntityID) []TileRef {
	return w.lookup.QueryEntity(id)
}

// EachContact enumerates the world's live contacts in unspecified order.
func (w *World) EachContact(f func(*Contact)) {
	for _, c := range w.contacts {
		f(c)
	}
}

// ContactCount returns the number of live contacts.
func (w *World) ContactCount() int {
	return len(w.contacts)
}

// Step advances the world one tick: queued commands apply first, then every
// bodied entity's fixtures and index registration refresh, then the contact
// set is reconciled against broad-phase overlap and each surviving contact
// is updated, firing Listener transitions.
func (w *World) Step() {
	if w.locked {
		panic("tilespace: world is locked")
	}
	w.locked = true
	defer func() { w.locked = false }()

	w.stamp++
	w.queue.process()

	for _, e := range w.entityList {
		if e.Body == nil {
			continue
		}
		e.Body.UpdateFixtures()
		e.syncFromBody()
		w.lookup.UpdateOnMove(e)
	}

	w.findPairs()
	w.updateContacts()
}

// findPairs creates contacts for fixture pairs whose bounds started
// overlapping: entity against entity through shared lookup tiles, and
// entity against the chunk collision boxes of every grid it overlaps.
func (w *World) findPairs() {
	for _, e := range w.entityList {
		if e.Body == nil || e.contained {
			continue
		}

		for _, node := range w.lookup.entities[e.ID] {
			for otherID := range node.entities {
				if otherID <= e.ID {
					continue
				}
				other := w.entities[otherID]
				if other == nil || other.Body == nil {
					continue
				}
				for _, fa := range e.Body.Fixtures {
					for _, fb := range other.Body.Fixtures {
						w.pairFixtures(fa, fb)
					}
				}
			}
		}

		for _, grid := range w.grids {
			x0, y0, x1, y1 := grid.tileRange(e.aabb)
			cx0, cy0 := floorDiv(x0, ChunkSize), floorDiv(y0, ChunkSize)
			cx1, cy1 := floorDiv(x1, ChunkSize), floorDiv(y1, ChunkSize)
			for cy := cy0; cy <= cy1; cy++ {
				for cx := cx0; cx <= cx1; cx++ {
					chunk := grid.chunks[ChunkCoord{X: cx, Y: cy}]
					if chunk == nil {
						continue
					}
					for _, fb := range chunk.fixtures {
						for _, fa := range e.Body.Fixtures {
							w.pairFixtures(fa, fb)
						}
					}
				}
			}
		}
	}
}

// pairFixtures creates contacts for every overlapping child pair of two
// fixtures. Hard pairs with no narrow-phase routine (edge against edge or
// chain) are skipped; sensors overlap-test any pair.
func (w *World) pairFixtures(fa, fb *Fixture) {
	if fa.Body == fb.Body {
		return
	}
	if fa.Hard && fb.Hard {
		ca, cb, _ := canonicalOrder(fa, fb)
		if collideFuncs[ca.Kind()][cb.Kind()] == nil {
			return
		}
	}

	for childA := 0; childA < fa.Class.ChildCount(); childA++ {
		bbA := childBB(fa, childA)
		for childB := 0; childB < fb.Class.ChildCount(); childB++ {
			if !bbA.Intersects(childBB(fb, childB)) {
				continue
			}
			key := makePairKey(fa, childA, fb, childB)
			if _, exists := w.contacts[key]; exists {
				continue
			}
			w.contacts[key] = w.pool.Create(fa, childA, fb, childB)
		}
	}
}

// childBB returns the bounds of one child of a fixture: the per-segment
// bounds for chains, the whole fixture bounds otherwise.
func childBB(f *Fixture, child int) BB {
	if chain, ok := f.Class.(*Chain); ok {
		return chain.ChildBB(child)
	}
	return f.BB
}

// updateContacts walks the contact set, destroying contacts whose fixtures
// were detached or whose bounds separated and updating the rest.
func (w *World) updateContacts() {
	for key, c := range w.contacts {
		if c.FixtureA.Body == nil || c.FixtureB.Body == nil {
			w.destroyContact(key, c)
			continue
		}
		if !childBB(c.FixtureA, c.ChildA).Intersects(childBB(c.FixtureB, c.ChildB)) {
			w.destroyContact(key, c)
			continue
		}
		if !c.Enabled {
			// skipped for this step, then re-armed
			c.Enabled = true
			continue
		}
		c.stamp = w.stamp
		c.Update(w.Listener)
	}
}

// destroyContact removes a contact from the world. A still-touching contact
// fires EndTouch on the way out.
func (w *World) destroyContact(key pairKey, c *Contact) {
	if c.IsTouching() && w.Listener != nil {
		w.Listener.EndTouch(c)
	}
	delete(w.contacts, key)
	w.pool.Destroy(c)
}
