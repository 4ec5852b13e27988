package tilespace

import (
	"sync"
)

const pooledContactCount = 256

// contactPool recycles Contact objects across steps so broad-phase churn
// does not allocate. A pooled contact's identity is reused for unrelated
// future fixture pairs; callers must treat post-reset state as fully
// reinitialized.
type contactPool struct {
	pool sync.Pool
}

func newContactPool() *contactPool {
	p := &contactPool{
		pool: sync.Pool{New: func() any { return &Contact{} }},
	}
	for range pooledContactCount {
		p.pool.Put(&Contact{})
	}
	return p
}

// Create pops a pooled contact (or allocates one), applies canonical
// ordering to the fixture pair and resets every transient field, then
// threads the contact into both bodies' edge lists.
func (p *contactPool) Create(fixtureA *Fixture, childA int, fixtureB *Fixture, childB int) *Contact {
	a, b, swapped := canonicalOrder(fixtureA, fixtureB)
	if swapped {
		childA, childB = childB, childA
	}

	c := p.pool.Get().(*Contact)
	c.reset(a, childA, b, childB)
	c.attachEdges()
	return c
}

// Destroy tears a contact down: if it still had manifold points and both
// fixtures were hard, both bodies are woken so the separation gets solved;
// then the contact is unthreaded, reset and returned to the pool.
func (p *contactPool) Destroy(c *Contact) {
	if c.manifold.Count > 0 && c.FixtureA.Hard && c.FixtureB.Hard {
		c.bodyA.SetAwake(true)
		c.bodyB.SetAwake(true)
	}

	c.detachEdges()
	c.reset(nil, 0, nil, 0)
	c.state = contactDestroyed

	debugAssert(c.nodeA.Prev == nil && c.nodeA.Next == nil &&
		c.nodeB.Prev == nil && c.nodeB.Next == nil,
		"pooled contact still threaded into a body's edge list")

	p.pool.Put(c)
}
