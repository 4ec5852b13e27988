package tilespace

// ContactEdge is a node of the contact graph: each body keeps a doubly
// linked list of edges, one per contact it participates in, so "all
// contacts touching this body" is an O(degree) walk instead of a scan of
// the world's contact set. Each contact owns two edges, one threaded into
// each attached body.
type ContactEdge struct {
	// Other is the body across the contact.
	Other   *Body
	Contact *Contact
	Prev    *ContactEdge
	Next    *ContactEdge
}

// attachEdges threads the contact into both bodies' edge lists. Both lists
// are updated before returning; a contact is never reachable from only one
// of its bodies.
func (c *Contact) attachEdges() {
	bodyA := c.FixtureA.Body
	bodyB := c.FixtureB.Body
	c.bodyA = bodyA
	c.bodyB = bodyB

	c.nodeA.Contact = c
	c.nodeA.Other = bodyB
	c.nodeA.Prev = nil
	c.nodeA.Next = bodyA.contactList
	if bodyA.contactList != nil {
		bodyA.contactList.Prev = &c.nodeA
	}
	bodyA.contactList = &c.nodeA

	c.nodeB.Contact = c
	c.nodeB.Other = bodyA
	c.nodeB.Prev = nil
	c.nodeB.Next = bodyB.contactList
	if bodyB.contactList != nil {
		bodyB.contactList.Prev = &c.nodeB
	}
	bodyB.contactList = &c.nodeB
}

// detachEdges unthreads the contact from both bodies' edge lists. The
// bodies captured at attach time are used; the fixtures may already be
// detached from them.
func (c *Contact) detachEdges() {
	c.unthread(c.bodyA, &c.nodeA)
	c.unthread(c.bodyB, &c.nodeB)
}

func (c *Contact) unthread(body *Body, node *ContactEdge) {
	prev := node.Prev
	next := node.Next

	if prev != nil {
		prev.Next = next
	} else if body != nil && body.contactList == node {
		// IFF prev is nil and the body's list head is this node, the node
		// is at the head of the list. This may be called for a contact
		// that was never threaded; guard the head pointer.
		body.contactList = next
	}

	if next != nil {
		next.Prev = prev
	}

	node.Prev = nil
	node.Next = nil
}
