package tilespace

import (
	"github.com/setanarut/v"
)

// LookupQueue buffers index-mutating commands issued during a step and
// applies them in a fixed phase order at the start of the next step: moves
// first, then container transitions, then deletions. Within a phase,
// commands apply in enqueue order; repeated moves for one entity collapse to
// the last one queued.
type LookupQueue struct {
	world *World

	moves     map[EntityID]moveCommand
	moveOrder []EntityID

	transitions []containerCommand
	deletions   []EntityID
}

type moveCommand struct {
	position v.Vec
	aabb     BB
}

type containerCommand struct {
	id       EntityID
	inserted bool
}

func newLookupQueue(world *World) *LookupQueue {
	return &LookupQueue{
		world: world,
		moves: make(map[EntityID]moveCommand),
	}
}

// QueueMove schedules an entity teleport to position with the given bounds.
// For bodied entities the body is moved too; its fixtures recache on the
// next step.
func (q *LookupQueue) QueueMove(id EntityID, position v.Vec, aabb BB) {
	if _, pending := q.moves[id]; !pending {
		q.moveOrder = append(q.moveOrder, id)
	}
	q.moves[id] = moveCommand{position: position, aabb: aabb}
}

// QueueContainerInsert schedules an entity's disappearance into a container.
// Inserted entities leave the tile index and every query surface.
func (q *LookupQueue) QueueContainerInsert(id EntityID) {
	q.transitions = append(q.transitions, containerCommand{id: id, inserted: true})
}

// QueueContainerRemove schedules an entity's emergence from a container. The
// entity rejoins the tile index at its current position if that position
// still overlaps a grid.
func (q *LookupQueue) QueueContainerRemove(id EntityID) {
	q.transitions = append(q.transitions, containerCommand{id: id, inserted: false})
}

// QueueDelete schedules an entity's removal from the world. Deletions apply
// after moves and container transitions, so a move and a delete queued in
// the same step still delete.
func (q *LookupQueue) QueueDelete(id EntityID) {
	q.deletions = append(q.deletions, id)
}

// process drains the queue. Commands naming entities deleted earlier in the
// drain, or never spawned, are dropped silently.
func (q *LookupQueue) process() {
	w := q.world

	for _, id := range q.moveOrder {
		cmd := q.moves[id]
		e := w.entities[id]
		if e == nil {
			continue
		}
		e.position = cmd.position
		e.aabb = cmd.aabb
		if e.Body != nil {
			e.Body.SetPosition(cmd.position)
		}
		w.lookup.UpdateOnMove(e)
	}

	for _, cmd := range q.transitions {
		e := w.entities[cmd.id]
		if e == nil || e.contained == cmd.inserted {
			continue
		}
		e.contained = cmd.inserted
		if cmd.inserted {
			w.lookup.RemoveEntity(e.ID)
		} else {
			w.lookup.AddEntity(e)
		}
	}

	for _, id := range q.deletions {
		e := w.entities[id]
		if e == nil {
			continue
		}
		w.removeEntity(e)
	}

	clear(q.moves)
	q.moveOrder = q.moveOrder[:0]
	q.transitions = q.transitions[:0]
	q.deletions = q.deletions[:0]
}
