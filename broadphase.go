package tilespace

import (
	"math"
	"sort"

	"github.com/setanarut/v"
)

// RayHit is one entity struck by a ray query, with the hit fraction along
// the ray in [0, 1].
type RayHit struct {
	Entity   EntityID
	Fraction float64
}

// queryCandidates walks the lookup nodes bb covers across every grid,
// calling f once per distinct candidate entity id.
func (w *World) queryCandidates(bb BB, f func(EntityID)) {
	seen := make(map[EntityID]struct{})
	for _, grid := range w.grids {
		w.lookup.eachNodeIn(grid, bb, func(node *TileLookupNode) {
			for id := range node.entities {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				f(id)
			}
		})
	}
}

// QueryAabb returns the ids of entities whose bounds intersect bb. Tile
// registration uses shrunken bounds, so candidates from the index are
// confirmed against their exact bounds; results are in unspecified order.
func (w *World) QueryAabb(bb BB) []EntityID {
	var out []EntityID
	w.queryCandidates(bb, func(id EntityID) {
		e := w.entities[id]
		if e != nil && e.aabb.Intersects(bb) {
			out = append(out, id)
		}
	})
	return out
}

// QueryAabbApproximate returns the ids of entities registered with any tile
// bb covers, without confirming exact bounds. Cheaper than QueryAabb and
// may over-report by up to one tile.
func (w *World) QueryAabbApproximate(bb BB) []EntityID {
	var out []EntityID
	w.queryCandidates(bb, func(id EntityID) {
		out = append(out, id)
	})
	return out
}

// QueryRay returns the entities whose bounds a ray from origin along dir
// strikes within maxDist, sorted nearest first. dir need not be normalized;
// fractions are along dir scaled by maxDist.
func (w *World) QueryRay(origin, dir v.Vec, maxDist float64) []RayHit {
	end := origin.Add(dir.Unit().Scale(maxDist))
	span := NewBB(
		math.Min(origin.X, end.X), math.Min(origin.Y, end.Y),
		math.Max(origin.X, end.X), math.Max(origin.Y, end.Y),
	)

	var hits []RayHit
	w.queryCandidates(span, func(id EntityID) {
		e := w.entities[id]
		if e == nil {
			return
		}
		t := e.aabb.SegmentQuery(origin, end)
		if t == infinity {
			return
		}
		hits = append(hits, RayHit{Entity: id, Fraction: t})
	})

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Fraction != hits[j].Fraction {
			return hits[i].Fraction < hits[j].Fraction
		}
		return hits[i].Entity < hits[j].Entity
	})
	return hits
}
