package tilespace

import (
	"fmt"
)

// lookupShrink scales entity bounds down before tile registration so an
// entity resting flush against a tile boundary does not register with the
// neighboring tile.
const lookupShrink = 0.98

// TileRef identifies one tile of one grid.
type TileRef struct {
	Grid  GridID
	Coord TileCoord
}

// TileLookupNode is the per-tile occupancy record: the set of entity ids
// whose shrunken bounds overlap the tile. Nodes exist independently of tile
// content; an entity can occupy an empty tile.
type TileLookupNode struct {
	Grid  GridID
	Coord TileCoord

	// Mutations counts insertions plus removals on this node. A move that
	// keeps an entity inside a tile leaves the tile's counter unchanged.
	Mutations uint64

	entities map[EntityID]struct{}
}

// Contains reports whether id occupies the node's tile.
func (n *TileLookupNode) Contains(id EntityID) bool {
	_, ok := n.entities[id]
	return ok
}

// Len returns the number of entities occupying the node's tile.
func (n *TileLookupNode) Len() int {
	return len(n.entities)
}

// lookupChunk buckets nodes by chunk so spatial queries can walk one map
// per chunk instead of one per tile.
type lookupChunk struct {
	nodes map[TileCoord]*TileLookupNode
}

// TileLookup is the entity-to-tile index. It answers "which entities overlap
// this tile" and "which tiles does this entity overlap" in O(1) map lookups,
// and updates on movement by touching only the tiles an entity entered or
// left.
type TileLookup struct {
	world *World

	grids    map[GridID]map[ChunkCoord]*lookupChunk
	entities map[EntityID]map[TileRef]*TileLookupNode
}

func newTileLookup(world *World) *TileLookup {
	return &TileLookup{
		world:    world,
		grids:    make(map[GridID]map[ChunkCoord]*lookupChunk),
		entities: make(map[EntityID]map[TileRef]*TileLookupNode),
	}
}

// targetRefs computes the tile set an entity with the given bounds should
// occupy: for every grid whose extent the shrunken bounds overlap, the tiles
// the shrunken bounds cover.
func (tl *TileLookup) targetRefs(aabb BB) map[TileRef]struct{} {
	shrunk := aabb.ScaledAboutCenter(lookupShrink)
	var refs map[TileRef]struct{}
	for id, grid := range tl.world.grids {
		bounds, ok := grid.Bounds()
		if !ok || !bounds.Intersects(shrunk) {
			continue
		}
		x0, y0, x1, y1 := grid.tileRange(shrunk)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if refs == nil {
					refs = make(map[TileRef]struct{})
				}
				refs[TileRef{Grid: id, Coord: TileCoord{X: x, Y: y}}] = struct{}{}
			}
		}
	}
	return refs
}

func (tl *TileLookup) ensureNode(ref TileRef) *TileLookupNode {
	chunks := tl.grids[ref.Grid]
	if chunks == nil {
		chunks = make(map[ChunkCoord]*lookupChunk)
		tl.grids[ref.Grid] = chunks
	}
	cc := chunkCoordFor(ref.Coord)
	chunk := chunks[cc]
	if chunk == nil {
		chunk = &lookupChunk{nodes: make(map[TileCoord]*TileLookupNode)}
		chunks[cc] = chunk
	}
	node := chunk.nodes[ref.Coord]
	if node == nil {
		node = &TileLookupNode{
			Grid:     ref.Grid,
			Coord:    ref.Coord,
			entities: make(map[EntityID]struct{}),
		}
		chunk.nodes[ref.Coord] = node
	}
	return node
}

func (tl *TileLookup) dropNode(ref TileRef) {
	chunks := tl.grids[ref.Grid]
	cc := chunkCoordFor(ref.Coord)
	chunk := chunks[cc]
	delete(chunk.nodes, ref.Coord)
	if len(chunk.nodes) == 0 {
		delete(chunks, cc)
	}
}

// apply reconciles id's registered tiles against want, mutating only the
// symmetric difference. Tiles in both sets are untouched.
func (tl *TileLookup) apply(id EntityID, want map[TileRef]struct{}) {
	have := tl.entities[id]

	for ref, node := range have {
		if _, keep := want[ref]; keep {
			continue
		}
		delete(node.entities, id)
		node.Mutations++
		if len(node.entities) == 0 {
			tl.dropNode(ref)
		}
		delete(have, ref)
	}

	for ref := range want {
		if _, already := have[ref]; already {
			continue
		}
		node := tl.ensureNode(ref)
		node.entities[id] = struct{}{}
		node.Mutations++
		if have == nil {
			have = make(map[TileRef]*TileLookupNode)
			tl.entities[id] = have
		}
		have[ref] = node
	}

	if len(have) == 0 {
		delete(tl.entities, id)
	}
}

// AddEntity registers an entity with every tile its shrunken bounds overlap.
// Idempotent: re-adding an entity already at the same tiles changes nothing.
// Contained entities and entities outside every grid are not indexed.
func (tl *TileLookup) AddEntity(e *Entity) {
	if e.contained {
		return
	}
	tl.apply(e.ID, tl.targetRefs(e.aabb))
}

// RemoveEntity unregisters id from every tile it occupies.
func (tl *TileLookup) RemoveEntity(id EntityID) {
	tl.apply(id, nil)
}

// UpdateOnMove re-registers an entity after its bounds changed, touching
// only entered and left tiles. An entity that drifted outside every grid is
// removed from the index entirely.
func (tl *TileLookup) UpdateOnMove(e *Entity) {
	if e.contained {
		tl.apply(e.ID, nil)
		return
	}
	tl.apply(e.ID, tl.targetRefs(e.aabb))
}

// Node returns the occupancy node for one tile, or nil if no entity occupies
// it. Querying a grid the world does not contain is a caller bug.
func (tl *TileLookup) Node(grid GridID, coord TileCoord) *TileLookupNode {
	if _, ok := tl.world.grids[grid]; !ok {
		panic(fmt.Sprintf("tilespace: tile lookup query for unknown grid %d", grid))
	}
	chunks := tl.grids[grid]
	if chunks == nil {
		return nil
	}
	chunk := chunks[chunkCoordFor(coord)]
	if chunk == nil {
		return nil
	}
	return chunk.nodes[coord]
}

// QueryTile returns the ids of the entities occupying one tile. The result
// is a fresh slice in unspecified order; empty tiles yield nil.
func (tl *TileLookup) QueryTile(grid GridID, coord TileCoord) []EntityID {
	node := tl.Node(grid, coord)
	if node == nil {
		return nil
	}
	out := make([]EntityID, 0, len(node.entities))
	for id := range node.entities {
		out = append(out, id)
	}
	return out
}

// QueryEntity returns the tiles id currently occupies, a fresh slice in
// unspecified order. Unindexed ids yield nil.
func (tl *TileLookup) QueryEntity(id EntityID) []TileRef {
	have := tl.entities[id]
	if len(have) == 0 {
		return nil
	}
	out := make([]TileRef, 0, len(have))
	for ref := range have {
		out = append(out, ref)
	}
	return out
}

// eachNodeIn walks the nodes of the tiles bb covers on one grid.
func (tl *TileLookup) eachNodeIn(grid *Grid, bb BB, f func(*TileLookupNode)) {
	chunks := tl.grids[grid.ID]
	if chunks == nil {
		return
	}
	x0, y0, x1, y1 := grid.tileRange(bb)
	cx0, cy0 := floorDiv(x0, ChunkSize), floorDiv(y0, ChunkSize)
	cx1, cy1 := floorDiv(x1, ChunkSize), floorDiv(y1, ChunkSize)
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			chunk := chunks[ChunkCoord{X: cx, Y: cy}]
			if chunk == nil {
				continue
			}
			for coord, node := range chunk.nodes {
				if coord.X < x0 || coord.X > x1 || coord.Y < y0 || coord.Y > y1 {
					continue
				}
				f(node)
			}
		}
	}
}
