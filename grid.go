package tilespace

import (
	"math"

	"github.com/setanarut/v"
)

// Grid is one independent tile plane of a world: a sparse map of dense
// chunks plus the static body its chunk collision boxes hang off. Grids
// are created through World.AddGrid; worlds can hold several (a station
// and a handful of free-floating wrecks, say) and entities register with
// every grid whose bounds they overlap.
type Grid struct {
	ID GridID

	// TileSize is the edge length of one tile in world units.
	TileSize float64

	// Body is the static body carrying the grid's chunk collision boxes.
	Body *Body

	// OnCollisionRegen, when set, is called after a chunk's collision boxes
	// have been rebuilt.
	OnCollisionRegen func(*Chunk)

	world  *World
	chunks map[ChunkCoord]*Chunk

	// bounds caches the merged extent of every loaded chunk. It is extended
	// in place when a chunk loads and recomputed lazily after a chunk
	// unloads, so the per-entity index paths never scan the chunk map.
	bounds      BB
	hasBounds   bool
	boundsStale bool
}

func newGrid(world *World, id GridID, tileSize float64) *Grid {
	if tileSize <= 0 {
		panic("tilespace: grid tile size must be positive")
	}
	return &Grid{
		ID:       id,
		TileSize: tileSize,
		Body:     NewStaticBody(),
		world:    world,
		chunks:   make(map[ChunkCoord]*Chunk),
	}
}

// Chunk returns the chunk at coord, or nil if it was never written.
func (g *Grid) Chunk(coord ChunkCoord) *Chunk {
	return g.chunks[coord]
}

func (g *Grid) ensureChunk(coord ChunkCoord) *Chunk {
	chunk := g.chunks[coord]
	if chunk == nil {
		chunk = newChunk(g, coord)
		g.chunks[coord] = chunk
		if g.hasBounds {
			g.bounds = g.bounds.Merge(chunk.Bounds())
		} else {
			g.bounds = chunk.Bounds()
			g.hasBounds = true
		}
	}
	return chunk
}

// dropChunk unloads an empty chunk. The cached bounds are recomputed on the
// next read; unloading is rare next to the per-entity paths that read them.
func (g *Grid) dropChunk(coord ChunkCoord) {
	delete(g.chunks, coord)
	g.boundsStale = true
}

// GetTile returns the tile at coord. Reads from never-written chunks are
// empty, not errors.
func (g *Grid) GetTile(coord TileCoord) Tile {
	chunk := g.chunks[chunkCoordFor(coord)]
	if chunk == nil {
		return TileEmpty
	}
	x, y := localTile(coord)
	return chunk.tiles[y][x]
}

// SetTile writes the tile at coord, creating the chunk on demand. When the
// cell actually changes, the chunk's tile version is bumped and its collision
// boxes are rebuilt; writes that restate the current value are free.
func (g *Grid) SetTile(coord TileCoord, t Tile) {
	cc := chunkCoordFor(coord)
	chunk := g.chunks[cc]
	if chunk == nil {
		if t == TileEmpty {
			return
		}
		chunk = g.ensureChunk(cc)
	}

	x, y := localTile(coord)
	if !chunk.setTile(x, y, t) {
		return
	}

	chunk.lastTileModified = g.world.stamp
	chunk.regenerateCollision()
	if g.OnCollisionRegen != nil {
		g.OnCollisionRegen(chunk)
	}
	if chunk.Empty() {
		g.dropChunk(cc)
	}
}

// TileAt maps a world point to the tile containing it.
func (g *Grid) TileAt(p v.Vec) TileCoord {
	return TileCoord{
		X: int(math.Floor(p.X / g.TileSize)),
		Y: int(math.Floor(p.Y / g.TileSize)),
	}
}

// TileBB returns the world bounds of the tile at coord.
func (g *Grid) TileBB(coord TileCoord) BB {
	l := float64(coord.X) * g.TileSize
	b := float64(coord.Y) * g.TileSize
	return NewBB(l, b, l+g.TileSize, b+g.TileSize)
}

// Bounds returns the cached world extent of every loaded chunk, and whether
// the grid has any. Entities wholly outside the bounds of every grid fall
// out of the tile index.
func (g *Grid) Bounds() (BB, bool) {
	if g.boundsStale {
		g.recomputeBounds()
	}
	return g.bounds, g.hasBounds
}

func (g *Grid) recomputeBounds() {
	g.boundsStale = false
	g.hasBounds = false
	for _, chunk := range g.chunks {
		if g.hasBounds {
			g.bounds = g.bounds.Merge(chunk.Bounds())
		} else {
			g.bounds = chunk.Bounds()
			g.hasBounds = true
		}
	}
}

// EachChunk enumerates the grid's created chunks in unspecified order.
func (g *Grid) EachChunk(f func(*Chunk)) {
	for _, chunk := range g.chunks {
		f(chunk)
	}
}

// ChunksModifiedSince returns the chunks whose tile data changed at or after
// the given world stamp. Anchored-entity churn does not qualify.
func (g *Grid) ChunksModifiedSince(stamp uint64) []*Chunk {
	var out []*Chunk
	for _, chunk := range g.chunks {
		if chunk.lastTileModified >= stamp {
			out = append(out, chunk)
		}
	}
	return out
}

// QueryTilesSince returns the non-empty tile coordinates of every chunk
// whose tile data changed at or after the given world stamp. Persistence
// collaborators diff against it instead of scanning whole grids.
func (g *Grid) QueryTilesSince(stamp uint64) []TileCoord {
	var out []TileCoord
	for _, chunk := range g.chunks {
		if chunk.lastTileModified < stamp {
			continue
		}
		baseX := chunk.Coord.X * ChunkSize
		baseY := chunk.Coord.Y * ChunkSize
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				if chunk.tiles[y][x] != TileEmpty {
					out = append(out, TileCoord{X: baseX + x, Y: baseY + y})
				}
			}
		}
	}
	return out
}

// AnchorEntity pins an entity id to a tile. Anchored ids ride along with the
// grid and are reported by AnchoredAt; anchoring bumps the owning chunk's
// anchored version, never its tile version.
func (g *Grid) AnchorEntity(id EntityID, coord TileCoord) {
	chunk := g.ensureChunk(chunkCoordFor(coord))
	x, y := localTile(coord)
	chunk.anchorEntity(x, y, id)
}

// UnanchorEntity removes an entity id's pin from a tile. Unpinning from a
// never-written chunk is a no-op.
func (g *Grid) UnanchorEntity(id EntityID, coord TileCoord) {
	cc := chunkCoordFor(coord)
	chunk := g.chunks[cc]
	if chunk == nil {
		return
	}
	x, y := localTile(coord)
	chunk.unanchorEntity(x, y, id)
	if chunk.Empty() {
		g.dropChunk(cc)
	}
}

// AnchoredAt returns a copy of the entity ids anchored to coord.
func (g *Grid) AnchoredAt(coord TileCoord) []EntityID {
	chunk := g.chunks[chunkCoordFor(coord)]
	if chunk == nil {
		return nil
	}
	x, y := localTile(coord)
	ids := chunk.anchoredAt(x, y)
	if len(ids) == 0 {
		return nil
	}
	out := make([]EntityID, len(ids))
	copy(out, ids)
	return out
}

// tileRange returns the inclusive tile coordinate range covered by bb.
func (g *Grid) tileRange(bb BB) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(bb.L / g.TileSize))
	y0 = int(math.Floor(bb.B / g.TileSize))
	x1 = int(math.Floor(bb.R / g.TileSize))
	y1 = int(math.Floor(bb.T / g.TileSize))
	return
}
