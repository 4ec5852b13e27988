package tilespace

// Chunk is a fixed ChunkSize x ChunkSize block of tiles, stored densely.
// Chunks are created lazily by their grid on first write and keep two
// version counters so consumers can cheaply detect what kind of change
// happened since they last looked.
type Chunk struct {
	Coord ChunkCoord

	grid  *Grid
	tiles [ChunkSize][ChunkSize]Tile

	// validTiles counts non-empty tiles, maintained incrementally on every
	// write. filled == ChunkSize*ChunkSize means the chunk is solid.
	validTiles int

	// lastTileModified is the world stamp of the last tile write that
	// changed a cell. lastAnchoredModified is the stamp of the last anchored
	// entity change. Keeping them separate lets tile-data consumers skip
	// chunks that only saw entity churn.
	lastTileModified     uint64
	lastAnchoredModified uint64

	// fixtures are the chunk's current collision boxes on the grid body,
	// rebuilt by regenerateCollision.
	fixtures []*Fixture

	// anchored holds entity ids anchored to each cell, keyed by local
	// y*ChunkSize+x.
	anchored map[int][]EntityID
}

func newChunk(grid *Grid, coord ChunkCoord) *Chunk {
	return &Chunk{
		Coord: coord,
		grid:  grid,
	}
}

// Tile returns the tile at local coordinates. Local coordinates outside
// [0, ChunkSize) are a caller bug.
func (c *Chunk) Tile(x, y int) Tile {
	if x < 0 || x >= ChunkSize || y < 0 || y >= ChunkSize {
		panic("tilespace: local tile coordinate out of chunk bounds")
	}
	return c.tiles[y][x]
}

// setTile writes the tile at local coordinates and reports whether the cell
// actually changed. validTiles is adjusted incrementally.
func (c *Chunk) setTile(x, y int, t Tile) bool {
	if x < 0 || x >= ChunkSize || y < 0 || y >= ChunkSize {
		panic("tilespace: local tile coordinate out of chunk bounds")
	}
	old := c.tiles[y][x]
	if old == t {
		return false
	}
	c.tiles[y][x] = t
	if old == TileEmpty {
		c.validTiles++
	} else if t == TileEmpty {
		c.validTiles--
	}
	debugAssert(c.validTiles >= 0 && c.validTiles <= ChunkSize*ChunkSize,
		"chunk valid tile count out of range")
	return true
}

// ValidTiles returns the number of non-empty tiles in the chunk.
func (c *Chunk) ValidTiles() int {
	return c.validTiles
}

// Empty reports whether the chunk holds no tiles and no anchored entities.
// Empty chunks are candidates for unloading.
func (c *Chunk) Empty() bool {
	return c.validTiles == 0 && len(c.anchored) == 0
}

// LastTileModified returns the world stamp of the last tile change.
func (c *Chunk) LastTileModified() uint64 {
	return c.lastTileModified
}

// LastAnchoredModified returns the world stamp of the last anchored entity
// change.
func (c *Chunk) LastAnchoredModified() uint64 {
	return c.lastAnchoredModified
}

// origin returns the chunk's lower-left corner in world units.
func (c *Chunk) origin() (float64, float64) {
	size := c.grid.TileSize
	return float64(c.Coord.X*ChunkSize) * size, float64(c.Coord.Y*ChunkSize) * size
}

// Bounds returns the chunk's full extent in world units.
func (c *Chunk) Bounds() BB {
	ox, oy := c.origin()
	span := float64(ChunkSize) * c.grid.TileSize
	return NewBB(ox, oy, ox+span, oy+span)
}

// CollisionFixtures returns the chunk's current collision box fixtures.
func (c *Chunk) CollisionFixtures() []*Fixture {
	return c.fixtures
}

// CollisionRects returns the world bounds of the chunk's collision boxes, a
// fresh slice.
func (c *Chunk) CollisionRects() []BB {
	if len(c.fixtures) == 0 {
		return nil
	}
	out := make([]BB, len(c.fixtures))
	for i, f := range c.fixtures {
		out[i] = f.BB
	}
	return out
}

// regenerateCollision rebuilds the chunk's collision boxes from scratch.
// Non-empty tiles are partitioned into rectangles greedily: each unclaimed
// tile grows a run rightward, then the run grows downward while every row
// below repeats it. The partition is not minimal but is cheap, deterministic
// and collapses solid regions well.
func (c *Chunk) regenerateCollision() {
	body := c.grid.Body
	for _, f := range c.fixtures {
		body.DetachFixture(f)
	}
	c.fixtures = c.fixtures[:0]

	if c.validTiles == 0 {
		return
	}

	var claimed [ChunkSize][ChunkSize]bool
	ox, oy := c.origin()
	size := c.grid.TileSize

	for y := 0; y < ChunkSize; y++ {
		for x := 0; x < ChunkSize; x++ {
			if c.tiles[y][x] == TileEmpty || claimed[y][x] {
				continue
			}

			w := 1
			for x+w < ChunkSize && c.tiles[y][x+w] != TileEmpty && !claimed[y][x+w] {
				w++
			}

			h := 1
		grow:
			for y+h < ChunkSize {
				for i := 0; i < w; i++ {
					if c.tiles[y+h][x+i] == TileEmpty || claimed[y+h][x+i] {
						break grow
					}
				}
				h++
			}

			for dy := 0; dy < h; dy++ {
				for dx := 0; dx < w; dx++ {
					claimed[y+dy][x+dx] = true
				}
			}

			bb := NewBB(
				ox+float64(x)*size,
				oy+float64(y)*size,
				ox+float64(x+w)*size,
				oy+float64(y+h)*size,
			)
			fixture := NewBoxShape2(body, "chunk", bb)
			c.grid.world.registerFixture(fixture)
			fixture.Update(body.Transform())
			c.fixtures = append(c.fixtures, fixture)
		}
	}
}

// anchorEntity records id as anchored to the local cell.
func (c *Chunk) anchorEntity(x, y int, id EntityID) {
	if c.anchored == nil {
		c.anchored = make(map[int][]EntityID)
	}
	key := y*ChunkSize + x
	for _, existing := range c.anchored[key] {
		if existing == id {
			return
		}
	}
	c.anchored[key] = append(c.anchored[key], id)
	c.lastAnchoredModified = c.grid.world.stamp
}

// unanchorEntity removes id from the local cell's anchor list.
func (c *Chunk) unanchorEntity(x, y int, id EntityID) {
	key := y*ChunkSize + x
	list := c.anchored[key]
	for i, existing := range list {
		if existing == id {
			list[i] = list[len(list)-1]
			list = list[:len(list)-1]
			if len(list) == 0 {
				delete(c.anchored, key)
			} else {
				c.anchored[key] = list
			}
			c.lastAnchoredModified = c.grid.world.stamp
			return
		}
	}
}

// anchoredAt returns the entity ids anchored to the local cell. The returned
// slice is the chunk's own storage; callers must not hold it across writes.
func (c *Chunk) anchoredAt(x, y int) []EntityID {
	return c.anchored[y*ChunkSize+x]
}
