package tilespace

// Tile is one grid cell's content id. Zero is empty.
type Tile uint16

const TileEmpty Tile = 0

// ChunkSize is the tile edge length of one chunk. Power of two.
const ChunkSize = 16

// TileCoord identifies one cell of a grid. Unique per (grid, x, y).
type TileCoord struct {
	X, Y int
}

// ChunkCoord identifies one chunk of a grid.
type ChunkCoord struct {
	X, Y int
}

// chunkCoordFor maps a tile coordinate to its owning chunk, dividing
// toward negative infinity so negative tiles land in the right chunk.
func chunkCoordFor(t TileCoord) ChunkCoord {
	return ChunkCoord{X: floorDiv(t.X, ChunkSize), Y: floorDiv(t.Y, ChunkSize)}
}

// localTile maps a tile coordinate to its offsets inside its chunk,
// always in [0, ChunkSize).
func localTile(t TileCoord) (int, int) {
	x := t.X - floorDiv(t.X, ChunkSize)*ChunkSize
	y := t.Y - floorDiv(t.Y, ChunkSize)*ChunkSize
	return x, y
}

// GridID identifies a grid within a world.
type GridID uint32

// EntityID is a stable integer handle for an entity. The tile index and
// queries traffic in handles, never in live object references.
type EntityID uint64
