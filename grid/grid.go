// Package grid holds the two aligned grids a planning call operates on:
// the fine ObstacleGrid supplied by the host, and the coarse CoverageGrid
// the planner actually walks. Cell indices are always (x, y) with x the
// column and y the row; CellMask and ObstacleGrid store rows outermost,
// i.e. [y][x].
package grid

import "math"

// Cell is a discrete coverage-grid coordinate.
type Cell struct {
	X, Y int
}

// Index packs a cell into a row-major index for deduplication.
func (c Cell) Index(w int) int { return c.Y*w + c.X }

// ObstacleGrid is the dense, fine-resolution occupancy input from the host.
// Occupied(u, v) reports whether the fine cell at (u, v) is blocked.
type ObstacleGrid struct {
	Width, Height int
	Resolution    float64 // metres per fine cell
	OriginX       float64
	OriginY       float64
	Occupied      [][]bool // [v][u], len Height x Width
}

// CellCenter returns the world coordinates of the centre of fine cell (u, v).
func (g *ObstacleGrid) CellCenter(u, v int) (x, y float64) {
	return g.OriginX + (float64(u)+0.5)*g.Resolution, g.OriginY + (float64(v)+0.5)*g.Resolution
}

// IsOccupied reports whether fine cell (u, v) is blocked. Out-of-bounds
// cells are treated as occupied, matching the C++ source's behaviour of
// never walking off the edge of the costmap.
func (g *ObstacleGrid) IsOccupied(u, v int) bool {
	if u < 0 || v < 0 || u >= g.Width || v >= g.Height {
		return true
	}
	return g.Occupied[v][u]
}

// CoverageGrid is the downsampled working grid the planner walks. Its
// cell side is tile_size = vehicle_width / division_factor (spec §6).
type CoverageGrid struct {
	W, H     int
	TileSize float64
	OriginX  float64
	OriginY  float64
}

// CellToWorld returns the world coordinates of the centre of cell (x, y).
func (g *CoverageGrid) CellToWorld(x, y int) (xw, yw float64) {
	return g.OriginX + (float64(x)+0.5)*g.TileSize, g.OriginY + (float64(y)+0.5)*g.TileSize
}

// WorldToCellUnbounded converts world coordinates to a cell index via
// integer floor division. It does not clamp: callers must check InBounds
// themselves, because a clamping variant silently miscomputes footprints
// that straddle the grid edge (spec §4.1).
func (g *CoverageGrid) WorldToCellUnbounded(xw, yw float64) (x, y int) {
	return int(math.Floor((xw - g.OriginX) / g.TileSize)), int(math.Floor((yw - g.OriginY) / g.TileSize))
}

// InBounds reports whether (x, y) lies within [0, W) x [0, H).
func (g *CoverageGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Index packs (x, y) into a row-major index: y*W + x.
func (g *CoverageGrid) Index(x, y int) int {
	return y*g.W + x
}

// DeriveCoverageGrid computes a CoverageGrid's dimensions from an
// ObstacleGrid and a tile size, per spec §6: W = ceil(map_width/tile_size),
// H = ceil(map_height/tile_size), origin inherited from the obstacle map.
func DeriveCoverageGrid(obstacle *ObstacleGrid, tileSize float64) *CoverageGrid {
	mapWidth := float64(obstacle.Width) * obstacle.Resolution
	mapHeight := float64(obstacle.Height) * obstacle.Resolution
	return &CoverageGrid{
		W:        int(math.Ceil(mapWidth / tileSize)),
		H:        int(math.Ceil(mapHeight / tileSize)),
		TileSize: tileSize,
		OriginX:  obstacle.OriginX,
		OriginY:  obstacle.OriginY,
	}
}
