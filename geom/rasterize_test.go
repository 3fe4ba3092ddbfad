package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGrid is a minimal CellConverter: unit cells, origin at (0,0), no
// clamping on WorldToCellUnbounded, so tests can exercise RasterizeConvex
// without pulling in the grid package.
type fakeGrid struct{ w, h int }

func (f fakeGrid) CellToWorld(x, y int) (float64, float64) { return float64(x) + 0.5, float64(y) + 0.5 }
func (f fakeGrid) WorldToCellUnbounded(xw, yw float64) (int, int) {
	return int(math.Floor(xw)), int(math.Floor(yw))
}
func (f fakeGrid) InBounds(x, y int) bool { return x >= 0 && x < f.w && y >= 0 && y < f.h }

func TestRasterizeConvexCoversExpectedCells(t *testing.T) {
	g := fakeGrid{w: 5, h: 5}
	square := Polygon{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}}
	cells, err := RasterizeConvex(square, g)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Cell{{1, 1}, {2, 1}, {1, 2}, {2, 2}}, cells)
}

func TestRasterizeConvexClockwiseAndCounterClockwiseAgree(t *testing.T) {
	g := fakeGrid{w: 5, h: 5}
	ccw := Polygon{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}}
	cw := Polygon{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}}
	a, err := RasterizeConvex(ccw, g)
	require.NoError(t, err)
	b, err := RasterizeConvex(cw, g)
	require.NoError(t, err)
	assert.ElementsMatch(t, a, b)
}

func TestRasterizeConvexRejectsDegenerateFootprint(t *testing.T) {
	g := fakeGrid{w: 5, h: 5}
	collapsed := Polygon{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1.0000001, Y: 1.0000001}}
	_, err := RasterizeConvex(collapsed, g)
	assert.ErrorIs(t, err, ErrDegenerateFootprint)
}

func TestRasterizeConvexRejectsOutOfBoundsVertex(t *testing.T) {
	g := fakeGrid{w: 5, h: 5}
	poly := Polygon{{X: -2, Y: -2}, {X: 1, Y: -2}, {X: 1, Y: 1}}
	_, err := RasterizeConvex(poly, g)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestRasterizeConvexNoDuplicateCells(t *testing.T) {
	g := fakeGrid{w: 10, h: 10}
	// a thin sliver that could revisit the same cell from different scan rows
	poly := Polygon{{X: 2.01, Y: 2.01}, {X: 4.99, Y: 2.01}, {X: 4.99, Y: 2.99}, {X: 2.01, Y: 2.99}}
	cells, err := RasterizeConvex(poly, g)
	require.NoError(t, err)
	seen := make(map[Cell]bool)
	for _, c := range cells {
		assert.False(t, seen[c], "duplicate cell %v", c)
		seen[c] = true
	}
}
