package spiral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spiralstc/footprint"
	"spiralstc/geom"
	"spiralstc/grid"
)

func unitSquare() geom.Polygon {
	return geom.Polygon{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}
}

func buildEnv(t *testing.T, w, h int) (*grid.CellMask, *footprint.Engine, *footprint.Catalog) {
	t.Helper()
	cg := &grid.CoverageGrid{W: w, H: h, TileSize: 1.0}
	mask := grid.NewCellMask(w, h)
	engine := footprint.NewEngine(cg, unitSquare(), unitSquare(), 20)
	catalog, err := footprint.BuildCatalog(engine)
	require.NoError(t, err)
	return mask, engine, catalog
}

func TestExtendOnA4x4OpenGridIsFourConnectedWithNoCollision(t *testing.T) {
	mask, engine, catalog := buildEnv(t, 4, 4)
	start := grid.Cell{X: 0, Y: 0}
	mask.Visit(start.X, start.Y)

	path, cancelledOut := Extend([]grid.Cell{start}, 0, mask, catalog, engine, Params{}, nil, nil)
	assert.False(t, cancelledOut)
	require.GreaterOrEqual(t, len(path), 1)

	for i := 1; i < len(path); i++ {
		dx := abs(path[i].X - path[i-1].X)
		dy := abs(path[i].Y - path[i-1].Y)
		assert.True(t, (dx == 1 && dy == 0) || (dx == 0 && dy == 1), "step %d not 4-connected: %v -> %v", i, path[i-1], path[i])
	}
	for _, c := range path {
		assert.False(t, mask.IsBlocked(c.X, c.Y))
		assert.True(t, engine.Grid.InBounds(c.X, c.Y))
	}
}

func TestExtendRespectsCancellation(t *testing.T) {
	mask, engine, catalog := buildEnv(t, 8, 8)
	start := grid.Cell{X: 0, Y: 0}
	mask.Visit(start.X, start.Y)
	calls := 0
	cancelled := func() bool { calls++; return true }

	path, wasCancelled := Extend([]grid.Cell{start}, 0, mask, catalog, engine, Params{}, cancelled, nil)
	assert.True(t, wasCancelled)
	assert.Equal(t, []grid.Cell{start}, path)
}

func TestExtendHaltsAtADeadEndWithoutLeavingTheGrid(t *testing.T) {
	mask, engine, catalog := buildEnv(t, 3, 3)
	start := grid.Cell{X: 1, Y: 1}
	mask.Visit(start.X, start.Y)

	path, wasCancelled := Extend([]grid.Cell{start}, 0, mask, catalog, engine, Params{}, nil, nil)
	assert.False(t, wasCancelled)
	for _, c := range path {
		assert.True(t, engine.Grid.InBounds(c.X, c.Y))
	}
}

func TestExtendIsDeterministicAcrossRuns(t *testing.T) {
	mask1, engine1, catalog1 := buildEnv(t, 6, 6)
	start := grid.Cell{X: 0, Y: 0}
	mask1.Visit(start.X, start.Y)
	path1, _ := Extend([]grid.Cell{start}, 0, mask1, catalog1, engine1, Params{}, nil, nil)

	mask2, engine2, catalog2 := buildEnv(t, 6, 6)
	mask2.Visit(start.X, start.Y)
	path2, _ := Extend([]grid.Cell{start}, 0, mask2, catalog2, engine2, Params{}, nil, nil)

	assert.Equal(t, path1, path2)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// rotate90 maps cell c under a 90-degree counter-clockwise rotation of an
// n x n grid about its own centre: P(x,y) = (n-1-y, x).
func rotate90(c grid.Cell, n int) grid.Cell {
	return grid.Cell{X: n - 1 - c.Y, Y: c.X}
}

// TestExtendManoeuvreSymmetryUnderNinetyDegreeRotation asserts spec §8's
// "manoeuvre symmetry" property: rotating the map and the start pose by
// 90 degrees together rotates the output path by 90 degrees. Rotating an
// n x n grid's start corner (0,0) by P above lands on (n-1,0), paired
// with a start yaw of pi/2 so the rotated run's forward direction matches
// the unrotated run's forward direction rotated the same way.
func TestExtendManoeuvreSymmetryUnderNinetyDegreeRotation(t *testing.T) {
	const n = 6

	mask1, engine1, catalog1 := buildEnv(t, n, n)
	start1 := grid.Cell{X: 0, Y: 0}
	mask1.Visit(start1.X, start1.Y)
	path1, cancelled1 := Extend([]grid.Cell{start1}, 0, mask1, catalog1, engine1, Params{}, nil, nil)
	require.False(t, cancelled1)

	mask2, engine2, catalog2 := buildEnv(t, n, n)
	start2 := rotate90(start1, n)
	mask2.Visit(start2.X, start2.Y)
	path2, cancelled2 := Extend([]grid.Cell{start2}, math.Pi/2, mask2, catalog2, engine2, Params{}, nil, nil)
	require.False(t, cancelled2)

	require.Equal(t, len(path1), len(path2))
	for i := range path1 {
		assert.Equal(t, rotate90(path1[i], n), path2[i], "step %d: %v vs rotated %v", i, path2[i], path1[i])
	}
}

// toolAheadOfVehicle is a tool footprint that extends one cell to the
// vehicle's left (+Y in the part frame) beyond its single-cell body, so
// its manoeuvre sweep can touch a cell the vehicle body itself never
// occupies — the shape needed to exercise a nonzero overlap count. Unlike
// planner.DefaultParams's tool rectangle, it is not offset along +X.
func toolAheadOfVehicle() geom.Polygon {
	return geom.Polygon{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 1.5}, {X: -0.5, Y: 1.5}}
}

// TestExtendRespectsOverlapBoundPerStep asserts spec §8's "overlap bound"
// property with a nonzero max_overlap: it replays the accepted path,
// independently recomputing each step's tool sweep exactly as tryStep
// does, and checks the already-visited count never exceeds the configured
// bound.
func TestExtendRespectsOverlapBoundPerStep(t *testing.T) {
	cg := &grid.CoverageGrid{W: 8, H: 8, TileSize: 1.0}
	mask := grid.NewCellMask(8, 8)
	engine := footprint.NewEngine(cg, unitSquare(), toolAheadOfVehicle(), 20)
	catalog, err := footprint.BuildCatalog(engine)
	require.NoError(t, err)

	start := grid.Cell{X: 0, Y: 0}
	mask.Visit(start.X, start.Y)
	params := Params{MaxOverlapTurn: 1, MaxOverlapForward: 1}

	path, cancelled := Extend([]grid.Cell{start}, 0, mask, catalog, engine, params, nil, nil)
	require.False(t, cancelled)
	require.GreaterOrEqual(t, len(path), 2)

	visitedSoFar := map[grid.Cell]bool{start: true}
	yawCurrent := 0.0
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		if i >= 2 {
			back := path[i-2]
			yawCurrent = math.Atan2(float64(prev.Y-back.Y), float64(prev.X-back.X))
		}
		yawNext := math.Atan2(float64(cur.Y-prev.Y), float64(cur.X-prev.X))

		fromX, fromY := cg.CellToWorld(prev.X, prev.Y)
		toX, toY := cg.CellToWorld(cur.X, cur.Y)
		poseFrom := geom.Pose{X: fromX, Y: fromY, Yaw: yawCurrent}
		poseTo := geom.Pose{X: toX, Y: toY, Yaw: yawNext}

		toolCells, err := engine.ManoeuvreCells(poseFrom, poseTo, footprint.Any, footprint.Tool)
		require.NoError(t, err)

		overlap := 0
		for _, c := range toolCells {
			if visitedSoFar[c] {
				overlap++
			}
		}
		assert.LessOrEqual(t, overlap, 1, "step %d overlap exceeds max_overlap", i)

		for _, c := range toolCells {
			visitedSoFar[c] = true
		}
	}
}
