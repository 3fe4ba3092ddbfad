package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellToWorldAndBackRoundTrips(t *testing.T) {
	g := &CoverageGrid{W: 10, H: 10, TileSize: 0.5, OriginX: 1.0, OriginY: -2.0}
	xw, yw := g.CellToWorld(3, 4)
	x, y := g.WorldToCellUnbounded(xw, yw)
	assert.Equal(t, 3, x)
	assert.Equal(t, 4, y)
}

func TestWorldToCellUnboundedDoesNotClamp(t *testing.T) {
	g := &CoverageGrid{W: 4, H: 4, TileSize: 1.0, OriginX: 0, OriginY: 0}
	x, y := g.WorldToCellUnbounded(-3.5, 10.2)
	assert.Equal(t, -4, x)
	assert.Equal(t, 10, y)
	assert.False(t, g.InBounds(x, y))
}

func TestDeriveCoverageGridCeilsDimensions(t *testing.T) {
	obstacle := &ObstacleGrid{Width: 10, Height: 7, Resolution: 0.3}
	cg := DeriveCoverageGrid(obstacle, 0.6)
	// map is 3.0 x 2.1 metres; tile 0.6 -> ceil(5) x ceil(3.5) = 5 x 4
	assert.Equal(t, 5, cg.W)
	assert.Equal(t, 4, cg.H)
}

func TestObstacleGridIsOccupiedTreatsOutOfBoundsAsOccupied(t *testing.T) {
	g := &ObstacleGrid{Width: 2, Height: 2, Resolution: 1, Occupied: [][]bool{{false, false}, {false, true}}}
	assert.False(t, g.IsOccupied(0, 0))
	assert.True(t, g.IsOccupied(1, 1))
	assert.True(t, g.IsOccupied(-1, 0))
	assert.True(t, g.IsOccupied(5, 5))
}

func TestDownsampleMarksObstacleCellsBlocked(t *testing.T) {
	occ := make([][]bool, 6)
	for y := range occ {
		occ[y] = make([]bool, 6)
	}
	for x := 0; x < 6; x++ {
		occ[3][x] = true // a blocked row at fine y=3
	}
	obstacle := &ObstacleGrid{Width: 6, Height: 6, Resolution: 1, Occupied: occ}

	cg, mask, err := Downsample(obstacle, 2.0, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, cg)
	assert.Equal(t, 3, cg.W)
	assert.Equal(t, 3, cg.H)
	assert.True(t, mask.IsBlocked(0, 1))
	assert.True(t, mask.IsFree(0, 0))
}

func TestDownsampleRejectsBlockedStart(t *testing.T) {
	occ := [][]bool{{true, false}, {false, false}}
	obstacle := &ObstacleGrid{Width: 2, Height: 2, Resolution: 1, Occupied: occ}
	_, _, err := Downsample(obstacle, 1.0, 0, 0)
	assert.ErrorIs(t, err, ErrStartBlocked)
}

func TestCellMaskVisitIsMonotone(t *testing.T) {
	m := NewCellMask(3, 3)
	first := m.Visit(1, 1)
	second := m.Visit(1, 1)
	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, m.IsVisited(1, 1))
}

func TestCellMaskVisitNeverUnblocks(t *testing.T) {
	m := NewCellMask(2, 2)
	m.SetBlocked(0, 0)
	changed := m.Visit(0, 0)
	assert.False(t, changed)
	assert.True(t, m.IsBlocked(0, 0))
}

func TestFreeUnvisitedIsRowMajorOrdered(t *testing.T) {
	m := NewCellMask(2, 2)
	m.Visit(0, 0)
	goals := m.FreeUnvisited()
	require.Len(t, goals, 3)
	assert.Equal(t, Cell{X: 1, Y: 0}, goals[0])
	assert.Equal(t, Cell{X: 0, Y: 1}, goals[1])
	assert.Equal(t, Cell{X: 1, Y: 1}, goals[2])
}
