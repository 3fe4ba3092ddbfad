package grid

import "errors"

// ErrStartBlocked is returned by Downsample when the coverage cell
// containing the start pose is not free.
var ErrStartBlocked = errors.New("grid: start cell is blocked or out of bounds")

// ErrEmptyGrid is returned by Downsample when the derived coverage grid
// has zero free cells, e.g. a degenerate or fully-occupied input.
var ErrEmptyGrid = errors.New("grid: downsampled grid has no free cells")

// CellState is the tri-state occupancy of a coverage cell.
type CellState uint8

const (
	Free CellState = iota
	Blocked
	Visited
)

// CellMask is a W x H state grid, indexed [row][col] i.e. [y][x]. It starts
// as free/blocked and is mutated to Visited as the plan grows. Marking is
// monotone: a cell once Visited never reverts (spec §3).
type CellMask struct {
	W, H int
	rows [][]CellState
}

// NewCellMask allocates a mask of the given dimensions, all cells Free.
func NewCellMask(w, h int) *CellMask {
	rows := make([][]CellState, h)
	for y := range rows {
		rows[y] = make([]CellState, w)
	}
	return &CellMask{W: w, H: h, rows: rows}
}

func (m *CellMask) At(x, y int) CellState { return m.rows[y][x] }

func (m *CellMask) SetBlocked(x, y int) { m.rows[y][x] = Blocked }

// Visit marks (x, y) as Visited if it is currently Free or already
// Visited. It never downgrades a Blocked cell. Returns true if this call
// is the first time the cell transitioned to Visited (used for metrics).
func (m *CellMask) Visit(x, y int) (firstVisit bool) {
	switch m.rows[y][x] {
	case Blocked:
		return false
	case Visited:
		return false
	default:
		m.rows[y][x] = Visited
		return true
	}
}

// InGridBounds reports whether (x, y) lies within the mask's dimensions.
func (m *CellMask) InGridBounds(x, y int) bool { return x >= 0 && x < m.W && y >= 0 && y < m.H }

func (m *CellMask) IsFree(x, y int) bool    { return m.rows[y][x] == Free }
func (m *CellMask) IsBlocked(x, y int) bool { return m.rows[y][x] == Blocked }
func (m *CellMask) IsVisited(x, y int) bool { return m.rows[y][x] == Visited }

// FreeUnvisited returns every cell currently Free, in row-major order.
// This is the `goals` set of spec §4.7 step 5a.
func (m *CellMask) FreeUnvisited() []Cell {
	var out []Cell
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.rows[y][x] == Free {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// Downsample builds a CoverageGrid and its CellMask from a fine
// ObstacleGrid: a coverage cell is Blocked if any fine cell whose centre
// lies inside it is occupied, otherwise Free (spec §4.1). startX/startY
// are the coverage-cell coordinates of the start pose. If no coverage cell
// is Free, ErrEmptyGrid is returned; otherwise, if the start cell is not
// Free, ErrStartBlocked is returned.
func Downsample(obstacle *ObstacleGrid, tileSize float64, startX, startY int) (*CoverageGrid, *CellMask, error) {
	cg := DeriveCoverageGrid(obstacle, tileSize)
	if cg.W <= 0 || cg.H <= 0 {
		return nil, nil, ErrEmptyGrid
	}
	mask := NewCellMask(cg.W, cg.H)

	anyFree := false
	for y := 0; y < cg.H; y++ {
		for x := 0; x < cg.W; x++ {
			if cellOverlapsObstacle(obstacle, cg, x, y) {
				mask.SetBlocked(x, y)
			} else {
				anyFree = true
			}
		}
	}
	if !anyFree {
		return nil, nil, ErrEmptyGrid
	}
	if !cg.InBounds(startX, startY) || mask.IsBlocked(startX, startY) {
		return nil, nil, ErrStartBlocked
	}
	return cg, mask, nil
}

// cellOverlapsObstacle reports whether any fine obstacle cell whose centre
// lies inside coverage cell (x, y) is occupied.
func cellOverlapsObstacle(obstacle *ObstacleGrid, cg *CoverageGrid, x, y int) bool {
	cxMin, cyMin := cg.OriginX+float64(x)*cg.TileSize, cg.OriginY+float64(y)*cg.TileSize
	cxMax, cyMax := cxMin+cg.TileSize, cyMin+cg.TileSize

	uMin := int((cxMin - obstacle.OriginX) / obstacle.Resolution)
	uMax := int((cxMax-obstacle.OriginX)/obstacle.Resolution) + 1
	vMin := int((cyMin - obstacle.OriginY) / obstacle.Resolution)
	vMax := int((cyMax-obstacle.OriginY)/obstacle.Resolution) + 1

	for v := vMin; v <= vMax; v++ {
		for u := uMin; u <= uMax; u++ {
			if u < 0 || v < 0 || u >= obstacle.Width || v >= obstacle.Height {
				continue
			}
			cx, cy := obstacle.CellCenter(u, v)
			if cx < cxMin || cx >= cxMax || cy < cyMin || cy >= cyMax {
				continue
			}
			if obstacle.Occupied[v][u] {
				return true
			}
		}
	}
	return false
}
