package footprint

import (
	"math"

	"spiralstc/geom"
	"spiralstc/grid"
)

// Catalog holds the three canonical one-step manoeuvres plus the two
// in-place turn-arounds, precomputed once at an interior reference cell
// and stored as offsets relative to that cell. Building this once and
// rotating the offsets at runtime (via RotateOffsets) amortises
// rasterisation across every spiral step (spec §4.4).
type Catalog struct {
	LeftTurnRel        []grid.Cell
	ForwardRel         []grid.Cell
	RightTurnRel       []grid.Cell
	TurnAroundLeftRel  []grid.Cell
	TurnAroundRightRel []grid.Cell
}

// BuildCatalog computes the catalog for e's vehicle part. It picks the
// grid's centre cell as the reference, which requires the grid be at
// least 3x3 so the reference has a cell on every side.
func BuildCatalog(e *Engine) (*Catalog, error) {
	g := e.Grid
	cx, cy := g.W/2, g.H/2
	if !g.InBounds(cx-1, cy-1) || !g.InBounds(cx+1, cy+1) {
		return nil, errNoInterior
	}

	ref := poseAt(g, cx, cy, 0)
	left := poseAt(g, cx, cy+1, math.Pi/2)
	forward := poseAt(g, cx+1, cy, 0)
	right := poseAt(g, cx, cy-1, -math.Pi/2)
	turnAround := poseAt(g, cx, cy, math.Pi)

	leftAbs, err := e.ManoeuvreCells(ref, left, Any, Vehicle)
	if err != nil {
		return nil, err
	}
	forwardAbs, err := e.ManoeuvreCells(ref, forward, Any, Vehicle)
	if err != nil {
		return nil, err
	}
	rightAbs, err := e.ManoeuvreCells(ref, right, Any, Vehicle)
	if err != nil {
		return nil, err
	}
	turnLeftAbs, err := e.ManoeuvreCells(ref, turnAround, CounterClockwise, Vehicle)
	if err != nil {
		return nil, err
	}
	turnRightAbs, err := e.ManoeuvreCells(ref, turnAround, Clockwise, Vehicle)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		LeftTurnRel:        relativeTo(leftAbs, cx, cy),
		ForwardRel:         relativeTo(forwardAbs, cx, cy),
		RightTurnRel:       relativeTo(rightAbs, cx, cy),
		TurnAroundLeftRel:  relativeTo(turnLeftAbs, cx, cy),
		TurnAroundRightRel: relativeTo(turnRightAbs, cx, cy),
	}, nil
}

func poseAt(g *grid.CoverageGrid, x, y int, yaw float64) geom.Pose {
	xw, yw := g.CellToWorld(x, y)
	return geom.Pose{X: xw, Y: yw, Yaw: yaw}
}

func relativeTo(abs []grid.Cell, cx, cy int) []grid.Cell {
	out := make([]grid.Cell, len(abs))
	for i, c := range abs {
		out[i] = grid.Cell{X: c.X - cx, Y: c.Y - cy}
	}
	return out
}

// RotateOffsets rotates a catalog's relative offsets by yaw about the
// world centre of cell (atX, atY), then re-quantises to cell indices.
// The rotation happens in world space — not as an integer rotation of the
// offset pair — because the grid-to-world mapping has a half-cell offset
// that a naive integer rotation would drift on for diagonal headings
// (spec §9).
func RotateOffsets(rel []grid.Cell, g *grid.CoverageGrid, atX, atY int, yaw float64) []grid.Cell {
	cx, cy := g.CellToWorld(atX, atY)
	out := make([]grid.Cell, len(rel))
	for i, r := range rel {
		px, py := g.CellToWorld(atX+r.X, atY+r.Y)
		rx, ry := geom.RotatePoint(px, py, cx, cy, yaw)
		x, y := g.WorldToCellUnbounded(rx, ry)
		out[i] = grid.Cell{X: x, Y: y}
	}
	return out
}
