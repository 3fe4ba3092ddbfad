// Package spiral implements the greedy path extender at the heart of
// Spiral-STC: starting from a seed path, it keeps appending one cell at a
// time — preferring left, then forward, then right of the current
// heading — until no direction is admissible. This is the Go rendering of
// spiral() in the ROS2 source the planner is derived from.
package spiral

import (
	"math"

	"spiralstc/footprint"
	"spiralstc/geom"
	"spiralstc/grid"
)

// Params are the overlap policy constants from spec §6.
type Params struct {
	MaxOverlapTurn    int
	MaxOverlapForward int
}

// StepFunc, if non-nil, is invoked after every accepted step with the
// path so far and the cells newly marked visited by that step — the
// concrete shape of the spec's "opaque observer callback" for spiral
// progress.
type StepFunc func(path []grid.Cell, newlyVisited []grid.Cell)

type direction struct {
	rel        []grid.Cell
	maxOverlap int
}

// Extend grows path in place (returning the grown slice) by repeatedly
// trying left/forward/right steps until none is admissible or cancelled
// returns true. yawStart seeds the initial heading when path has fewer
// than two cells (i.e. this is the very first spiral of a planning call);
// thereafter the heading is derived purely from the path's own history.
func Extend(
	path []grid.Cell,
	yawStart float64,
	mask *grid.CellMask,
	catalog *footprint.Catalog,
	engine *footprint.Engine,
	params Params,
	cancelled func() bool,
	onStep StepFunc,
) (out []grid.Cell, wasCancelled bool) {
	// The first trial direction is "left of forward" at yawStart, the same
	// rotate-forward-CCW-90 relationship the loop re-derives from path
	// history every step after (see below) — computed here once because
	// there is no history yet to derive it from.
	fdx := int(math.Round(math.Cos(yawStart)))
	fdy := int(math.Round(math.Sin(yawStart)))
	dx, dy := -fdy, fdx
	yawCurrent := yawStart

	for {
		if cancelled != nil && cancelled() {
			return path, true
		}

		if len(path) >= 2 {
			last := path[len(path)-1]
			prev := path[len(path)-2]
			sdx, sdy := last.X-prev.X, last.Y-prev.Y
			yawCurrent = math.Atan2(float64(sdy), float64(sdx))
			dx, dy = -sdy, sdx // rotate the travel direction CCW: first try is "left"
		}

		last := path[len(path)-1]
		dirs := [3]direction{
			{catalog.LeftTurnRel, params.MaxOverlapTurn},
			{catalog.ForwardRel, params.MaxOverlapForward},
			{catalog.RightTurnRel, params.MaxOverlapTurn},
		}

		accepted := false
		for _, d := range dirs {
			xNext, yNext := last.X+dx, last.Y+dy
			yawNext := math.Atan2(float64(dy), float64(dx))

			if tryStep(last, xNext, yNext, yawCurrent, yawNext, d, mask, catalog, engine, path, onStep) {
				path = append(path, grid.Cell{X: xNext, Y: yNext})
				accepted = true
				break
			}
			dx, dy = dy, -dx // rotate clockwise, try the next direction
		}
		if !accepted {
			return path, false
		}
	}
}

// tryStep evaluates one candidate direction and, if accepted, marks the
// tool's swept cells visited and notifies onStep. It returns whether the
// candidate was accepted.
func tryStep(
	last grid.Cell, xNext, yNext int,
	yawCurrent, yawNext float64,
	d direction,
	mask *grid.CellMask,
	catalog *footprint.Catalog,
	engine *footprint.Engine,
	path []grid.Cell,
	onStep StepFunc,
) bool {
	g := engine.Grid

	manCells := footprint.RotateOffsets(d.rel, g, last.X, last.Y, yawCurrent)
	for _, c := range manCells {
		if !g.InBounds(c.X, c.Y) {
			return false
		}
	}
	if !checkManoeuvreCollision(manCells, mask) {
		return false
	}

	poseFrom := geom.Pose{X: cellX(g, last), Y: cellY(g, last), Yaw: yawCurrent}
	xw, yw := g.CellToWorld(xNext, yNext)
	poseTo := geom.Pose{X: xw, Y: yw, Yaw: yawNext}

	toolCells, err := engine.ManoeuvreCells(poseFrom, poseTo, footprint.Any, footprint.Tool)
	if err != nil {
		return false
	}
	overlap := 0
	for _, c := range toolCells {
		if g.InBounds(c.X, c.Y) && mask.IsVisited(c.X, c.Y) {
			overlap++
		}
	}

	if futureChoiceIsDeadEnd(xNext, yNext, yawNext, catalog, mask, g) {
		return false
	}

	if overlap > d.maxOverlap {
		return false
	}

	var newlyVisited []grid.Cell
	for _, c := range toolCells {
		if mask.Visit(c.X, c.Y) {
			newlyVisited = append(newlyVisited, c)
		}
	}
	if onStep != nil {
		onStep(append(append([]grid.Cell{}, path...), grid.Cell{X: xNext, Y: yNext}), newlyVisited)
	}
	return true
}

// checkManoeuvreCollision returns true iff no cell in manCells is
// currently blocked or visited. The C++ source's checkManoeuvreCollision
// has no return statement on its success path (spec §9 flags this as a
// known bug); this is the intended contract.
func checkManoeuvreCollision(manCells []grid.Cell, mask *grid.CellMask) bool {
	for _, c := range manCells {
		if mask.IsBlocked(c.X, c.Y) || mask.IsVisited(c.X, c.Y) {
			return false
		}
	}
	return true
}

// futureChoiceIsDeadEnd rejects a candidate step if both rotational
// choices available from the resulting pose are themselves unavailable —
// the robot would be driven into a cul-de-sac it cannot turn out of,
// since the manoeuvre model has no reverse gear (spec §9).
func futureChoiceIsDeadEnd(x, y int, yaw float64, catalog *footprint.Catalog, mask *grid.CellMask, g *grid.CoverageGrid) bool {
	futureLeft := footprint.RotateOffsets(catalog.LeftTurnRel, g, x, y, yaw)
	futureRight := footprint.RotateOffsets(catalog.RightTurnRel, g, x, y, yaw)
	return choiceRejected(futureLeft, mask, g) && choiceRejected(futureRight, mask, g)
}

func choiceRejected(cells []grid.Cell, mask *grid.CellMask, g *grid.CoverageGrid) bool {
	for _, c := range cells {
		if !g.InBounds(c.X, c.Y) || mask.IsVisited(c.X, c.Y) {
			return true
		}
	}
	return false
}

func cellX(g *grid.CoverageGrid, c grid.Cell) float64 { x, _ := g.CellToWorld(c.X, c.Y); return x }
func cellY(g *grid.CoverageGrid, c grid.Cell) float64 { _, y := g.CellToWorld(c.X, c.Y); return y }
