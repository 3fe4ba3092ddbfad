// Package planner wires grid, geom, footprint, spiral and relocate
// together into the single entry point spec §4.7 describes as
// CoveragePlanner: downsample the host's obstacle grid, precompute the
// manoeuvre catalog, spiral until stuck, relocate to the nearest
// unvisited cell and spiral again, until nothing remains or the planner
// resigns. This is the Go rendering of spiral_stc() and makePlan() from
// the ROS2 source this planner is derived from.
package planner

import (
	"errors"
	"log"

	"github.com/google/uuid"

	"spiralstc/footprint"
	"spiralstc/geom"
	"spiralstc/grid"
	"spiralstc/relocate"
	"spiralstc/spiral"
)

// classifyFootprintErr maps a footprint/geom sentinel to the Kind a
// caller should see; it falls back to GridParseFailed for anything else.
func classifyFootprintErr(err error) Kind {
	switch {
	case errors.Is(err, geom.ErrDegenerateFootprint):
		return KindDegenerateFootprint
	case errors.Is(err, geom.ErrOutOfBounds):
		return KindOutOfBounds
	default:
		return KindGridParseFailed
	}
}

// Input bundles everything a single Plan call needs: the host-supplied
// obstacle map and start pose, the vehicle's own footprint polygon (the
// tool's comes from Params, since it's a planner tuning value rather
// than something the host measures per call), tuning Params, and the
// optional observer/logger/cancellation hooks.
type Input struct {
	Obstacle         *grid.ObstacleGrid
	Start            geom.Pose
	VehicleFootprint geom.Polygon
	Params           Params

	// Observer, Logger and Cancelled are all optional; nil is fine for
	// each and the planner substitutes a no-op.
	Observer  Observer
	Logger    *log.Logger
	Cancelled func() bool
}

// Plan runs one full coverage planning call and returns the driven path
// plus coverage metrics, or a *Error if the call could not even start.
func Plan(in Input) (*Result, error) {
	runID := uuid.New()
	logger := in.Logger
	observer := in.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	cancelled := in.Cancelled
	if cancelled == nil {
		cancelled = func() bool { return false }
	}

	tileSize := in.Params.TileSize()
	probe := grid.DeriveCoverageGrid(in.Obstacle, tileSize)
	if probe.W <= 0 || probe.H <= 0 {
		return nil, wrapErr(KindGridParseFailed, grid.ErrEmptyGrid)
	}
	startX, startY := probe.WorldToCellUnbounded(in.Start.X, in.Start.Y)

	cg, mask, err := grid.Downsample(in.Obstacle, tileSize, startX, startY)
	if err != nil {
		if err == grid.ErrStartBlocked {
			return nil, wrapErr(KindStartBlocked, err)
		}
		return nil, wrapErr(KindGridParseFailed, err)
	}
	if logger != nil {
		logger.Printf("planner: run=%s grid=%dx%d tile=%.3f start=(%d,%d)", runID, cg.W, cg.H, tileSize, startX, startY)
	}
	observer.GridReady(cg)

	engine := footprint.NewEngine(cg, in.VehicleFootprint, in.Params.ToolFootprint, in.Params.ManoeuvreResolution)
	catalog, err := footprint.BuildCatalog(engine)
	if err != nil {
		return nil, wrapErr(classifyFootprintErr(err), err)
	}

	startCell := grid.Cell{X: startX, Y: startY}
	toolStart, err := engine.FootprintCells(in.Start, footprint.Tool)
	if err != nil {
		return nil, wrapErr(classifyFootprintErr(err), err)
	}
	for _, c := range toolStart {
		mask.Visit(c.X, c.Y)
	}
	mask.Visit(startCell.X, startCell.Y)

	path := []grid.Cell{startCell}
	spiralParams := spiral.Params{MaxOverlapTurn: in.Params.MaxOverlapTurn, MaxOverlapForward: in.Params.MaxOverlapForward}

	onStep := func(p []grid.Cell, newlyVisited []grid.Cell) { observer.SpiralStep(p, newlyVisited) }

	multiPass := 0
	status := Completed

	var wasCancelled bool
	path, wasCancelled = spiral.Extend(path, in.Start.Yaw, mask, catalog, engine, spiralParams, cancelled, onStep)
	if wasCancelled {
		status = Cancelled
	}

	for status == Completed {
		goals := mask.FreeUnvisited()
		if len(goals) == 0 {
			break
		}
		relPath, relStatus := relocate.Relocate(path[len(path)-1], mask, engine, in.Params.RelocationMaxOverlap, cancelled)
		switch relStatus {
		case relocate.Cancelled:
			status = Cancelled
		case relocate.Resigned:
			observer.Resigned(goals)
			status = Resigned
		default:
			for _, c := range relPath {
				if !mask.Visit(c.X, c.Y) {
					multiPass++
				}
			}
			path = append(path, relPath...)
			observer.RelocationStep(relPath)
			path, wasCancelled = spiral.Extend(path, in.Start.Yaw, mask, catalog, engine, spiralParams, cancelled, onStep)
			if wasCancelled {
				status = Cancelled
			}
		}
	}

	visited := countVisited(mask)
	result := &Result{
		RunID: runID,
		Path:  path,
		Grid:  cg,
		Metrics: Metrics{
			VisitedCount:    visited,
			MultiPassCount:  multiPass,
			AccessibleCount: visited - multiPass,
		},
		Status: status,
	}
	if logger != nil {
		logger.Printf("planner: run=%s status=%s visited=%d multi_pass=%d accessible=%d",
			runID, status, result.Metrics.VisitedCount, result.Metrics.MultiPassCount, result.Metrics.AccessibleCount)
	}
	return result, nil
}

func countVisited(mask *grid.CellMask) int {
	n := 0
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if mask.IsVisited(x, y) {
				n++
			}
		}
	}
	return n
}
