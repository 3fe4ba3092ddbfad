// Package footprint computes which coverage-grid cells are swept by a
// named robot part — the vehicle body or its tool — at a pose, and by a
// manoeuvre between two poses. It is the Go rendering of
// computeFootprintCells/computeManoeuvreFootprint from the ROS2 source
// this planner is derived from.
package footprint

import (
	"errors"
	"math"

	"spiralstc/geom"
	"spiralstc/grid"
)

// Part names a robot part with its own footprint polygon.
type Part int

const (
	Vehicle Part = iota
	Tool
)

// RotationSense selects which way a manoeuvre's rotation goes. Any picks
// the shorter arc; Clockwise/CounterClockwise force the long way around
// when the shorter arc goes the other direction.
type RotationSense int

const (
	Any RotationSense = iota
	Clockwise
	CounterClockwise
)

// ErrDegenerateFootprint and ErrOutOfBounds mirror geom's sentinels so
// callers outside this package don't need to import geom to check them.
var (
	ErrDegenerateFootprint = geom.ErrDegenerateFootprint
	ErrOutOfBounds         = geom.ErrOutOfBounds
)

// Engine computes footprints against a fixed CoverageGrid and a fixed pair
// of part polygons (vehicle body, tool). It borrows the grid; it does not
// own or mutate it.
type Engine struct {
	Grid                *grid.CoverageGrid
	VehiclePolygon      geom.Polygon
	ToolPolygon         geom.Polygon
	ManoeuvreResolution int // N intermediate orientations, spec default 100
}

// NewEngine constructs a footprint Engine. manoeuvreResolution must be >= 2.
func NewEngine(g *grid.CoverageGrid, vehicle, tool geom.Polygon, manoeuvreResolution int) *Engine {
	if manoeuvreResolution < 2 {
		manoeuvreResolution = 2
	}
	return &Engine{Grid: g, VehiclePolygon: vehicle, ToolPolygon: tool, ManoeuvreResolution: manoeuvreResolution}
}

func (e *Engine) polygonFor(part Part) geom.Polygon {
	if part == Tool {
		return e.ToolPolygon
	}
	return e.VehiclePolygon
}

// FootprintCells transforms part's polygon by pose and rasterises it
// against the grid.
func (e *Engine) FootprintCells(pose geom.Pose, part Part) ([]grid.Cell, error) {
	world := e.polygonFor(part).Transform(pose)
	cells, err := geom.RasterizeConvex(world, e.Grid)
	if err != nil {
		return nil, err
	}
	return toGridCells(cells), nil
}

// yawDiff reduces the rotation from yawFrom to yawTo into (-pi, pi], then
// lengthens it to the long way around if sense demands a direction the
// short arc doesn't go. Canonicalising unconditionally subsumes the
// source's two hardcoded special cases for yawFrom=-pi/2,yawTo=pi (and
// its mirror): both reduce to exactly the short arc this computes.
func yawDiff(yawFrom, yawTo float64, sense RotationSense) float64 {
	diff := geom.CanonicalYaw(yawTo - yawFrom)
	switch sense {
	case CounterClockwise:
		if diff < 0 {
			diff += 2 * math.Pi
		}
	case Clockwise:
		if diff > 0 {
			diff -= 2 * math.Pi
		}
	}
	return diff
}

// ManoeuvreCells computes the cells newly swept by part during a manoeuvre
// from poseFrom to poseTo: it rasterises manoeuvreResolution intermediate
// orientations strictly between yawFrom and yawTo evaluated at the
// starting position (the canonical manoeuvres rotate in place before
// translating, so collision must be checked during the rotation), unions
// them with the final-pose footprint, and subtracts the starting
// footprint so only newly-covered cells remain.
func (e *Engine) ManoeuvreCells(poseFrom, poseTo geom.Pose, sense RotationSense, part Part) ([]grid.Cell, error) {
	startCells, err := e.FootprintCells(poseFrom, part)
	if err != nil {
		return nil, err
	}
	startSet := make(map[grid.Cell]struct{}, len(startCells))
	for _, c := range startCells {
		startSet[c] = struct{}{}
	}

	union := make(map[grid.Cell]struct{})

	diff := yawDiff(poseFrom.Yaw, poseTo.Yaw, sense)
	steps := e.ManoeuvreResolution
	for i := 1; i <= steps; i++ {
		yawInter := geom.CanonicalYaw(poseFrom.Yaw + float64(i)*diff/float64(steps+1))
		cells, err := e.FootprintCells(geom.Pose{X: poseFrom.X, Y: poseFrom.Y, Yaw: yawInter}, part)
		if err != nil {
			return nil, err
		}
		for _, c := range cells {
			union[c] = struct{}{}
		}
	}

	finalCells, err := e.FootprintCells(poseTo, part)
	if err != nil {
		return nil, err
	}
	for _, c := range finalCells {
		union[c] = struct{}{}
	}

	out := make([]grid.Cell, 0, len(union))
	for c := range union {
		if _, started := startSet[c]; started {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func toGridCells(cells []geom.Cell) []grid.Cell {
	out := make([]grid.Cell, len(cells))
	for i, c := range cells {
		out[i] = grid.Cell{X: c.X, Y: c.Y}
	}
	return out
}

var errNoInterior = errors.New("footprint: grid too small to hold an interior reference cell")
