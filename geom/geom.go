// Package geom provides the pure geometry the planner needs: poses,
// convex polygons in world coordinates, and the half-plane convex-fill
// rasterizer that turns a polygon into a set of coverage-grid cells.
package geom

import (
	"errors"
	"math"
)

// ErrDegenerateFootprint is returned when a footprint polygon collapses
// to fewer than three distinct points after dedup.
var ErrDegenerateFootprint = errors.New("geom: footprint has fewer than 3 distinct points")

// ErrOutOfBounds is returned when a polygon vertex lies outside the grid.
var ErrOutOfBounds = errors.New("geom: polygon vertex out of bounds")

// Point is a world-space coordinate.
type Point struct {
	X, Y float64
}

// Pose is a continuous robot pose. Yaw is always kept in (-pi, pi].
type Pose struct {
	X, Y, Yaw float64
}

// CanonicalYaw reduces yaw into (-pi, pi].
func CanonicalYaw(yaw float64) float64 {
	for yaw > math.Pi {
		yaw -= 2 * math.Pi
	}
	for yaw <= -math.Pi {
		yaw += 2 * math.Pi
	}
	return yaw
}

// Polygon is an ordered, convex polygon in a part-local frame (or, after
// Transform, in world coordinates).
type Polygon []Point

// Transform rotates and translates a local-frame polygon by a pose,
// producing the world-frame footprint polygon.
func (p Polygon) Transform(pose Pose) Polygon {
	cos, sin := math.Cos(pose.Yaw), math.Sin(pose.Yaw)
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{
			X: pose.X + pt.X*cos - pt.Y*sin,
			Y: pose.Y + pt.X*sin + pt.Y*cos,
		}
	}
	return out
}

// RotatePoint rotates world point (px, py) about centre (cx, cy) by yaw.
// Rotation happens in world coordinates, never via naive integer cell
// rotation, because the grid-to-world mapping introduces a half-cell
// offset that integer rotation would drift on for diagonal headings.
func RotatePoint(px, py, cx, cy, yaw float64) (x, y float64) {
	cos, sin := math.Cos(yaw), math.Sin(yaw)
	dx, dy := px-cx, py-cy
	return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
}
