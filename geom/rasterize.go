package geom

import "math"

// edgeEps absorbs floating point noise so a cell centre that lands exactly
// on a polygon edge is still classified as inside (spec §4.2: edges are
// inclusive, so symmetric footprints yield symmetric rasters).
const edgeEps = 1e-9

// dedup merges points closer than zeroish, same convention as the pack's
// polygon helper (other_examples/tinkerator-polygon__polygon.go's Zeroish).
const zeroish = 1e-6

// CellConverter is the minimal grid contract the rasterizer needs: convert
// a cell to its world centre, and report the grid's dimensions.
type CellConverter interface {
	CellToWorld(x, y int) (xw, yw float64)
	WorldToCellUnbounded(xw, yw float64) (x, y int)
	InBounds(x, y int) bool
}

// Cell mirrors grid.Cell without importing the grid package, keeping geom
// dependency-free of the grid model it serves.
type Cell struct {
	X, Y int
}

func dedupPoints(poly Polygon) Polygon {
	out := make(Polygon, 0, len(poly))
	for _, p := range poly {
		dup := false
		for _, q := range out {
			if math.Abs(p.X-q.X) < zeroish && math.Abs(p.Y-q.Y) < zeroish {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// signedArea2 returns twice the polygon's signed area; positive for
// counter-clockwise vertex order.
func signedArea2(poly Polygon) float64 {
	var area float64
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return area
}

// containsPoint tests a point against a convex polygon using half-plane
// tests over every edge, oriented so that CCW polygons test "left of every
// edge" and CW polygons test "right of every edge". Points on an edge
// (within edgeEps) are inside.
func containsPoint(poly Polygon, ccw bool, p Point) bool {
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if ccw {
			if cross < -edgeEps {
				return false
			}
		} else {
			if cross > edgeEps {
				return false
			}
		}
	}
	return true
}

// RasterizeConvex returns the coverage cells whose centre lies inside the
// convex world-space polygon poly, per the convex-fill rule of spec §4.2.
// Vertices must already be in world coordinates (apply Polygon.Transform
// first). Returns ErrDegenerateFootprint if fewer than 3 distinct points
// remain after dedup, or ErrOutOfBounds if any vertex falls outside the
// grid.
func RasterizeConvex(poly Polygon, grid CellConverter) ([]Cell, error) {
	deduped := dedupPoints(poly)
	if len(deduped) < 3 {
		return nil, ErrDegenerateFootprint
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range deduped {
		// A vertex on the grid's outer edge (within edgeEps) is inside the
		// grid even though flooring it lands one cell past the edge.
		inside := false
		for _, s := range [4][2]float64{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
			x, y := grid.WorldToCellUnbounded(p.X+s[0]*edgeEps, p.Y+s[1]*edgeEps)
			if grid.InBounds(x, y) {
				inside = true
				break
			}
		}
		if !inside {
			return nil, ErrOutOfBounds
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	ccw := signedArea2(deduped) >= 0
	loX, loY := grid.WorldToCellUnbounded(minX, minY)
	hiX, hiY := grid.WorldToCellUnbounded(maxX, maxY)

	seen := make(map[Cell]struct{})
	var out []Cell
	for y := loY; y <= hiY; y++ {
		for x := loX; x <= hiX; x++ {
			if !grid.InBounds(x, y) {
				continue
			}
			cx, cy := grid.CellToWorld(x, y)
			if !containsPoint(deduped, ccw, Point{X: cx, Y: cy}) {
				continue
			}
			c := Cell{X: x, Y: y}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out, nil
}
