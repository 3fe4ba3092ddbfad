// Package relocate finds the shortest route from the spiral's terminus to
// the nearest cell the spiral hasn't covered yet, so CoveragePlanner can
// reseed another spiral there. It is the Go rendering of
// a_star_to_open_space from the source this planner is derived from,
// using the same container/heap open-set shape as the teacher package's
// own A* (pathfinding.go) and MRAStar (mra/mra.go).
package relocate

import (
	"container/heap"
	"math"

	"spiralstc/footprint"
	"spiralstc/geom"
	"spiralstc/grid"
)

// Status is the terminal outcome of a relocation search.
type Status int

const (
	Ok Status = iota
	Resigned
	Cancelled
)

// Relocate searches from origin to the nearest reachable cell that is
// still Free (not yet visited), 4-connected, uniform step cost. Blocked
// cells are impassable; Visited cells are passable in transit but are
// never themselves a goal — a robot can always drive back over ground it
// already covered, it just can't stop the search there (this resolves
// spec §4.6's "treating blocked and visited cells as impassable" in favor
// of the multi-pass metric it names elsewhere, which only makes sense if
// relocation paths can cross previously-visited cells; see DESIGN.md).
//
// A candidate goal is accepted only if the vehicle's footprint at the
// arrival yaw contains no Blocked cell and at most maxOverlap Visited
// cells; rejected candidates are marked Visited (so they won't be
// reattempted) and the search restarts from origin. Ties among
// equal-distance candidates resolve to the smallest row-major index, so
// the result is deterministic for identical inputs.
func Relocate(origin grid.Cell, mask *grid.CellMask, engine *footprint.Engine, maxOverlap int, cancelled func() bool) ([]grid.Cell, Status) {
	for {
		path, status := shortestPathToFreeCell(origin, mask, cancelled)
		if status != Ok {
			return nil, status
		}
		goalCell := path[len(path)-1]
		prev := origin
		if len(path) >= 2 {
			prev = path[len(path)-2]
		}
		yawArrival := math.Atan2(float64(goalCell.Y-prev.Y), float64(goalCell.X-prev.X))

		xw, yw := engine.Grid.CellToWorld(goalCell.X, goalCell.Y)
		footCells, err := engine.FootprintCells(geom.Pose{X: xw, Y: yw, Yaw: yawArrival}, footprint.Vehicle)
		if err == nil && footprintAcceptable(footCells, mask, maxOverlap) {
			return path, Ok
		}
		// Reject: this cell can't host the vehicle. Mark it visited so it
		// is never offered as a goal again, and search afresh.
		mask.Visit(goalCell.X, goalCell.Y)
	}
}

func footprintAcceptable(cells []grid.Cell, mask *grid.CellMask, maxOverlap int) bool {
	visitCount := 0
	for _, c := range cells {
		if mask.IsBlocked(c.X, c.Y) {
			return false
		}
		if mask.IsVisited(c.X, c.Y) {
			visitCount++
		}
	}
	return visitCount <= maxOverlap
}

type searchNode struct {
	cell    grid.Cell
	g       int
	parent  *searchNode
	openIdx int
}

// rowMajor is the tie-break key: smallest row-major index wins among
// equal-cost frontier nodes.
func rowMajor(c grid.Cell, w int) int { return c.Y*w + c.X }

type openHeap struct {
	nodes []*searchNode
	width int
}

func (h openHeap) Len() int { return len(h.nodes) }
func (h openHeap) Less(i, j int) bool {
	a, b := h.nodes[i], h.nodes[j]
	if a.g != b.g {
		return a.g < b.g
	}
	return rowMajor(a.cell, h.width) < rowMajor(b.cell, h.width)
}
func (h openHeap) Swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.nodes[i].openIdx, h.nodes[j].openIdx = i, j
}
func (h *openHeap) Push(x any) {
	n := x.(*searchNode)
	n.openIdx = len(h.nodes)
	h.nodes = append(h.nodes, n)
}
func (h *openHeap) Pop() any {
	old := h.nodes
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.openIdx = -1
	h.nodes = old[:n-1]
	return item
}

var neighborOffsets = [4]grid.Cell{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

// shortestPathToFreeCell runs a uniform-cost search from origin and
// returns the path (excluding origin) to the nearest Free cell, or
// Resigned if none is reachable.
func shortestPathToFreeCell(origin grid.Cell, mask *grid.CellMask, cancelled func() bool) ([]grid.Cell, Status) {
	open := &openHeap{width: mask.W}
	start := &searchNode{cell: origin, g: 0}
	heap.Push(open, start)

	best := make(map[grid.Cell]int)
	best[origin] = 0
	closed := make(map[grid.Cell]bool)

	for open.Len() > 0 {
		if cancelled != nil && cancelled() {
			return nil, Cancelled
		}
		cur := heap.Pop(open).(*searchNode)
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		if cur.cell != origin && mask.IsFree(cur.cell.X, cur.cell.Y) {
			return reconstruct(cur), Ok
		}

		for _, off := range neighborOffsets {
			next := grid.Cell{X: cur.cell.X + off.X, Y: cur.cell.Y + off.Y}
			if !mask.InGridBounds(next.X, next.Y) || mask.IsBlocked(next.X, next.Y) || closed[next] {
				continue
			}
			ng := cur.g + 1
			if old, ok := best[next]; ok && ng >= old {
				continue
			}
			best[next] = ng
			heap.Push(open, &searchNode{cell: next, g: ng, parent: cur})
		}
	}
	return nil, Resigned
}

func reconstruct(goal *searchNode) []grid.Cell {
	var rev []grid.Cell
	for n := goal; n.parent != nil; n = n.parent {
		rev = append(rev, n.cell)
	}
	out := make([]grid.Cell, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}
