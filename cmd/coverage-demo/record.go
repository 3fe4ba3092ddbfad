package main

import (
	"spiralstc/grid"
	"spiralstc/planner"
)

// frame is one snapshot in a replay: the path driven so far and the set
// of cells visited so far, at the moment one Observer callback fired.
type frame struct {
	label   string
	path    []grid.Cell
	visited map[grid.Cell]bool
}

// recorder implements planner.Observer by snapshotting every callback
// into a frame list a TUI can step through afterwards, rather than
// rendering live — the same "collect messages, replay them" split the
// teacher's bubbletea app keeps between its orchestrator and its view.
type recorder struct {
	cg      *grid.CoverageGrid
	visited map[grid.Cell]bool
	frames  []frame
}

func newRecorder() *recorder {
	return &recorder{visited: make(map[grid.Cell]bool)}
}

func (r *recorder) GridReady(g *grid.CoverageGrid) { r.cg = g }

func (r *recorder) SpiralStep(path []grid.Cell, newlyVisited []grid.Cell) {
	for _, c := range newlyVisited {
		r.visited[c] = true
	}
	r.frames = append(r.frames, r.snapshot("spiral", path))
}

func (r *recorder) RelocationStep(path []grid.Cell) {
	for _, c := range path {
		r.visited[c] = true
	}
	r.frames = append(r.frames, r.snapshot("relocate", path))
}

func (r *recorder) Resigned(remaining []grid.Cell) {
	r.frames = append(r.frames, frame{label: "resigned", visited: cloneVisited(r.visited)})
}

func (r *recorder) snapshot(label string, path []grid.Cell) frame {
	return frame{label: label, path: append([]grid.Cell{}, path...), visited: cloneVisited(r.visited)}
}

func cloneVisited(m map[grid.Cell]bool) map[grid.Cell]bool {
	out := make(map[grid.Cell]bool, len(m))
	for c := range m {
		out[c] = true
	}
	return out
}

var _ planner.Observer = (*recorder)(nil)
