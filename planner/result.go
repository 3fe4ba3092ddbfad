package planner

import (
	"github.com/google/uuid"

	"spiralstc/grid"
)

// Status is the terminal outcome of a planning call.
type Status int

const (
	Completed Status = iota
	Resigned
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "Completed"
	case Resigned:
		return "Resigned"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Metrics are the coverage counters from spec §4.7/§6. VisitedCount is
// the number of distinct coverage cells ever marked Visited.
// MultiPassCount is how many of those visits were a relocation path
// stepping onto a cell it had already covered; AccessibleCount is
// VisitedCount minus MultiPassCount.
type Metrics struct {
	VisitedCount    int
	MultiPassCount  int
	AccessibleCount int
}

// Result is everything a successful (or resigned/cancelled) Plan call
// returns: the full path it drove, the grid it planned against, and the
// coverage metrics computed from the final mask.
type Result struct {
	RunID   uuid.UUID
	Path    []grid.Cell
	Grid    *grid.CoverageGrid
	Metrics Metrics
	Status  Status
}
