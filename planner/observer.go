package planner

import "spiralstc/grid"

// Observer receives progress callbacks during a Plan call, the same
// opaque-listener shape the TUI replay in cmd/coverage-demo drives itself
// with. All methods are called synchronously on the planning goroutine;
// an Observer must not block.
type Observer interface {
	// GridReady fires once, after the coverage grid and mask are built.
	GridReady(g *grid.CoverageGrid)
	// SpiralStep fires after every accepted spiral step.
	SpiralStep(path []grid.Cell, newlyVisited []grid.Cell)
	// RelocationStep fires once per successful relocation, with the
	// relocation path (excluding its origin).
	RelocationStep(path []grid.Cell)
	// Resigned fires once, if the planner gives up with free cells
	// remaining unreachable.
	Resigned(remaining []grid.Cell)
}

// NopObserver implements Observer with no-ops, for callers that don't
// need progress callbacks.
type NopObserver struct{}

func (NopObserver) GridReady(*grid.CoverageGrid)        {}
func (NopObserver) SpiralStep([]grid.Cell, []grid.Cell) {}
func (NopObserver) RelocationStep([]grid.Cell)          {}
func (NopObserver) Resigned([]grid.Cell)                {}
