package main

import (
	"strings"

	"spiralstc/grid"
)

// renderGrid draws obstacle as '#', the most recent path cell as '@',
// other driven path cells and visited cells as '*', and everything else
// as '.'.
func renderGrid(mask *grid.CellMask, path []grid.Cell, extraVisited map[grid.Cell]bool) string {
	onPath := make(map[grid.Cell]bool, len(path))
	for _, c := range path {
		onPath[c] = true
	}

	var b strings.Builder
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			c := grid.Cell{X: x, Y: y}
			switch {
			case len(path) > 0 && path[len(path)-1] == c:
				b.WriteByte('@')
			case mask.IsBlocked(x, y):
				b.WriteByte('#')
			case onPath[c] || extraVisited[c] || mask.IsVisited(x, y):
				b.WriteByte('*')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
