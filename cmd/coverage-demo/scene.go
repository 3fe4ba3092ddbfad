package main

import (
	"bufio"
	"fmt"
	"os"

	"spiralstc/geom"
	"spiralstc/grid"
)

// Scene is a text fixture for cmd/coverage-demo: a rectangular map of
// `#` (blocked), `.` (free) and exactly one `S` (start, facing +X), one
// fine cell per character, one metre per cell. This is the same kind of
// flat ASCII grid fixture the teacher package's mra/mra.go built
// in-line with Go literals; a scene file just lets a fixture live
// outside the binary.
type Scene struct {
	Obstacle *grid.ObstacleGrid
	Start    geom.Pose
}

// LoadScene reads a scene file from path.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]bool
	startX, startY := -1, -1

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		row := make([]bool, len(line))
		for x, r := range line {
			switch r {
			case '#':
				row[x] = true
			case '.':
				row[x] = false
			case 'S':
				row[x] = false
				startX, startY = x, len(rows)
			default:
				return nil, fmt.Errorf("coverage-demo: scene %s: unrecognised glyph %q", path, r)
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("coverage-demo: scene %s: empty", path)
	}
	if startX < 0 {
		return nil, fmt.Errorf("coverage-demo: scene %s: no 'S' start marker", path)
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	occ := make([][]bool, len(rows))
	for y, r := range rows {
		occ[y] = make([]bool, width)
		copy(occ[y], r)
	}

	obstacle := &grid.ObstacleGrid{
		Width:      width,
		Height:     len(occ),
		Resolution: 1.0,
		OriginX:    0,
		OriginY:    0,
		Occupied:   occ,
	}
	sx, sy := obstacle.CellCenter(startX, startY)
	return &Scene{Obstacle: obstacle, Start: geom.Pose{X: sx, Y: sy, Yaw: 0}}, nil
}
