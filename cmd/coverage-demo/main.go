// Command coverage-demo plays the role of "host" from the planner's point
// of view: it loads a scene file into a grid.ObstacleGrid and a start
// pose, calls planner.Plan, and renders the result — either as a single
// text dump (mra/mra.go's ASCII-demo style) or as an interactive
// bubbletea replay of every Observer callback. A -batch flag instead
// runs one planning call per scene file in a directory concurrently.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"spiralstc/geom"
	"spiralstc/grid"
	"spiralstc/planner"
)

func main() {
	scenePath := flag.String("scene", "", "path to a scene file")
	batchDir := flag.String("batch", "", "path to a directory of scene files, run concurrently")
	paramsPath := flag.String("params", "", "optional JSON params override file")
	tui := flag.Bool("tui", false, "replay the plan in an interactive TUI instead of dumping text")
	flag.Parse()

	logger := log.New(os.Stderr, "coverage-demo: ", log.LstdFlags)

	params := planner.DefaultParams()
	if *paramsPath != "" {
		loaded, err := planner.LoadParams(*paramsPath)
		if err != nil {
			logger.Fatalf("load params: %v", err)
		}
		params = loaded
	}
	vehicle := geom.Polygon{
		{X: -0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: -0.5}, {X: -0.5, Y: -0.5},
	}

	switch {
	case *batchDir != "":
		if err := runBatch(*batchDir, vehicle, params, logger); err != nil {
			logger.Fatalf("batch: %v", err)
		}
	case *scenePath != "":
		if err := runOne(*scenePath, vehicle, params, logger, *tui); err != nil {
			logger.Fatalf("run: %v", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: coverage-demo -scene <file> [-tui] [-params <file>]")
		fmt.Fprintln(os.Stderr, "   or: coverage-demo -batch <dir> [-params <file>]")
		os.Exit(2)
	}
}

func runOne(scenePath string, vehicle geom.Polygon, params planner.Params, logger *log.Logger, tuiMode bool) error {
	scene, err := LoadScene(scenePath)
	if err != nil {
		return err
	}

	rec := newRecorder()
	result, err := planner.Plan(planner.Input{
		Obstacle:         scene.Obstacle,
		Start:            scene.Start,
		VehicleFootprint: vehicle,
		Params:           params,
		Observer:         rec,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	probe := grid.DeriveCoverageGrid(scene.Obstacle, params.TileSize())
	startX, startY := probe.WorldToCellUnbounded(scene.Start.X, scene.Start.Y)
	_, mask, err := grid.Downsample(scene.Obstacle, params.TileSize(), startX, startY)
	if err != nil {
		return err
	}

	if tuiMode {
		return runTUI(result.Grid, mask, rec.frames, result)
	}
	fmt.Printf("run=%s status=%s steps=%d visited=%d multi_pass=%d accessible=%d\n",
		result.RunID, result.Status, len(result.Path), result.Metrics.VisitedCount,
		result.Metrics.MultiPassCount, result.Metrics.AccessibleCount)
	fmt.Print(renderGrid(mask, result.Path, nil))
	return nil
}

func runBatch(dir string, vehicle geom.Polygon, params planner.Params, logger *log.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			scene, err := LoadScene(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			result, err := planner.Plan(planner.Input{
				Obstacle:         scene.Obstacle,
				Start:            scene.Start,
				VehicleFootprint: vehicle,
				Params:           params,
				Logger:           logger,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Printf("%s: run=%s status=%s steps=%d visited=%d",
				path, result.RunID, result.Status, len(result.Path), result.Metrics.VisitedCount)
			return nil
		})
	}
	return g.Wait()
}
