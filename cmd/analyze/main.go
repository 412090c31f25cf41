// Command analyze prints quick, human-readable heuristics about the levels in
// the project's levels directory. It summarizes dimensions and tile counts,
// the walking distance from the entry to every key and exit, and how close
// slimes and traps spawn to the entry.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
)

// dangerRadius is the step distance from the entry under which a slime or
// trap is flagged
const dangerRadius = 3

// Target is a tile of interest and its walking distance from the entry.
// Steps is -1 when the tile cannot be reached.
type Target struct {
	Type  maze.TileType
	At    maze.Coord
	Steps int
}

func main() {
	dir := "levels"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No level files in %s\n", dir)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeLevel(os.Stdout, file)
	}
}

// targets lists keys, exits, slimes and traps with their distance from start
func targets(tiles *maze.TileMap, start maze.Coord) []Target {
	dist := maze.Distances(tiles, start)
	var out []Target
	for _, t := range []maze.TileType{maze.Key, maze.Exit, maze.Enemy, maze.Trap} {
		for _, c := range tiles.Positions(t) {
			steps, ok := dist[c]
			if !ok {
				steps = -1
			}
			out = append(out, Target{Type: t, At: c, Steps: steps})
		}
	}
	return out
}

func analyzeLevel(w io.Writer, path string) {
	cfg, err := engine.LoadLevelConfig(path)
	if err != nil {
		fmt.Fprintf(w, "Error reading level: %v\n", err)
		return
	}
	tiles, err := maze.Load(filepath.Join(filepath.Dir(path), cfg.Maze))
	if err != nil {
		fmt.Fprintf(w, "Error reading maze: %v\n", err)
		return
	}

	report := maze.Analyze(tiles)
	tuning := cfg.EffectiveTuning()

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Maze: %d x %d (%d walls)\n", report.Width, report.Height, report.Walls)
	fmt.Fprintf(w, "Keys: %d, Exits: %d, Slimes: %d, Traps: %d\n", report.Keys, report.Exits, report.Enemies, report.Traps)
	fmt.Fprintf(w, "Lives: %d, Power-ups: %d\n", report.Lives, report.PowerUps)
	fmt.Fprintf(w, "Starting hearts: %d\n", tuning.StartingHearts)

	entries := tiles.Positions(maze.Entry)
	if len(entries) == 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: no entry tile\n")
		return
	}
	entry := entries[0]
	fmt.Fprintf(w, "Entry Position: (%d, %d)\n", entry.Col, entry.Row)

	route := 0
	var unreachable, danger []Target
	for _, t := range targets(tiles, entry) {
		switch {
		case t.Steps < 0:
			if t.Type == maze.Key || t.Type == maze.Exit {
				unreachable = append(unreachable, t)
			}
		case t.Type == maze.Key || t.Type == maze.Exit:
			fmt.Fprintf(w, "  %s at (%d, %d): %d steps\n", t.Type, t.At.Col, t.At.Row, t.Steps)
			if t.Steps > route {
				route = t.Steps
			}
		case t.Steps <= dangerRadius:
			danger = append(danger, t)
		}
	}

	if route > 0 && tuning.PlayerSpeed > 0 {
		seconds := float64(route) * tuning.TileSize / tuning.PlayerSpeed
		fmt.Fprintf(w, "Farthest key or exit: %d steps (~%.1fs walking)\n", route, seconds)
	}

	if len(danger) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d hazards within %d steps of the entry\n", len(danger), dangerRadius)
		for _, t := range danger {
			fmt.Fprintf(w, "   %s at (%d, %d): %d steps\n", t.Type, t.At.Col, t.At.Row, t.Steps)
		}
	}

	if len(unreachable) > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d keys or exits are unreachable from the entry!\n", len(unreachable))
		for _, t := range unreachable {
			fmt.Fprintf(w, "   Unreachable %s: (%d, %d)\n", t.Type, t.At.Col, t.At.Row)
		}
	} else {
		fmt.Fprintf(w, "✅ All keys and exits are reachable from the entry\n")
	}
}
