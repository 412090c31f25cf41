// Package validate checks level files for playability. For each level JSON it
// checks:
//   - JSON structure and required fields
//   - The maze property file it names loads and is non-empty
//   - Exactly one entry tile, an exit when keys exist
//   - Known collision policy and power-up kinds, non-negative tuning
//   - Connectivity: every key and exit is reachable from the entry
//
// Unreachable lives and power-ups are reported as warnings.
package validate

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
)

// Result captures the outcome of validating a single level file.
// Info holds informational lines for valid levels and warnings for any.
type Result struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
	Info   []string `json:"info"`
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) note(format string, args ...any) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// Level loads and validates a single level JSON file. The maze file is
// resolved relative to the level file.
func Level(path string) Result {
	result := Result{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
		Info:   []string{},
	}

	cfg, err := engine.LoadLevelConfig(path)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	tiles, err := maze.Load(filepath.Join(filepath.Dir(path), cfg.Maze))
	if err != nil {
		result.fail("Maze %s: %v", cfg.Maze, err)
		return result
	}

	if err := engine.ValidateLevel(cfg, tiles); err != nil {
		result.fail("%v", err)
	}
	if err := cfg.EffectiveTuning().Validate(); err != nil {
		result.fail("Tuning: %v", err)
	}

	report := maze.Analyze(tiles)
	checkConnectivity(&result, tiles, report)

	if result.Valid {
		result.note("✓ Name: %s", cfg.Name)
		result.note("✓ Maze: %s (%dx%d, %d walls)", cfg.Maze, report.Width, report.Height, report.Walls)
		result.note("✓ Keys: %d (required %d)", report.Keys, requiredKeys(cfg, report))
		result.note("✓ Slimes: %d, traps: %d", report.Enemies, report.Traps)
		result.note("✓ Lives: %d, power-ups: %d", report.Lives, report.PowerUps)
	}
	return result
}

func requiredKeys(cfg *engine.LevelConfig, report maze.Report) int {
	if cfg.RequiredKeys > 0 {
		return cfg.RequiredKeys
	}
	return report.Keys
}

// checkConnectivity fails the result for unreachable keys and exits and warns
// about unreachable pickups
func checkConnectivity(result *Result, tiles *maze.TileMap, report maze.Report) {
	if report.Entries == 0 {
		return
	}
	targets := report.Keys + report.Exits + report.Lives + report.PowerUps

	var blocking, optional []string
	for _, c := range report.Unreachable {
		t := tiles.TypeAt(c.Col, c.Row)
		desc := fmt.Sprintf("%s at (%d,%d)", t, c.Col, c.Row)
		if t == maze.Key || t == maze.Exit {
			blocking = append(blocking, desc)
		} else {
			optional = append(optional, desc)
		}
	}

	if len(blocking) > 0 {
		result.fail("Connectivity failure: %d/%d targets unreachable from entry", len(report.Unreachable), targets)
		for _, d := range blocking {
			result.fail("Unreachable: %s", d)
		}
	} else if targets > 0 {
		result.note("✓ Connectivity: keys and exits reachable from entry")
	}
	for _, d := range optional {
		result.note("⚠ Unreachable pickup: %s", d)
	}
}

// Dir validates every *.json level file in dir, sorted by name
func Dir(dir string) ([]Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding level files: %w", err)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, Level(file))
	}
	return results, nil
}

// Print writes a concise report and returns whether all results are valid
func Print(w io.Writer, results []Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
		for _, info := range result.Info {
			fmt.Fprintln(w, "  "+info)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "No level files found")
	case allValid:
		fmt.Fprintln(w, "✅ All levels are valid!")
	default:
		fmt.Fprintln(w, "❌ Some levels have errors")
	}
	return allValid
}
