package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fop-maze/mazerunner/game/maze"
)

// 7x3 corridor: entry 1,1, slime 2,1, key 4,1, exit 5,1
const corridor = `0,0=0
1,0=0
2,0=0
3,0=0
4,0=0
5,0=0
6,0=0
0,1=0
1,1=1
2,1=4
4,1=5
5,1=2
6,1=0
0,2=0
1,2=0
2,2=0
3,2=0
4,2=0
5,2=0
6,2=0
`

func writeLevel(t *testing.T, mazeText string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.properties"), []byte(mazeText), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "test.json")
	level := `{"name": "Corridor", "maze": "test.properties", "tuning": {"player_speed": 64}}`
	if err := os.WriteFile(path, []byte(level), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTargets(t *testing.T) {
	tiles, err := maze.ParseString(corridor)
	if err != nil {
		t.Fatal(err)
	}

	got := targets(tiles, maze.Coord{Col: 1, Row: 1})
	want := map[maze.TileType]int{maze.Key: 3, maze.Exit: 4, maze.Enemy: 1}
	if len(got) != len(want) {
		t.Fatalf("Expected %d targets, got %+v", len(want), got)
	}
	for _, tg := range got {
		if tg.Steps != want[tg.Type] {
			t.Errorf("%s: expected %d steps, got %d", tg.Type, want[tg.Type], tg.Steps)
		}
	}
}

func TestAnalyzeLevel(t *testing.T) {
	var buf bytes.Buffer
	analyzeLevel(&buf, writeLevel(t, corridor))
	out := buf.String()

	expected := []string{
		"Name: Corridor",
		"Maze: 7 x 3",
		"Keys: 1, Exits: 1, Slimes: 1, Traps: 0",
		"Entry Position: (1, 1)",
		"key at (4, 1): 3 steps",
		// 4 steps of 32 units at 64 units/s
		"Farthest key or exit: 4 steps (~2.0s walking)",
		"1 hazards within 3 steps",
		"All keys and exits are reachable",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestAnalyzeLevel_Unreachable(t *testing.T) {
	// wall at 3,1 cuts the key and exit off
	sealed := strings.Replace(corridor, "4,1=5", "3,1=0\n4,1=5", 1)

	var buf bytes.Buffer
	analyzeLevel(&buf, writeLevel(t, sealed))
	out := buf.String()

	if !strings.Contains(out, "CRITICAL: 2 keys or exits are unreachable") {
		t.Errorf("Expected unreachable warning:\n%s", out)
	}
	if !strings.Contains(out, "Unreachable key: (4, 1)") {
		t.Errorf("Expected unreachable key:\n%s", out)
	}
}

func TestAnalyzeLevel_InvalidFile(t *testing.T) {
	var buf bytes.Buffer
	analyzeLevel(&buf, filepath.Join(t.TempDir(), "missing.json"))
	if !strings.Contains(buf.String(), "Error reading level") {
		t.Errorf("Expected read error, got %s", buf.String())
	}
}
