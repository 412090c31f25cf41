package maze

import "testing"

func TestAnalyze(t *testing.T) {
	m, err := ParseString(testMaze)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	r := Analyze(m)
	if r.Entries != 1 || r.Exits != 1 || r.Keys != 1 {
		t.Errorf("Unexpected counts: %+v", r)
	}
	// entry, floor at 2,1, key at 3,1, exit at 2,2
	if r.Reachable != 4 {
		t.Errorf("Expected 4 reachable cells, got %d", r.Reachable)
	}
	if len(r.Unreachable) != 0 {
		t.Errorf("Expected everything reachable, got %v", r.Unreachable)
	}
}

func TestAnalyze_UnreachableKey(t *testing.T) {
	// key sealed behind a wall column
	input := `0,0=0
1,0=0
2,0=0
3,0=0
0,1=1
1,1=0
2,1=0
3,1=5
0,2=0
1,2=0
2,2=0
3,2=0
`
	m, err := ParseString(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	r := Analyze(m)
	if len(r.Unreachable) != 1 {
		t.Fatalf("Expected 1 unreachable target, got %v", r.Unreachable)
	}
	if r.Unreachable[0] != (Coord{Col: 3, Row: 1}) {
		t.Errorf("Expected key at 3,1 to be unreachable, got %v", r.Unreachable[0])
	}
}

func TestAnalyze_NoEntry(t *testing.T) {
	m, err := ParseString("0,0=0\n1,0=5\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	r := Analyze(m)
	if r.Reachable != 0 {
		t.Errorf("Expected no reachable cells without entry, got %d", r.Reachable)
	}
}

func TestDistances(t *testing.T) {
	// open 3x1 corridor: entry, floor, key
	m, err := ParseString("0,0=1\n2,0=5\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	dist := Distances(m, Coord{Col: 0, Row: 0})
	if len(dist) != 3 {
		t.Fatalf("Expected 3 cells, got %v", dist)
	}
	if dist[Coord{Col: 2, Row: 0}] != 2 {
		t.Errorf("Expected key 2 steps away, got %d", dist[Coord{Col: 2, Row: 0}])
	}

	if got := Distances(m, Coord{Col: 5, Row: 5}); len(got) != 0 {
		t.Errorf("Expected nothing reachable from outside the maze, got %v", got)
	}
}
