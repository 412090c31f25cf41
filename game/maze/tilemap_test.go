package maze

import "testing"

func TestTileMap_IsWall(t *testing.T) {
	m, err := ParseString(testMaze)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		col, row int
		want     bool
	}{
		{0, 0, true},  // wall
		{1, 1, false}, // entry
		{2, 1, false}, // floor
		{-1, 1, true}, // outside
		{5, 1, true},  // outside
		{2, 3, true},  // outside
	}

	for _, tt := range tests {
		if got := m.IsWall(tt.col, tt.row); got != tt.want {
			t.Errorf("IsWall(%d,%d) = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestTileMap_PositionsSorted(t *testing.T) {
	m := NewTileMap(map[Coord]TileType{
		{Col: 3, Row: 2}: Key,
		{Col: 1, Row: 0}: Key,
		{Col: 0, Row: 2}: Key,
		{Col: 2, Row: 1}: Wall,
	})

	keys := m.Positions(Key)
	want := []Coord{{1, 0}, {0, 2}, {3, 2}}
	if len(keys) != len(want) {
		t.Fatalf("Expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Position %d: expected %v, got %v", i, want[i], keys[i])
		}
	}

	if m.Width() != 4 || m.Height() != 3 {
		t.Errorf("Expected 4x3, got %dx%d", m.Width(), m.Height())
	}
}

func TestTileType_String(t *testing.T) {
	if Wall.String() != "wall" {
		t.Errorf("Expected wall, got %s", Wall.String())
	}
	if PowerUp.String() != "power_up" {
		t.Errorf("Expected power_up, got %s", PowerUp.String())
	}
	if TileType(99).String() != "tile(99)" {
		t.Errorf("Unexpected name for unknown tile: %s", TileType(99).String())
	}
	if Floor.Known() {
		t.Error("Floor should not be a storable tile")
	}
}

func TestNewTileMap_Empty(t *testing.T) {
	m := NewTileMap(nil)
	if !m.Empty() {
		t.Error("Expected empty map")
	}
	if m.Width() != 0 || m.Height() != 0 {
		t.Errorf("Expected 0x0, got %dx%d", m.Width(), m.Height())
	}
}
