package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

// 3x3 room: walls on the bottom row, player in the middle
func roomTiles(t *testing.T) *maze.TileMap {
	t.Helper()
	tiles, err := maze.ParseString("0,0=0\n1,0=0\n2,0=0\n1,1=1\n2,2=2\n")
	if err != nil {
		t.Fatal(err)
	}
	return tiles
}

func TestRenderer_Draw(t *testing.T) {
	screen := newScreen(t, 20, 10)
	r := NewRenderer(DefaultTheme())

	snap := &engine.Snapshot{
		Hearts:       3,
		RequiredKeys: 1,
		Player:       engine.EntityView{Tile: maze.Coord{Col: 1, Row: 1}, Glyph: "@"},
		Slimes: []engine.EntityView{
			{Tile: maze.Coord{Col: 0, Row: 1}, Glyph: "s", Chasing: true},
		},
		Items: []engine.ItemView{
			{Kind: engine.KindKey, Tile: maze.Coord{Col: 0, Row: 2}},
		},
		Exits: []engine.ExitView{{Tile: maze.Coord{Col: 2, Row: 2}}},
	}
	r.Draw(screen, 0, 0, 20, 10, roomTiles(t), snap)

	// maze starts on line 1 and shows 3 rows: row 2 on line 1, row 0 on line 3
	checks := []struct {
		x, y int
		want rune
	}{
		{0, 3, engine.GlyphWall},
		{1, 3, engine.GlyphWall},
		{4, 3, engine.GlyphWall},
		{2, 2, '@'},
		{0, 2, 's'},
		{0, 1, engine.GlyphKey},
		{4, 1, engine.GlyphExitClosed},
	}
	for _, c := range checks {
		if got := runeAt(screen, c.x, c.y); got != c.want {
			t.Errorf("At (%d,%d): expected %q, got %q", c.x, c.y, c.want, got)
		}
	}

	_, _, style, _ := screen.GetContent(0, 2)
	if style != r.Theme.Chasing {
		t.Error("Expected chasing slime style")
	}
	if runeAt(screen, 0, 0) != '♥' {
		t.Error("Expected HUD on the first line")
	}
}

func TestRenderer_DyingPlayer(t *testing.T) {
	screen := newScreen(t, 20, 10)
	r := NewRenderer(DefaultTheme())
	snap := &engine.Snapshot{
		Player: engine.EntityView{Tile: maze.Coord{Col: 1, Row: 1}, Glyph: "x", State: engine.StateDying},
	}
	r.Draw(screen, 0, 0, 20, 10, roomTiles(t), snap)

	_, _, style, _ := screen.GetContent(2, 2)
	if style != r.Theme.Hurt {
		t.Error("Expected hurt style for a dying player")
	}
}

func TestRenderer_CameraFollowsPlayer(t *testing.T) {
	var b strings.Builder
	for col := 0; col < 40; col++ {
		b.WriteString(maze.Coord{Col: col, Row: 0}.String())
		b.WriteString("=0\n")
	}
	tiles, err := maze.ParseString(b.String())
	if err != nil {
		t.Fatal(err)
	}

	screen := newScreen(t, 10, 3)
	r := NewRenderer(DefaultTheme())
	snap := &engine.Snapshot{
		Player: engine.EntityView{Tile: maze.Coord{Col: 39, Row: 0}, Glyph: "@"},
	}
	r.Draw(screen, 0, 0, 10, 3, tiles, snap)

	// 5 tiles visible, clamped to the right edge: player is the last one
	if got := runeAt(screen, 8, 1); got != '@' {
		t.Errorf("Expected player at the right edge, got %q", got)
	}
}

func TestRenderer_NothingToDraw(t *testing.T) {
	screen := newScreen(t, 10, 5)
	r := NewRenderer(DefaultTheme())
	r.Draw(screen, 0, 0, 10, 5, nil, nil)
	if got := runeAt(screen, 0, 0); got != ' ' {
		t.Errorf("Expected blank screen, got %q", got)
	}
}

func TestHUD(t *testing.T) {
	snap := &engine.Snapshot{
		Hearts:       3,
		Keys:         1,
		RequiredKeys: 2,
		PowerUps:     map[string]float64{"speed": 4.2, "shield": 0},
	}
	want := "♥♥♥  Keys 1/2  shield  speed 4s"
	if got := HUD(snap); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	snap = &engine.Snapshot{Hearts: 12}
	if got := HUD(snap); !strings.HasPrefix(got, "♥x12") {
		t.Errorf("Expected compact hearts, got %q", got)
	}
}
