package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
)

// cellWidth is the number of terminal columns per tile; terminal cells are
// about twice as tall as they are wide
const cellWidth = 2

// Renderer draws a snapshot over its maze onto a tcell screen
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the given theme
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{Theme: theme}
}

// viewport is the window of maze tiles visible on screen
type viewport struct {
	x, y       int // screen origin
	cols, rows int // visible tiles
	col0, row0 int // bottom-left visible tile
}

// camera centres the player, clamped to the maze edges
func camera(center, visible, size int) int {
	if size <= visible {
		return 0
	}
	start := center - visible/2
	if start < 0 {
		start = 0
	}
	if start > size-visible {
		start = size - visible
	}
	return start
}

// screenPos converts a maze coordinate to a screen cell. Row 0 is drawn at
// the bottom.
func (v viewport) screenPos(c maze.Coord) (int, int, bool) {
	dc := c.Col - v.col0
	dr := c.Row - v.row0
	if dc < 0 || dr < 0 || dc >= v.cols || dr >= v.rows {
		return 0, 0, false
	}
	return v.x + dc*cellWidth, v.y + v.rows - 1 - dr, true
}

// Draw renders the HUD on the first line of the rectangle and the maze below
// it
func (r *Renderer) Draw(screen tcell.Screen, x, y, width, height int, tiles *maze.TileMap, snap *engine.Snapshot) {
	if tiles == nil || snap == nil || width < cellWidth || height < 2 {
		return
	}
	fill(screen, x, y, width, height, r.Theme.Floor)
	r.drawHUD(screen, x, y, width, snap)

	v := viewport{x: x, y: y + 1, cols: width / cellWidth, rows: height - 1}
	if v.cols > tiles.Width() {
		v.cols = tiles.Width()
	}
	if v.rows > tiles.Height() {
		v.rows = tiles.Height()
	}
	v.col0 = camera(snap.Player.Tile.Col, v.cols, tiles.Width())
	v.row0 = camera(snap.Player.Tile.Row, v.rows, tiles.Height())

	tiles.Each(func(c maze.Coord, t maze.TileType) {
		if t == maze.Wall {
			r.put(screen, v, c, engine.GlyphWall, r.Theme.Wall, true)
		}
	})
	for _, c := range snap.Traps {
		r.put(screen, v, c, engine.GlyphTrap, r.Theme.Trap, false)
	}
	for _, e := range snap.Exits {
		if e.Open {
			r.put(screen, v, e.Tile, engine.GlyphExitOpen, r.Theme.ExitOpen, false)
		} else {
			r.put(screen, v, e.Tile, engine.GlyphExitClosed, r.Theme.Exit, false)
		}
	}
	for _, it := range snap.Items {
		r.put(screen, v, it.Tile, engine.ItemGlyph(it.Kind, it.PowerUp), r.itemStyle(it.Kind), false)
	}
	for _, s := range snap.Slimes {
		style := r.Theme.Slime
		if s.Chasing {
			style = r.Theme.Chasing
		}
		r.put(screen, v, s.Tile, glyph(s.Glyph), style, false)
	}

	style := r.Theme.Player
	if snap.Player.State == engine.StateDying {
		style = r.Theme.Hurt
	}
	r.put(screen, v, snap.Player.Tile, glyph(snap.Player.Glyph), style, false)
}

func glyph(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}

func (r *Renderer) itemStyle(kind engine.CollectibleKind) tcell.Style {
	switch kind {
	case engine.KindKey:
		return r.Theme.Key
	case engine.KindLife:
		return r.Theme.Life
	}
	return r.Theme.PowerUp
}

// put draws one tile; solid tiles fill both columns
func (r *Renderer) put(screen tcell.Screen, v viewport, c maze.Coord, ch rune, style tcell.Style, solid bool) {
	sx, sy, ok := v.screenPos(c)
	if !ok {
		return
	}
	second := ' '
	if solid {
		second = ch
	}
	screen.SetContent(sx, sy, ch, nil, style)
	screen.SetContent(sx+1, sy, second, nil, style)
}

// HUD returns the status line: hearts, keys, power-ups and the message
func HUD(snap *engine.Snapshot) string {
	var b strings.Builder
	if snap.Hearts <= 10 {
		b.WriteString(strings.Repeat("♥", max(snap.Hearts, 0)))
	} else {
		fmt.Fprintf(&b, "♥x%d", snap.Hearts)
	}
	fmt.Fprintf(&b, "  Keys %d/%d", snap.Keys, snap.RequiredKeys)

	kinds := make([]string, 0, len(snap.PowerUps))
	for k := range snap.PowerUps {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		if left := snap.PowerUps[k]; left > 0 {
			fmt.Fprintf(&b, "  %s %.0fs", k, left)
		} else {
			fmt.Fprintf(&b, "  %s", k)
		}
	}
	return b.String()
}

func (r *Renderer) drawHUD(screen tcell.Screen, x, y, width int, snap *engine.Snapshot) {
	col := drawText(screen, x, y, width, HUD(snap), r.Theme.HUD)
	if snap.Message != "" && col+3 < x+width {
		drawText(screen, col+3, y, x+width-col-3, snap.Message, r.Theme.Message)
	}
}

// drawText writes s clipped to width and returns the column after it
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	col := x
	for _, ch := range s {
		if col >= x+width {
			break
		}
		screen.SetContent(col, y, ch, nil, style)
		col++
	}
	return col
}

func fill(screen tcell.Screen, x, y, width, height int, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, style)
		}
	}
}
