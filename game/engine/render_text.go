package engine

import (
	"github.com/fop-maze/mazerunner/game/maze"
)

// Glyphs used by the text renderings
const (
	GlyphWall       = '#'
	GlyphFloor      = ' '
	GlyphTrap       = '^'
	GlyphExitClosed = 'E'
	GlyphExitOpen   = 'O'
	GlyphKey        = 'k'
	GlyphLife       = '+'
	GlyphSpeed      = '*'
	GlyphShield     = '&'
	GlyphEntry      = '.'
	GlyphSlimeSpawn = 's'
)

// TileGlyph returns the glyph for a raw tile type, as shown for an
// unplayed maze
func TileGlyph(t maze.TileType) rune {
	switch t {
	case maze.Wall:
		return GlyphWall
	case maze.Entry:
		return GlyphEntry
	case maze.Exit:
		return GlyphExitClosed
	case maze.Trap:
		return GlyphTrap
	case maze.Enemy:
		return GlyphSlimeSpawn
	case maze.Key:
		return GlyphKey
	case maze.Life:
		return GlyphLife
	case maze.PowerUp:
		return GlyphSpeed
	}
	return GlyphFloor
}

// ItemGlyph returns the glyph for a collectible
func ItemGlyph(kind CollectibleKind, p PowerUpKind) rune {
	switch kind {
	case KindKey:
		return GlyphKey
	case KindLife:
		return GlyphLife
	case KindPowerUp:
		if p == PowerUpShield {
			return GlyphShield
		}
		return GlyphSpeed
	}
	return '?'
}

// RenderTiles draws a maze as text, top row first
func RenderTiles(tiles *maze.TileMap) []string {
	grid := newTextGrid(tiles)
	tiles.Each(func(c maze.Coord, t maze.TileType) {
		grid.set(c, TileGlyph(t))
	})
	return grid.lines()
}

// RenderText draws a snapshot over its maze as text, top row first. Only
// walls, traps and exits are taken from the tiles; items and entities come
// from the snapshot.
func RenderText(tiles *maze.TileMap, snap *Snapshot) []string {
	grid := newTextGrid(tiles)
	tiles.Each(func(c maze.Coord, t maze.TileType) {
		if t == maze.Wall {
			grid.set(c, GlyphWall)
		}
	})
	for _, c := range snap.Traps {
		grid.set(c, GlyphTrap)
	}
	for _, x := range snap.Exits {
		if x.Open {
			grid.set(x.Tile, GlyphExitOpen)
		} else {
			grid.set(x.Tile, GlyphExitClosed)
		}
	}
	for _, it := range snap.Items {
		grid.set(it.Tile, ItemGlyph(it.Kind, it.PowerUp))
	}
	for _, s := range snap.Slimes {
		grid.set(s.Tile, []rune(s.Glyph)[0])
	}
	if g := []rune(snap.Player.Glyph); len(g) > 0 {
		grid.set(snap.Player.Tile, g[0])
	}
	return grid.lines()
}

// RenderText draws the current state of the world as text
func (w *World) RenderText() []string {
	return RenderText(w.tiles, w.Snapshot())
}

type textGrid struct {
	w, h  int
	cells [][]rune
}

func newTextGrid(tiles *maze.TileMap) *textGrid {
	g := &textGrid{w: tiles.Width(), h: tiles.Height()}
	g.cells = make([][]rune, g.h)
	for i := range g.cells {
		row := make([]rune, g.w)
		for j := range row {
			row[j] = GlyphFloor
		}
		g.cells[i] = row
	}
	return g
}

// set writes a glyph at a maze coordinate; row 0 is the last line
func (g *textGrid) set(c maze.Coord, r rune) {
	if c.Col < 0 || c.Row < 0 || c.Col >= g.w || c.Row >= g.h {
		return
	}
	g.cells[g.h-1-c.Row][c.Col] = r
}

func (g *textGrid) lines() []string {
	out := make([]string, len(g.cells))
	for i, row := range g.cells {
		out[i] = string(row)
	}
	return out
}
