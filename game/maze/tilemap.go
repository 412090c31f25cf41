package maze

import (
	"fmt"
	"io"
	"sort"
)

// TileType is the integer code stored for a maze coordinate
type TileType int

const (
	Wall    TileType = 0
	Entry   TileType = 1
	Exit    TileType = 2
	Trap    TileType = 3
	Enemy   TileType = 4
	Key     TileType = 5
	Life    TileType = 6
	PowerUp TileType = 7

	// Floor is never stored; it is reported for coordinates missing from the map
	Floor TileType = -1
)

var tileNames = map[TileType]string{
	Wall:    "wall",
	Entry:   "entry",
	Exit:    "exit",
	Trap:    "trap",
	Enemy:   "enemy",
	Key:     "key",
	Life:    "life",
	PowerUp: "power_up",
	Floor:   "floor",
}

// String returns the lowercase tile name
func (t TileType) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tile(%d)", int(t))
}

// Known reports whether t is one of the defined tile codes
func (t TileType) Known() bool {
	_, ok := tileNames[t]
	return ok && t != Floor
}

// Coord is a tile coordinate
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Col, c.Row)
}

// TileMap maps coordinates to tile types. It is not modified after loading.
type TileMap struct {
	tiles  map[Coord]TileType
	width  int
	height int
}

// NewTileMap builds a tile map from a coordinate table
func NewTileMap(tiles map[Coord]TileType) *TileMap {
	m := &TileMap{tiles: make(map[Coord]TileType, len(tiles))}
	for c, t := range tiles {
		m.set(c, t)
	}
	return m
}

func (m *TileMap) set(c Coord, t TileType) {
	m.tiles[c] = t
	if c.Col+1 > m.width {
		m.width = c.Col + 1
	}
	if c.Row+1 > m.height {
		m.height = c.Row + 1
	}
}

// At returns the stored tile type and whether the coordinate is present
func (m *TileMap) At(col, row int) (TileType, bool) {
	t, ok := m.tiles[Coord{Col: col, Row: row}]
	return t, ok
}

// TypeAt returns the tile type at a coordinate, Floor when absent
func (m *TileMap) TypeAt(col, row int) TileType {
	if t, ok := m.At(col, row); ok {
		return t
	}
	return Floor
}

// IsWall reports whether the coordinate blocks movement. Coordinates outside
// the maze bounds count as walls.
func (m *TileMap) IsWall(col, row int) bool {
	if !m.InBounds(col, row) {
		return true
	}
	t, ok := m.At(col, row)
	return ok && t == Wall
}

// InBounds reports whether the coordinate lies inside the maze rectangle
func (m *TileMap) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < m.width && row < m.height
}

// Width is the largest column index plus one
func (m *TileMap) Width() int { return m.width }

// Height is the largest row index plus one
func (m *TileMap) Height() int { return m.height }

// Len is the number of stored entries
func (m *TileMap) Len() int { return len(m.tiles) }

// Empty reports whether the map has no entries
func (m *TileMap) Empty() bool { return len(m.tiles) == 0 }

// Coords returns all stored coordinates in row-major order, bottom row first
func (m *TileMap) Coords() []Coord {
	coords := make([]Coord, 0, len(m.tiles))
	for c := range m.tiles {
		coords = append(coords, c)
	}
	sortCoords(coords)
	return coords
}

// Each calls fn for every stored tile in row-major order
func (m *TileMap) Each(fn func(c Coord, t TileType)) {
	for _, c := range m.Coords() {
		fn(c, m.tiles[c])
	}
}

// Positions returns the coordinates holding the given tile type in row-major order
func (m *TileMap) Positions(t TileType) []Coord {
	var out []Coord
	for c, tt := range m.tiles {
		if tt == t {
			out = append(out, c)
		}
	}
	sortCoords(out)
	return out
}

// Count returns the number of tiles of the given type
func (m *TileMap) Count(t TileType) int {
	n := 0
	for _, tt := range m.tiles {
		if tt == t {
			n++
		}
	}
	return n
}

// Encode writes the map back out in property format, sorted row-major
func (m *TileMap) Encode(w io.Writer) error {
	for _, c := range m.Coords() {
		if _, err := fmt.Fprintf(w, "%d,%d=%d\n", c.Col, c.Row, int(m.tiles[c])); err != nil {
			return err
		}
	}
	return nil
}

func sortCoords(coords []Coord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
}
