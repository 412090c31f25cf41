package engine

import (
	"fmt"

	"github.com/fop-maze/mazerunner/game/maze"
)

// CollectibleKind is a collectible category
type CollectibleKind string

const (
	KindKey     CollectibleKind = "key"
	KindLife    CollectibleKind = "life"
	KindPowerUp CollectibleKind = "power_up"
)

// GameState holds one collected flag per collectible, per category. Its
// lifetime is the play session, not the world.
type GameState struct {
	Keys     []bool `json:"keys"`
	Lives    []bool `json:"lives"`
	PowerUps []bool `json:"power_ups"`
}

// NewGameState creates flags sized for the given counts, all uncollected
func NewGameState(keys, lives, powerUps int) *GameState {
	return &GameState{
		Keys:     make([]bool, keys),
		Lives:    make([]bool, lives),
		PowerUps: make([]bool, powerUps),
	}
}

// NewGameStateFor creates flags sized for the collectibles of a maze
func NewGameStateFor(tiles *maze.TileMap) *GameState {
	if tiles == nil {
		return NewGameState(0, 0, 0)
	}
	return NewGameState(tiles.Count(maze.Key), tiles.Count(maze.Life), tiles.Count(maze.PowerUp))
}

func (g *GameState) flags(kind CollectibleKind) *[]bool {
	switch kind {
	case KindKey:
		return &g.Keys
	case KindLife:
		return &g.Lives
	case KindPowerUp:
		return &g.PowerUps
	}
	return nil
}

// IsCollected reports whether the item at index has been collected. Unknown
// kinds and out-of-range indexes report false.
func (g *GameState) IsCollected(kind CollectibleKind, index int) bool {
	f := g.flags(kind)
	if f == nil || index < 0 || index >= len(*f) {
		return false
	}
	return (*f)[index]
}

// Collect marks the item at index as collected
func (g *GameState) Collect(kind CollectibleKind, index int) error {
	f := g.flags(kind)
	if f == nil {
		return fmt.Errorf("unknown collectible kind %q", string(kind))
	}
	if index < 0 || index >= len(*f) {
		return fmt.Errorf("%s index %d out of range [0,%d)", kind, index, len(*f))
	}
	(*f)[index] = true
	return nil
}

// CollectedCount returns how many items of a kind have been collected
func (g *GameState) CollectedCount(kind CollectibleKind) int {
	f := g.flags(kind)
	if f == nil {
		return 0
	}
	n := 0
	for _, c := range *f {
		if c {
			n++
		}
	}
	return n
}

// Fit resizes the flag arrays to the given counts, keeping existing flags
// where the index still exists
func (g *GameState) Fit(keys, lives, powerUps int) {
	g.Keys = resize(g.Keys, keys)
	g.Lives = resize(g.Lives, lives)
	g.PowerUps = resize(g.PowerUps, powerUps)
}

func resize(flags []bool, n int) []bool {
	if len(flags) == n {
		return flags
	}
	out := make([]bool, n)
	copy(out, flags)
	return out
}

// Clone returns an independent copy
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	return &GameState{
		Keys:     append(make([]bool, 0, len(g.Keys)), g.Keys...),
		Lives:    append(make([]bool, 0, len(g.Lives)), g.Lives...),
		PowerUps: append(make([]bool, 0, len(g.PowerUps)), g.PowerUps...),
	}
}
