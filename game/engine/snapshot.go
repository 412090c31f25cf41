package engine

import (
	"github.com/fop-maze/mazerunner/game/maze"
)

// EntityView is the transport view of an entity
type EntityView struct {
	Position Vec2        `json:"position"`
	Size     Vec2        `json:"size"`
	Tile     maze.Coord  `json:"tile"`
	State    EntityState `json:"state"`
	Glyph    string      `json:"glyph"`
	Health   int         `json:"health,omitempty"`
	Chasing  bool        `json:"chasing,omitempty"`
}

// ItemView is the transport view of an uncollected collectible
type ItemView struct {
	Kind     CollectibleKind `json:"kind"`
	Index    int             `json:"index"`
	PowerUp  PowerUpKind     `json:"power_up,omitempty"`
	Position Vec2            `json:"position"`
	Tile     maze.Coord      `json:"tile"`
}

// ExitView is the transport view of an exit
type ExitView struct {
	Tile maze.Coord `json:"tile"`
	Open bool       `json:"open"`
}

// Snapshot is a serialisable view of the world
type Snapshot struct {
	Level        string             `json:"level"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	TileSize     float64            `json:"tile_size"`
	Player       EntityView         `json:"player"`
	Slimes       []EntityView       `json:"slimes"`
	Items        []ItemView         `json:"items"`
	Exits        []ExitView         `json:"exits"`
	Traps        []maze.Coord       `json:"traps"`
	Flags        *GameState         `json:"flags"`
	Hearts       int                `json:"hearts"`
	Keys         int                `json:"keys"`
	RequiredKeys int                `json:"required_keys"`
	PowerUps     map[string]float64 `json:"power_ups"`
	GameOver     bool               `json:"game_over"`
	Victory      bool               `json:"victory"`
	Message      string             `json:"message"`
	Time         float64            `json:"time"`
	Frame        uint64             `json:"frame"`
}

func (w *World) entityView(e *Entity) EntityView {
	return EntityView{
		Position: e.Position,
		Size:     e.Size,
		Tile:     w.TileOf(e.Bounds().Center()),
		State:    e.State,
		Glyph:    string(e.Glyph()),
		Health:   e.Health,
	}
}

// Snapshot returns a copy of the visible world state
func (w *World) Snapshot() *Snapshot {
	p := w.player
	snap := &Snapshot{
		Level:        w.config.Name,
		Width:        w.tiles.Width(),
		Height:       w.tiles.Height(),
		TileSize:     w.tuning.TileSize,
		Player:       w.entityView(&p.Entity),
		Slimes:       make([]EntityView, 0, len(w.slimes)),
		Items:        make([]ItemView, 0, len(w.items)),
		Exits:        make([]ExitView, 0, len(w.exits)),
		Traps:        make([]maze.Coord, 0, len(w.traps)),
		Flags:        w.flags.Clone(),
		Hearts:       p.Health,
		Keys:         p.Keys,
		RequiredKeys: w.requiredKeys,
		PowerUps:     make(map[string]float64, len(p.PowerUps)),
		GameOver:     w.gameOver,
		Victory:      w.victory,
		Message:      w.message,
		Time:         w.time,
		Frame:        w.frame,
	}
	for _, s := range w.slimes {
		v := w.entityView(&s.Entity)
		v.Chasing = s.Chasing
		snap.Slimes = append(snap.Slimes, v)
	}
	for _, c := range w.items {
		if c.Collected(w.flags) {
			continue
		}
		snap.Items = append(snap.Items, ItemView{
			Kind:     c.Kind,
			Index:    c.Index,
			PowerUp:  c.PowerUp,
			Position: c.Position,
			Tile:     w.TileOf(c.Bounds().Center()),
		})
	}
	for _, x := range w.exits {
		snap.Exits = append(snap.Exits, ExitView{Tile: w.TileOf(x.Bounds.Center()), Open: x.Open})
	}
	for _, t := range w.traps {
		snap.Traps = append(snap.Traps, w.TileOf(t.Bounds.Center()))
	}
	for k, remaining := range p.PowerUps {
		snap.PowerUps[string(k)] = remaining
	}
	return snap
}
