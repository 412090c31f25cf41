package engine

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/fop-maze/mazerunner/game/maze"
)

// EventType identifies something that happened during a frame
type EventType string

const (
	EventKey        EventType = "key"
	EventLife       EventType = "life"
	EventPowerUp    EventType = "power_up"
	EventHit        EventType = "hit"
	EventShield     EventType = "shield"
	EventExitLocked EventType = "exit_locked"
	EventVictory    EventType = "victory"
	EventGameOver   EventType = "game_over"
)

// Event is emitted by Update for the front-ends (sounds, messages)
type Event struct {
	Type     EventType `json:"type"`
	Message  string    `json:"message,omitempty"`
	Position Vec2      `json:"position"`
}

type worldOptions struct {
	seed   int64
	hearts int
}

// Option configures NewWorld
type Option func(*worldOptions)

// WithSeed seeds the slime random walk
func WithSeed(seed int64) Option {
	return func(o *worldOptions) { o.seed = seed }
}

// WithHearts starts the player with the given hearts instead of the level's
// starting hearts. Values <= 0 are ignored.
func WithHearts(hearts int) Option {
	return func(o *worldOptions) { o.hearts = hearts }
}

// World is one level in play. It is not safe for concurrent use.
type World struct {
	config   *LevelConfig
	tuning   Tuning
	messages Messages
	tiles    *maze.TileMap
	flags    *GameState
	collide  Collider
	rng      *rand.Rand

	player       *Player
	slimes       []*Slime
	items        []*Collectible
	traps        []Trap
	exits        []*Exit
	requiredKeys int

	time     float64
	frame    uint64
	gameOver bool
	victory  bool
	message  string
	atExit   bool
}

// NewWorld spawns the entities of a level. flags is shared with the caller
// and updated as items are collected; collected items are not spawned. A nil
// flags value starts with nothing collected.
func NewWorld(cfg *LevelConfig, tiles *maze.TileMap, flags *GameState, opts ...Option) (*World, error) {
	if tiles == nil || tiles.Empty() {
		return nil, ErrEmptyMaze
	}
	entries := tiles.Positions(maze.Entry)
	if len(entries) == 0 {
		return nil, ErrNoEntry
	}
	if cfg == nil {
		cfg = DefaultLevelConfig()
	}

	tuning := cfg.EffectiveTuning()
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	collide, err := cfg.Collision.Collider(tuning.CollisionThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	o := worldOptions{seed: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if flags == nil {
		flags = NewGameStateFor(tiles)
	}
	flags.Fit(tiles.Count(maze.Key), tiles.Count(maze.Life), tiles.Count(maze.PowerUp))

	w := &World{
		config:   cfg,
		tuning:   tuning,
		messages: cfg.EffectiveMessages(),
		tiles:    tiles,
		flags:    flags,
		collide:  collide,
		rng:      rand.New(rand.NewSource(o.seed)),
	}

	hearts := tuning.StartingHearts
	if o.hearts > 0 {
		hearts = o.hearts
	}
	w.player = newPlayer(w.tileOrigin(entries[0], tuning.PlayerSize), tuning, hearts)
	w.player.Keys = flags.CollectedCount(KindKey)

	for _, c := range tiles.Positions(maze.Enemy) {
		w.slimes = append(w.slimes, newSlime(w.tileOrigin(c, tuning.SlimeSize), tuning))
	}
	w.addItems(KindKey, tiles.Positions(maze.Key))
	w.addItems(KindLife, tiles.Positions(maze.Life))
	w.addItems(KindPowerUp, tiles.Positions(maze.PowerUp))
	for _, c := range tiles.Positions(maze.Trap) {
		w.traps = append(w.traps, Trap{Bounds: w.tileRect(c)})
	}

	w.requiredKeys = cfg.RequiredKeys
	if w.requiredKeys == 0 {
		w.requiredKeys = tiles.Count(maze.Key)
	}
	for _, c := range tiles.Positions(maze.Exit) {
		w.exits = append(w.exits, &Exit{Bounds: w.tileRect(c), Open: w.player.Keys >= w.requiredKeys})
	}

	w.message = w.messages.Welcome
	return w, nil
}

func (w *World) addItems(kind CollectibleKind, coords []maze.Coord) {
	for i, c := range coords {
		item := &Collectible{
			Kind:     kind,
			Index:    i,
			Position: w.tileOrigin(c, w.tuning.ItemSize),
			Size:     Vec2{w.tuning.ItemSize, w.tuning.ItemSize},
		}
		if kind == KindPowerUp {
			item.PowerUp = w.config.PowerUpKindAt(i)
		}
		w.items = append(w.items, item)
	}
}

// tileOrigin returns the bottom-left corner of a box of the given size
// centred in a tile
func (w *World) tileOrigin(c maze.Coord, size float64) Vec2 {
	ts := w.tuning.TileSize
	return Vec2{
		X: float64(c.Col)*ts + (ts-size)/2,
		Y: float64(c.Row)*ts + (ts-size)/2,
	}
}

func (w *World) tileRect(c maze.Coord) Rect {
	ts := w.tuning.TileSize
	return Rect{X: float64(c.Col) * ts, Y: float64(c.Row) * ts, W: ts, H: ts}
}

// TileOf returns the tile containing a point
func (w *World) TileOf(p Vec2) maze.Coord {
	ts := w.tuning.TileSize
	return maze.Coord{Col: int(math.Floor(p.X / ts)), Row: int(math.Floor(p.Y / ts))}
}

const edgeEpsilon = 1e-9

// blocked reports whether r overlaps a wall tile or leaves the maze
func (w *World) blocked(r Rect) bool {
	ts := w.tuning.TileSize
	c0 := int(math.Floor(r.X / ts))
	c1 := int(math.Floor((r.X + r.W - edgeEpsilon) / ts))
	r0 := int(math.Floor(r.Y / ts))
	r1 := int(math.Floor((r.Y + r.H - edgeEpsilon) / ts))
	for col := c0; col <= c1; col++ {
		for row := r0; row <= r1; row++ {
			if w.tiles.IsWall(col, row) {
				return true
			}
		}
	}
	return false
}

// move displaces e by delta, resolving each axis separately so that an
// entity pressed against a wall slides along it. Each axis advances in steps
// of at most half a tile so a fast entity cannot pass through a wall.
func (w *World) move(e *Entity, delta Vec2) {
	w.moveAxis(e, &e.Position.X, e.Size.X, delta.X)
	w.moveAxis(e, &e.Position.Y, e.Size.Y, delta.Y)
}

// moveAxis moves *pos by d in steps, stopping at the first wall hit
func (w *World) moveAxis(e *Entity, pos *float64, size, d float64) {
	ts := w.tuning.TileSize
	maxStep := ts / 2
	if maxStep <= 0 {
		maxStep = math.Abs(d)
	}
	for d != 0 {
		step := d
		if math.Abs(step) > maxStep {
			step = math.Copysign(maxStep, d)
		}
		d -= step

		orig := *pos
		*pos += step
		if !w.blocked(e.Bounds()) {
			continue
		}
		if step > 0 {
			*pos = math.Floor((*pos+size)/ts)*ts - size
		} else {
			*pos = (math.Floor(*pos/ts) + 1) * ts
		}
		if w.blocked(e.Bounds()) || (*pos-orig)*step < 0 {
			*pos = orig
		}
		return
	}
}

// Update advances the world by dt seconds with the given input and returns
// the events of the frame. dt is clamped to the tuning's MaxFrameStep.
func (w *World) Update(dt float64, in Input) []Event {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if w.tuning.MaxFrameStep > 0 && dt > w.tuning.MaxFrameStep {
		dt = w.tuning.MaxFrameStep
	}
	w.time += dt
	w.frame++

	w.player.StateTime += dt
	for _, s := range w.slimes {
		s.StateTime += dt
	}
	if w.gameOver || w.victory {
		return nil
	}

	var events []Event
	w.updatePlayer(dt, in)
	events = w.updateSlimes(dt, events)
	events = w.updateTraps(events)
	events = w.updateCollectibles(events)
	events = w.updateExits(events)

	if w.player.Dead() {
		w.gameOver = true
		w.message = w.messages.GameOver
		events = append(events, Event{Type: EventGameOver, Message: w.message, Position: w.player.Position})
	}
	return events
}

func (w *World) updatePlayer(dt float64, in Input) {
	p := w.player
	p.PowerUps.Tick(dt)
	h, v := in.Axes()
	speed := p.Speed(in, w.tuning)
	p.Velocity = Vec2{X: float64(h) * speed, Y: float64(v) * speed}
	w.move(&p.Entity, p.Velocity.Scale(dt))
	p.setState(stateForDirection(h, v))
}

func (w *World) updateSlimes(dt float64, events []Event) []Event {
	p := w.player
	for _, s := range w.slimes {
		var delta Vec2
		if s.Chasing {
			dir := p.Bounds().Center().Sub(s.Bounds().Center())
			step := s.Speed * dt
			if d := dir.Len(); d > 0 {
				if step > d {
					step = d
				}
				delta = dir.Normalize().Scale(step)
			}
		} else {
			j := s.Speed * dt
			delta = Vec2{X: w.rng.Float64()*j - j/2, Y: w.rng.Float64()*j - j/2}
		}
		if dt > 0 {
			s.Velocity = delta.Scale(1 / dt)
		}
		w.move(&s.Entity, delta)

		if s.attackLeft > 0 {
			s.attackLeft -= dt
		}
		if w.collide(s.Bounds(), p.Bounds()) {
			s.Chasing = true
			s.attackLeft = w.tuning.AttackDuration
			events = w.damage(events, s.Position)
		}
		if s.attackLeft > 0 {
			s.setState(StateAttacking)
		} else {
			s.setState(StateIdle)
		}
	}
	return events
}

func (w *World) updateTraps(events []Event) []Event {
	for _, t := range w.traps {
		if w.player.Bounds().Overlaps(t.Bounds) {
			events = w.damage(events, Vec2{X: t.Bounds.X, Y: t.Bounds.Y})
		}
	}
	return events
}

func (w *World) damage(events []Event, at Vec2) []Event {
	switch w.player.takeDamage(w.time, w.tuning.DamageCooldown) {
	case damageTaken:
		w.message = format(w.messages.Hit, w.player.Health)
		events = append(events, Event{Type: EventHit, Message: w.message, Position: at})
	case damageAbsorbed:
		w.message = w.messages.ShieldAbsorbed
		events = append(events, Event{Type: EventShield, Message: w.message, Position: at})
	}
	return events
}

func (w *World) updateCollectibles(events []Event) []Event {
	p := w.player
	for _, c := range w.items {
		if c.Collected(w.flags) || !p.Bounds().Overlaps(c.Bounds()) {
			continue
		}
		if err := w.flags.Collect(c.Kind, c.Index); err != nil {
			continue
		}
		c.apply(p, w.tuning)

		ev := Event{Position: c.Position}
		switch c.Kind {
		case KindKey:
			ev.Type = EventKey
			w.message = format(w.messages.KeyCollected, p.Keys)
		case KindLife:
			ev.Type = EventLife
			w.message = format(w.messages.LifeCollected, p.Health)
		case KindPowerUp:
			ev.Type = EventPowerUp
			w.message = format(w.messages.PowerUpCollected, string(c.PowerUp))
		}
		ev.Message = w.message
		events = append(events, ev)
	}
	return events
}

func (w *World) updateExits(events []Event) []Event {
	p := w.player
	atExit := false
	for _, x := range w.exits {
		x.Open = p.Keys >= w.requiredKeys
		if !p.Bounds().Overlaps(x.Bounds) {
			continue
		}
		atExit = true
		if x.Open {
			w.victory = true
			w.message = w.messages.Victory
			events = append(events, Event{Type: EventVictory, Message: w.message, Position: p.Position})
			break
		}
		if !w.atExit {
			w.message = format(w.messages.ExitLocked, w.requiredKeys-p.Keys)
			events = append(events, Event{Type: EventExitLocked, Message: w.message, Position: p.Position})
		}
	}
	w.atExit = atExit
	return events
}

func format(tmpl string, arg interface{}) string {
	if !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, arg)
}

// Player returns the player entity
func (w *World) Player() *Player { return w.player }

// Slimes returns the slimes
func (w *World) Slimes() []*Slime { return w.slimes }

// Collectibles returns every collectible, including collected ones
func (w *World) Collectibles() []*Collectible { return w.items }

// Traps returns the traps
func (w *World) Traps() []Trap { return w.traps }

// Exits returns the exits
func (w *World) Exits() []*Exit { return w.exits }

// Tiles returns the maze
func (w *World) Tiles() *maze.TileMap { return w.tiles }

// Flags returns the collected flags shared with the caller
func (w *World) Flags() *GameState { return w.flags }

// Config returns the level configuration
func (w *World) Config() *LevelConfig { return w.config }

// Tuning returns the effective tuning
func (w *World) Tuning() Tuning { return w.tuning }

// RequiredKeys is the number of keys that opens the exit
func (w *World) RequiredKeys() int { return w.requiredKeys }

// Time is the elapsed game time in seconds
func (w *World) Time() float64 { return w.time }

// Frame is the number of updates run
func (w *World) Frame() uint64 { return w.frame }

func (w *World) GameOver() bool { return w.gameOver }

func (w *World) Victory() bool { return w.victory }

// Message is the latest status text
func (w *World) Message() string { return w.message }
