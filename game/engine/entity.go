package engine

// Input is the directional state for one frame
type Input struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Run   bool `json:"run"`
}

// Axes returns the horizontal and vertical direction in -1..1. When opposite
// keys are held, right and down win.
func (in Input) Axes() (h, v int) {
	if in.Left {
		h = -1
	}
	if in.Right {
		h = 1
	}
	if in.Up {
		v = 1
	}
	if in.Down {
		v = -1
	}
	return h, v
}

// Entity is the common state of movable things in the world
type Entity struct {
	Position   Vec2
	Size       Vec2
	Velocity   Vec2
	State      EntityState
	Health     int
	StateTime  float64
	Animations AnimationSet
}

// Bounds returns the bounding box
func (e *Entity) Bounds() Rect {
	return Rect{X: e.Position.X, Y: e.Position.Y, W: e.Size.X, H: e.Size.Y}
}

// Glyph returns the current animation frame
func (e *Entity) Glyph() rune {
	looping := e.State != StateDying
	return e.Animations.For(e.State).KeyFrame(e.StateTime, looping)
}

func (e *Entity) setState(s EntityState) {
	if e.State != s {
		e.State = s
		e.StateTime = 0
	}
}

// stateForDirection maps a movement direction to a walking state. Vertical
// movement wins over horizontal.
func stateForDirection(h, v int) EntityState {
	switch {
	case v > 0:
		return StateWalkingUp
	case v < 0:
		return StateWalkingDown
	case h < 0:
		return StateWalkingLeft
	case h > 0:
		return StateWalkingRight
	}
	return StateIdle
}

func sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// PowerUpSet maps active power-ups to their remaining time in seconds.
// A remaining time of 0 means the power-up does not expire.
type PowerUpSet map[PowerUpKind]float64

// Active reports whether kind is active
func (s PowerUpSet) Active(kind PowerUpKind) bool {
	_, ok := s[kind]
	return ok
}

// Activate adds kind with the given duration, refreshing it if already active
func (s PowerUpSet) Activate(kind PowerUpKind, duration float64) {
	s[kind] = duration
}

// Deactivate removes kind
func (s PowerUpSet) Deactivate(kind PowerUpKind) {
	delete(s, kind)
}

// Tick advances timed power-ups and drops the ones that ran out
func (s PowerUpSet) Tick(dt float64) {
	for k, remaining := range s {
		if remaining == 0 {
			continue
		}
		remaining -= dt
		if remaining <= 0 {
			delete(s, k)
			continue
		}
		s[k] = remaining
	}
}

// Player is the entity controlled by the input
type Player struct {
	Entity
	Keys     int
	PowerUps PowerUpSet

	damageReadyAt float64
}

func newPlayer(pos Vec2, t Tuning, hearts int) *Player {
	return &Player{
		Entity: Entity{
			Position:   pos,
			Size:       Vec2{t.PlayerSize, t.PlayerSize},
			State:      StateIdle,
			Health:     hearts,
			Animations: playerAnimations(t.FrameDuration),
		},
		PowerUps: PowerUpSet{},
	}
}

// Speed returns the movement speed for the input
func (p *Player) Speed(in Input, t Tuning) float64 {
	speed := t.PlayerSpeed
	if in.Run {
		speed *= t.RunMultiplier
	}
	if p.PowerUps.Active(PowerUpSpeed) {
		speed *= t.SpeedBoostFactor
	}
	return speed
}

// Dead reports whether the player ran out of hearts
func (p *Player) Dead() bool {
	return p.Health <= 0
}

type damageResult int

const (
	damageIgnored damageResult = iota
	damageAbsorbed
	damageTaken
)

// takeDamage applies one heart of damage at game time now, honouring the
// cooldown and the shield
func (p *Player) takeDamage(now, cooldown float64) damageResult {
	if p.Dead() || now < p.damageReadyAt {
		return damageIgnored
	}
	p.damageReadyAt = now + cooldown
	if p.PowerUps.Active(PowerUpShield) {
		p.PowerUps.Deactivate(PowerUpShield)
		return damageAbsorbed
	}
	p.Health--
	if p.Health <= 0 {
		p.Health = 0
		p.setState(StateDying)
	}
	return damageTaken
}

// Slime is an enemy that wanders until it touches the player, then chases
type Slime struct {
	Entity
	Speed   float64
	Chasing bool

	attackLeft float64
}

func newSlime(pos Vec2, t Tuning) *Slime {
	return &Slime{
		Entity: Entity{
			Position:   pos,
			Size:       Vec2{t.SlimeSize, t.SlimeSize},
			State:      StateIdle,
			Health:     1,
			Animations: slimeAnimations(t.FrameDuration),
		},
		Speed: t.SlimeSpeed,
	}
}

// Collectible is a key, extra life or power-up lying in the maze
type Collectible struct {
	Kind     CollectibleKind
	Index    int
	PowerUp  PowerUpKind
	Position Vec2
	Size     Vec2
}

// Bounds returns the bounding box
func (c *Collectible) Bounds() Rect {
	return Rect{X: c.Position.X, Y: c.Position.Y, W: c.Size.X, H: c.Size.Y}
}

// Collected reports whether the item's flag is set
func (c *Collectible) Collected(gs *GameState) bool {
	return gs.IsCollected(c.Kind, c.Index)
}

// apply grants the item's effect to the player
func (c *Collectible) apply(p *Player, t Tuning) {
	switch c.Kind {
	case KindKey:
		p.Keys++
	case KindLife:
		if p.Health < t.MaxHearts {
			p.Health++
		}
	case KindPowerUp:
		duration := t.PowerUpSeconds()
		if c.PowerUp == PowerUpShield {
			duration = 0
		}
		p.PowerUps.Activate(c.PowerUp, duration)
	}
}

// Trap is a static hazard covering one tile
type Trap struct {
	Bounds Rect
}

// Exit is the level exit; it opens once enough keys are held
type Exit struct {
	Bounds Rect
	Open   bool
}
