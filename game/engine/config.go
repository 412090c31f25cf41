package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fop-maze/mazerunner/game/maze"
)

// Validation errors
var (
	ErrEmptyMaze    = errors.New("maze is empty")
	ErrNoEntry      = errors.New("maze has no entry tile")
	ErrInvalidLevel = errors.New("invalid level")
)

// PowerUpKind names a power-up effect
type PowerUpKind string

const (
	PowerUpSpeed  PowerUpKind = "speed"
	PowerUpShield PowerUpKind = "shield"
)

// Valid reports whether k is a known power-up kind
func (k PowerUpKind) Valid() bool {
	return k == PowerUpSpeed || k == PowerUpShield
}

// Messages are the texts shown for game events. Entries containing %d are
// formatted with the relevant count.
type Messages struct {
	Welcome          string `json:"welcome,omitempty"`
	KeyCollected     string `json:"key_collected,omitempty"`
	LifeCollected    string `json:"life_collected,omitempty"`
	PowerUpCollected string `json:"power_up_collected,omitempty"`
	ShieldAbsorbed   string `json:"shield_absorbed,omitempty"`
	Hit              string `json:"hit,omitempty"`
	ExitLocked       string `json:"exit_locked,omitempty"`
	Victory          string `json:"victory,omitempty"`
	GameOver         string `json:"game_over,omitempty"`
}

// DefaultMessages returns the built-in message texts
func DefaultMessages() Messages {
	return Messages{
		Welcome:          "Find the keys and reach the exit!",
		KeyCollected:     "Key collected! (%d held)",
		LifeCollected:    "Extra life! Hearts: %d",
		PowerUpCollected: "Power-up: %s",
		ShieldAbsorbed:   "Your shield absorbed the hit",
		Hit:              "Ouch! Hearts: %d",
		ExitLocked:       "The exit is locked: %d more key(s) needed",
		Victory:          "Maze cleared!",
		GameOver:         "You're dead!",
	}
}

func (m Messages) merge(o Messages) Messages {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return Messages{
		Welcome:          pick(m.Welcome, o.Welcome),
		KeyCollected:     pick(m.KeyCollected, o.KeyCollected),
		LifeCollected:    pick(m.LifeCollected, o.LifeCollected),
		PowerUpCollected: pick(m.PowerUpCollected, o.PowerUpCollected),
		ShieldAbsorbed:   pick(m.ShieldAbsorbed, o.ShieldAbsorbed),
		Hit:              pick(m.Hit, o.Hit),
		ExitLocked:       pick(m.ExitLocked, o.ExitLocked),
		Victory:          pick(m.Victory, o.Victory),
		GameOver:         pick(m.GameOver, o.GameOver),
	}
}

// LevelConfig represents a level loaded from JSON
type LevelConfig struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Maze         string          `json:"maze"`
	Collision    CollisionPolicy `json:"collision,omitempty"`
	PowerUps     []PowerUpKind   `json:"power_ups,omitempty"`
	RequiredKeys int             `json:"required_keys,omitempty"`
	Tuning       Tuning          `json:"tuning,omitempty"`
	Messages     Messages        `json:"messages,omitempty"`
}

// PowerUpKindAt returns the kind assigned to the i-th power-up tile in
// row-major order. The configured list is cycled; the default is speed.
func (c *LevelConfig) PowerUpKindAt(i int) PowerUpKind {
	if c == nil || len(c.PowerUps) == 0 {
		return PowerUpSpeed
	}
	return c.PowerUps[i%len(c.PowerUps)]
}

// EffectiveTuning returns the default tuning overridden by the level's values
func (c *LevelConfig) EffectiveTuning() Tuning {
	if c == nil {
		return DefaultTuning()
	}
	return DefaultTuning().Merge(c.Tuning)
}

// EffectiveMessages returns the default messages overridden by the level's texts
func (c *LevelConfig) EffectiveMessages() Messages {
	if c == nil {
		return DefaultMessages()
	}
	return DefaultMessages().merge(c.Messages)
}

// ValidateLevelConfig checks the fields of a level that do not depend on its maze
func ValidateLevelConfig(cfg *LevelConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidLevel)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLevel)
	}
	if strings.TrimSpace(cfg.Maze) == "" {
		return fmt.Errorf("%w: maze file is required", ErrInvalidLevel)
	}
	if !cfg.Collision.Valid() {
		return fmt.Errorf("%w: unknown collision policy %q", ErrInvalidLevel, string(cfg.Collision))
	}
	for i, k := range cfg.PowerUps {
		if !k.Valid() {
			return fmt.Errorf("%w: power_ups[%d]: unknown kind %q", ErrInvalidLevel, i, string(k))
		}
	}
	if cfg.RequiredKeys < 0 {
		return fmt.Errorf("%w: required_keys must not be negative", ErrInvalidLevel)
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return nil
}

// ValidateLevel checks a level together with its maze for playability
func ValidateLevel(cfg *LevelConfig, tiles *maze.TileMap) error {
	if err := ValidateLevelConfig(cfg); err != nil {
		return err
	}
	if tiles == nil || tiles.Empty() {
		return ErrEmptyMaze
	}
	entries := tiles.Count(maze.Entry)
	if entries == 0 {
		return ErrNoEntry
	}
	if entries > 1 {
		return fmt.Errorf("%w: maze has %d entry tiles, want exactly one", ErrInvalidLevel, entries)
	}
	keys := tiles.Count(maze.Key)
	if keys > 0 && tiles.Count(maze.Exit) == 0 {
		return fmt.Errorf("%w: maze has keys but no exit", ErrInvalidLevel)
	}
	if cfg.RequiredKeys > keys {
		return fmt.Errorf("%w: required_keys is %d but the maze only has %d keys", ErrInvalidLevel, cfg.RequiredKeys, keys)
	}
	return nil
}

// LoadLevelConfig loads and validates a level configuration from a JSON file.
// The maze file it names is not loaded.
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var cfg LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level file '%s': %w", filename, err)
	}
	if err := ValidateLevelConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid level '%s': %w", filename, err)
	}
	return &cfg, nil
}

// DefaultMaze is the built-in maze used when no level directory is available
const DefaultMaze = `# built-in fallback maze
0,0=0
1,0=0
2,0=0
3,0=0
4,0=0
5,0=0
6,0=0
0,1=0
1,1=1
4,1=4
6,1=0
0,2=0
2,2=0
3,2=0
4,2=0
6,2=0
0,3=0
1,3=5
3,3=6
5,3=2
6,3=0
0,4=0
1,4=0
2,4=0
3,4=0
4,4=0
5,4=0
6,4=0
`

// DefaultLevelConfig returns the configuration of the built-in level
func DefaultLevelConfig() *LevelConfig {
	return &LevelConfig{
		Name:        "Built-in",
		Description: "A tiny maze used when no levels are installed",
		Maze:        "builtin.properties",
		Collision:   CollisionDistance,
		Messages:    DefaultMessages(),
	}
}
