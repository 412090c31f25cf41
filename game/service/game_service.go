package service

import (
	"context"
	"time"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelID string) (*SessionInfo, error)
	OpenSession(ctx context.Context, sessionID, levelID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SaveSession(ctx context.Context, sessionID string) error

	// Game Operations
	Step(ctx context.Context, sessionID string, req StepRequest) (*StepResult, error)
	Reset(ctx context.Context, sessionID string, newGame bool) (*engine.Snapshot, error)
	ChangeLevel(ctx context.Context, sessionID, levelID string) (*SessionInfo, error)

	// Game State
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	RenderText(ctx context.Context, sessionID string) ([]string, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelID string) (*Level, error)
	SaveLevel(ctx context.Context, levelID string, level *Level) error

	// Maintenance
	SyncSessions(ctx context.Context) error
	CleanupSessions(ctx context.Context, maxAge time.Duration) int
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level *Level) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, level *Level) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
	SaveAllSessions() error
	CleanupExpiredSessions(maxAge time.Duration) int
}

// LevelManager handles level loading
type LevelManager interface {
	LoadLevel(id string) (*Level, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *Level
	SaveLevel(id string, level *Level) error
}

// Level is a level configuration together with its maze
type Level struct {
	ID     string             `json:"id"`
	Config *engine.LevelConfig `json:"config"`
	Tiles  *maze.TileMap      `json:"-"`
}

// NewWorld builds a world for the level. hearts <= 0 uses the level's
// starting hearts.
func (l *Level) NewWorld(flags *engine.GameState, hearts int) (*engine.World, error) {
	return engine.NewWorld(l.Config, l.Tiles, flags,
		engine.WithHearts(hearts),
		engine.WithSeed(time.Now().UnixNano()))
}

// Session represents an active game session. Flags and Hearts outlive the
// World, which is rebuilt on reset.
type Session struct {
	ID             string
	Level          *Level
	World          *engine.World
	Flags          *engine.GameState
	Hearts         int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// NewSession builds a session with a fresh world for the level. A nil flags
// value starts a new game.
func NewSession(id string, level *Level, flags *engine.GameState, hearts int) (*Session, error) {
	if level == nil {
		return nil, ErrNoLevel
	}
	if flags == nil {
		flags = engine.NewGameStateFor(level.Tiles)
	}
	world, err := level.NewWorld(flags, hearts)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:             id,
		Level:          level,
		World:          world,
		Flags:          flags,
		Hearts:         world.Player().Health,
		CreatedAt:      now,
		LastAccessedAt: now,
	}, nil
}

// Rebuild replaces the world, keeping the flags and hearts unless newGame
// is set. A dead player comes back with the level's restart hearts.
func (s *Session) Rebuild(newGame bool) error {
	flags := s.Flags
	hearts := s.Hearts
	tuning := s.Level.Config.EffectiveTuning()
	if newGame {
		flags = engine.NewGameStateFor(s.Level.Tiles)
		hearts = tuning.StartingHearts
	} else if hearts <= 0 || (s.World != nil && s.World.GameOver()) {
		hearts = tuning.RestartHearts
	}
	world, err := s.Level.NewWorld(flags, hearts)
	if err != nil {
		return err
	}
	s.World = world
	s.Flags = flags
	s.Hearts = world.Player().Health
	return nil
}
