package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fop-maze/mazerunner/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	mu       sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// resolveLevel loads a level by id, or the default level for an empty id
func (s *gameServiceImpl) resolveLevel(levelID string) (*Level, error) {
	if levelID == "" {
		level := s.levels.GetDefault()
		if level == nil {
			return nil, ErrNoLevel
		}
		return level, nil
	}
	level, err := s.levels.LoadLevel(levelID)
	if err != nil {
		if errors.Is(err, ErrLevelNotFound) {
			if infos, listErr := s.levels.ListLevels(); listErr == nil && len(infos) > 0 {
				ids := make([]string, 0, len(infos))
				for _, info := range infos {
					ids = append(ids, info.LevelID)
				}
				return nil, fmt.Errorf("level '%s' not found, available levels: %v: %w", levelID, ids, err)
			}
		}
		return nil, fmt.Errorf("failed to load level %s: %w", levelID, err)
	}
	return level, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.Level.ID,
		LevelName:      sess.Level.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Snapshot:       sess.World.Snapshot(),
		Maze:           engine.RenderTiles(sess.Level.Tiles),
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, err := s.resolveLevel(levelID)
	if err != nil {
		return nil, err
	}

	// Let session manager generate the ID
	sess, err := s.sessions.Create("", level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sessionInfo(sess), nil
}

// OpenSession returns the session with the given id, creating it on the
// level when it does not exist yet
func (s *gameServiceImpl) OpenSession(ctx context.Context, sessionID, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, err := s.resolveLevel(levelID)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetOrCreate(sessionID, level)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	s.sessions.UpdateLastAccessed(sess.ID)
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		info := sessionInfo(sess)
		info.Maze = nil
		result = append(result, info)
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// SaveSession persists a session
func (s *gameServiceImpl) SaveSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Save(sessionID)
}

// Step advances the world of a session
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string, req StepRequest) (*StepResult, error) {
	if req.DT < 0 {
		return nil, fmt.Errorf("%w: dt must not be negative", ErrInvalidStep)
	}
	if req.Frames < 0 {
		return nil, fmt.Errorf("%w: frames must not be negative", ErrInvalidStep)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	dt := req.DT
	if dt == 0 {
		dt = DefaultStepDT
	}
	frames := req.Frames
	if frames == 0 {
		frames = 1
	}
	result := &StepResult{
		Requested: frames,
		Events:    []GameEvent{},
	}
	if frames > MaxStepFrames {
		frames = MaxStepFrames
		result.Truncated = true
	}

	world := sess.World
	for i := 0; i < frames; i++ {
		if world.GameOver() {
			result.StoppedReason = "game_over"
			break
		}
		if world.Victory() {
			result.StoppedReason = "victory"
			break
		}
		now := time.Now()
		for _, ev := range world.Update(dt, req.Input) {
			result.Events = append(result.Events, GameEvent{
				Type:      string(ev.Type),
				Message:   ev.Message,
				Frame:     world.Frame(),
				Timestamp: now,
				Position:  ev.Position,
			})
		}
		result.FramesRun++
	}
	if result.StoppedReason == "" {
		if world.GameOver() {
			result.StoppedReason = "game_over"
		} else if world.Victory() {
			result.StoppedReason = "victory"
		}
	}

	sess.Hearts = world.Player().Health
	result.Snapshot = world.Snapshot()

	// Flags and hearts only change with events
	if len(result.Events) > 0 {
		if err := s.sessions.Save(sessionID); err != nil {
			log.Printf("Warning: Failed to persist session %s after step: %v", sessionID, err)
		}
	}
	return result, nil
}

// Reset rebuilds the world of a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string, newGame bool) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Rebuild(newGame); err != nil {
		return nil, fmt.Errorf("failed to rebuild world: %w", err)
	}
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}
	return sess.World.Snapshot(), nil
}

// ChangeLevel moves a session to another level with fresh flags
func (s *gameServiceImpl) ChangeLevel(ctx context.Context, sessionID, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	level, err := s.resolveLevel(levelID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Level = level
	if err := sess.Rebuild(true); err != nil {
		return nil, fmt.Errorf("failed to rebuild world: %w", err)
	}
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after level change: %v", sessionID, err)
	}
	return sessionInfo(sess), nil
}

// GetSnapshot returns the current snapshot of a session
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.World.Snapshot(), nil
}

// RenderText draws the current world of a session as text
func (s *gameServiceImpl) RenderText(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return sess.World.RenderText(), nil
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*Level, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel saves a level
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelID string, level *Level) error {
	if level == nil {
		return ErrNoLevel
	}
	return s.levels.SaveLevel(levelID, level)
}

// SyncSessions writes every in-memory session to persistence
func (s *gameServiceImpl) SyncSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.SaveAllSessions()
}

// CleanupSessions persists and then drops sessions idle for longer than
// maxAge
func (s *gameServiceImpl) CleanupSessions(ctx context.Context, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: session sync before cleanup: %v", err)
	}
	return s.sessions.CleanupExpiredSessions(maxAge)
}
