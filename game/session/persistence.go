package session

import (
	"fmt"
	"time"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is what survives a restart: the level, the collected
// flags and the hearts. Positions are not kept; a restored session starts at
// the entry tile.
type PersistedSessionData struct {
	ID             string            `json:"id"`
	LevelID        string            `json:"level_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Flags          *engine.GameState `json:"flags"`
	Hearts         int               `json:"hearts"`
	GameOver       bool              `json:"game_over,omitempty"`
}

func persistedFrom(sess *service.Session) (*PersistedSessionData, error) {
	if sess == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if sess.Level == nil {
		return nil, service.ErrNoLevel
	}
	data := &PersistedSessionData{
		ID:             sess.ID,
		LevelID:        sess.Level.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Flags:          sess.Flags.Clone(),
		Hearts:         sess.Hearts,
	}
	if sess.World != nil {
		data.GameOver = sess.World.GameOver()
	}
	return data, nil
}

// restore rebuilds a live session from persisted data. A session saved
// after game over comes back with the level's restart hearts.
func restore(data *PersistedSessionData, levels service.LevelManager) (*service.Session, error) {
	level, err := levels.LoadLevel(data.LevelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load level '%s': %w", data.LevelID, err)
	}

	hearts := data.Hearts
	if data.GameOver || hearts <= 0 {
		hearts = level.Config.EffectiveTuning().RestartHearts
	}

	sess, err := service.NewSession(data.ID, level, data.Flags, hearts)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild session: %w", err)
	}
	sess.CreatedAt = data.CreatedAt
	sess.LastAccessedAt = data.LastAccessedAt
	return sess, nil
}
