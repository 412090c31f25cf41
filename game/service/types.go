package service

import (
	"errors"
	"time"

	"github.com/fop-maze/mazerunner/game/engine"
)

var (
	ErrNoLevel       = errors.New("no level")
	ErrInvalidStep   = errors.New("invalid step request")
	ErrLevelNotFound = errors.New("level not found")
)

const (
	// MaxStepFrames caps the frames advanced by a single step request
	MaxStepFrames = 600
	// DefaultStepDT is used when a step request has no dt
	DefaultStepDT = 1.0 / 60
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	LevelID        string           `json:"level_id"`
	LevelName      string           `json:"level_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Snapshot       *engine.Snapshot `json:"snapshot"`
	Maze           []string         `json:"maze,omitempty"`
}

// StepRequest advances a session by Frames updates of DT seconds each
type StepRequest struct {
	Input  engine.Input `json:"input"`
	DT     float64      `json:"dt"`
	Frames int          `json:"frames"`
}

// StepResult contains the result of a step operation
type StepResult struct {
	FramesRun     int              `json:"frames_run"`
	Requested     int              `json:"requested_frames"`
	Truncated     bool             `json:"truncated,omitempty"`
	StoppedReason string           `json:"stopped_reason,omitempty"` // game_over|victory
	Events        []GameEvent      `json:"events"`
	Snapshot      *engine.Snapshot `json:"snapshot"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string      `json:"type"` // key, life, power_up, hit, shield, exit_locked, victory, game_over, reset
	Message   string      `json:"message"`
	Frame     uint64      `json:"frame"`
	Timestamp time.Time   `json:"timestamp"`
	Position  engine.Vec2 `json:"position"`
}

// LevelInfo provides information about a level
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Keys        int    `json:"keys"`
	Slimes      int    `json:"slimes"`
}
