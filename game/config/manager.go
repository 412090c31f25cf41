package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
	"github.com/fop-maze/mazerunner/game/service"
)

var (
	ErrLevelNotFound = service.ErrLevelNotFound
	ErrInvalidLevel  = engine.ErrInvalidLevel
)

const (
	// DefaultLevelID is tried first as the default level
	DefaultLevelID = "level-1"
	// BuiltinLevelID names the level compiled into the binary
	BuiltinLevelID = "builtin"
)

// Manager handles level loading and caching. A level is a JSON file in the
// levels directory naming a maze property file next to it.
type Manager struct {
	levelsDir    string
	defaultLevel *service.Level
	levels       map[string]*service.Level
	baseTuning   engine.Tuning
	mu           sync.RWMutex
}

// Option configures a Manager
type Option func(*Manager)

// WithBaseTuning applies tuning values under every level's own overrides
func WithBaseTuning(t engine.Tuning) Option {
	return func(m *Manager) { m.baseTuning = t }
}

// NewManager creates a new level manager. An empty directory name gives a
// manager that only knows the built-in level.
func NewManager(levelsDir string, opts ...Option) (*Manager, error) {
	if levelsDir != "" {
		if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
		}
	}

	m := &Manager{
		levelsDir: levelsDir,
		levels:    make(map[string]*service.Level),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}
	return m, nil
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

// LoadLevel loads a level by id
func (m *Manager) LoadLevel(id string) (*service.Level, error) {
	id = strings.TrimSuffix(id, ".json")
	if id == BuiltinLevelID {
		return m.builtinLevel()
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: bad level id %q", ErrInvalidLevel, id)
	}

	m.mu.RLock()
	// Check cache first
	if level, exists := m.levels[id]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	if m.levelsDir == "" {
		return nil, ErrLevelNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[id]; exists {
		return level, nil
	}

	cfg, err := engine.LoadLevelConfig(filepath.Join(m.levelsDir, id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}

	mazePath := cfg.Maze
	if !filepath.IsAbs(mazePath) {
		mazePath = filepath.Join(m.levelsDir, mazePath)
	}
	tiles, err := maze.Load(mazePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	level, err := m.newLevel(id, cfg, tiles)
	if err != nil {
		return nil, err
	}

	// Cache the level
	m.levels[id] = level
	return level, nil
}

func (m *Manager) newLevel(id string, cfg *engine.LevelConfig, tiles *maze.TileMap) (*service.Level, error) {
	cfg.Tuning = m.baseTuning.Merge(cfg.Tuning)
	if err := engine.ValidateLevel(cfg, tiles); err != nil {
		return nil, fmt.Errorf("level %s: %w", id, err)
	}
	if err := cfg.EffectiveTuning().Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w: %v", id, ErrInvalidLevel, err)
	}
	return &service.Level{ID: id, Config: cfg, Tiles: tiles}, nil
}

func (m *Manager) builtinLevel() (*service.Level, error) {
	tiles, err := maze.ParseString(engine.DefaultMaze)
	if err != nil {
		return nil, err
	}
	return m.newLevel(BuiltinLevelID, engine.DefaultLevelConfig(), tiles)
}

// ListLevels returns information about all available levels
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	if m.levelsDir == "" {
		return []*service.LevelInfo{levelInfo(m.GetDefault(), "")}, nil
	}

	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var levels []*service.LevelInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		level, err := m.LoadLevel(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip invalid levels
			log.Printf("Skipping level %s: %v", entry.Name(), err)
			continue
		}
		levels = append(levels, levelInfo(level, entry.Name()))
	}
	return levels, nil
}

func levelInfo(level *service.Level, filename string) *service.LevelInfo {
	return &service.LevelInfo{
		Filename:    filename,
		LevelID:     level.ID,
		Name:        level.Config.Name,
		Description: level.Config.Description,
		Width:       level.Tiles.Width(),
		Height:      level.Tiles.Height(),
		Keys:        level.Tiles.Count(maze.Key),
		Slimes:      level.Tiles.Count(maze.Enemy),
	}
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *service.Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by id
func (m *Manager) SetDefault(id string) error {
	level, err := m.LoadLevel(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache drops all cached levels and reloads the default level
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*service.Level)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

// loadDefaultLevel picks level-1, else the first valid level, else the
// built-in maze
func (m *Manager) loadDefaultLevel() error {
	level, err := m.LoadLevel(DefaultLevelID)
	if err != nil && m.levelsDir != "" {
		if infos, listErr := m.ListLevels(); listErr == nil && len(infos) > 0 {
			level, err = m.LoadLevel(infos[0].LevelID)
		}
	}
	if err != nil {
		level, err = m.builtinLevel()
		if err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.defaultLevel = level
	m.mu.Unlock()
	return nil
}

// SaveLevel writes a level's JSON file and its maze file to the levels
// directory
func (m *Manager) SaveLevel(id string, level *service.Level) error {
	id = strings.TrimSuffix(id, ".json")
	if !validID(id) || id == BuiltinLevelID {
		return fmt.Errorf("%w: bad level id %q", ErrInvalidLevel, id)
	}
	if m.levelsDir == "" {
		return fmt.Errorf("no levels directory configured")
	}
	if level == nil || level.Config == nil {
		return fmt.Errorf("%w: level has no configuration", ErrInvalidLevel)
	}

	cfg := *level.Config
	if cfg.Maze == "" || strings.ContainsAny(cfg.Maze, `/\`) {
		cfg.Maze = id + ".properties"
	}
	if err := engine.ValidateLevel(&cfg, level.Tiles); err != nil {
		return err
	}

	var mazeData bytes.Buffer
	if err := level.Tiles.Encode(&mazeData); err != nil {
		return fmt.Errorf("failed to encode maze: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.levelsDir, cfg.Maze), mazeData.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write maze file: %w", err)
	}

	// Marshal level to JSON with indentation
	data, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.levelsDir, id+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	// Update cache
	saved := &service.Level{ID: id, Config: &cfg, Tiles: level.Tiles}
	m.mu.Lock()
	m.levels[id] = saved
	m.mu.Unlock()

	return nil
}
