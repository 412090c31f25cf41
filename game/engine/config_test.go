package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fop-maze/mazerunner/game/maze"
)

func TestValidateLevel(t *testing.T) {
	valid := func() *LevelConfig {
		return &LevelConfig{Name: "Test", Maze: "test.properties"}
	}

	tests := []struct {
		name    string
		modify  func(*LevelConfig)
		rows    []string
		wantErr error
	}{
		{
			name: "valid",
			rows: []string{"#####", "#PKE#", "#####"},
		},
		{
			name:    "missing name",
			modify:  func(c *LevelConfig) { c.Name = " " },
			rows:    []string{"#P#"},
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "missing maze",
			modify:  func(c *LevelConfig) { c.Maze = "" },
			rows:    []string{"#P#"},
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "unknown power-up",
			modify:  func(c *LevelConfig) { c.PowerUps = []PowerUpKind{"teleport"} },
			rows:    []string{"#P#"},
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "negative tuning",
			modify:  func(c *LevelConfig) { c.Tuning.PlayerSpeed = -1 },
			rows:    []string{"#P#"},
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "empty maze",
			rows:    nil,
			wantErr: ErrEmptyMaze,
		},
		{
			name:    "no entry",
			rows:    []string{"#K#"},
			wantErr: ErrNoEntry,
		},
		{
			name:    "two entries",
			rows:    []string{"P.P"},
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "keys without exit",
			rows:    []string{"PK"},
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "too many required keys",
			modify:  func(c *LevelConfig) { c.RequiredKeys = 2 },
			rows:    []string{"PKE"},
			wantErr: ErrInvalidLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			if tt.modify != nil {
				tt.modify(cfg)
			}
			err := ValidateLevel(cfg, buildTiles(tt.rows...))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadLevelConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.json")
	content := `{
		"name": "Level 1",
		"description": "first",
		"maze": "level-1.properties",
		"collision": "aabb",
		"power_ups": ["shield", "speed"],
		"tuning": {"player_speed": 120},
		"messages": {"victory": "Done!"}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}

	cfg, err := LoadLevelConfig(path)
	if err != nil {
		t.Fatalf("LoadLevelConfig failed: %v", err)
	}
	if cfg.Collision != CollisionAABB {
		t.Errorf("Expected aabb collision, got %q", cfg.Collision)
	}
	if cfg.PowerUpKindAt(0) != PowerUpShield || cfg.PowerUpKindAt(1) != PowerUpSpeed || cfg.PowerUpKindAt(2) != PowerUpShield {
		t.Error("Expected power-up kinds to cycle through the configured list")
	}

	tuning := cfg.EffectiveTuning()
	if tuning.PlayerSpeed != 120 {
		t.Errorf("Expected player speed override 120, got %f", tuning.PlayerSpeed)
	}
	if tuning.SlimeSpeed != DefaultTuning().SlimeSpeed {
		t.Errorf("Expected default slime speed, got %f", tuning.SlimeSpeed)
	}

	msgs := cfg.EffectiveMessages()
	if msgs.Victory != "Done!" {
		t.Errorf("Expected victory override, got %q", msgs.Victory)
	}
	if msgs.GameOver != DefaultMessages().GameOver {
		t.Errorf("Expected default game over message, got %q", msgs.GameOver)
	}
}

func TestLoadLevelConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"name": "x", "maze": "m", "collision": "psychic"}`), 0644); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	if _, err := LoadLevelConfig(path); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	if _, err := LoadLevelConfig(path); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestLoadLevelConfig_PowerUpDuration(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		tuning   string
		expected float64
	}{
		{"unset keeps default", `{}`, DefaultPowerUpDuration},
		{"explicit zero is permanent", `{"power_up_duration": 0}`, 0},
		{"override", `{"power_up_duration": 3}`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "level.json")
			content := `{"name": "x", "maze": "m", "tuning": ` + tt.tuning + `}`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("Failed to write level: %v", err)
			}
			cfg, err := LoadLevelConfig(path)
			if err != nil {
				t.Fatalf("LoadLevelConfig failed: %v", err)
			}
			if got := cfg.EffectiveTuning().PowerUpSeconds(); got != tt.expected {
				t.Errorf("Expected power-up duration %g, got %g", tt.expected, got)
			}
		})
	}
}

func TestPowerUpKindAt_Default(t *testing.T) {
	var cfg *LevelConfig
	if cfg.PowerUpKindAt(3) != PowerUpSpeed {
		t.Error("Expected speed as the default power-up kind")
	}
}

func TestTuning_Validate(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Errorf("Expected default tuning to be valid, got %v", err)
	}
	tooBig := DefaultTuning()
	tooBig.PlayerSize = 40
	if err := tooBig.Validate(); err == nil {
		t.Error("Expected an error for a player larger than a tile")
	}
	negative := DefaultTuning()
	negative.PowerUpDuration = Seconds(-1)
	if err := negative.Validate(); err == nil {
		t.Error("Expected an error for a negative power-up duration")
	}
	hearts := DefaultTuning()
	hearts.StartingHearts = 20
	if err := hearts.Validate(); err == nil {
		t.Error("Expected an error when starting hearts exceed max hearts")
	}
}

func TestDefaultLevel(t *testing.T) {
	tiles, err := maze.ParseString(DefaultMaze)
	if err != nil {
		t.Fatalf("Failed to parse built-in maze: %v", err)
	}
	if err := ValidateLevel(DefaultLevelConfig(), tiles); err != nil {
		t.Errorf("Expected built-in level to be valid, got %v", err)
	}
}
