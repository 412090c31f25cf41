package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fop-maze/mazerunner/game/engine"
)

// Settings are the player's local preferences, kept in a YAML file
type Settings struct {
	Profile    string            `yaml:"profile"`
	Level      string            `yaml:"level,omitempty"`
	HoldWindow time.Duration     `yaml:"hold_window"`
	FrameRate  int               `yaml:"frame_rate"`
	Audio      AudioSettings     `yaml:"audio"`
	Theme      map[string]string `yaml:"theme,omitempty"`
	Tuning     engine.Tuning     `yaml:"tuning,omitempty"`
}

// AudioSettings switches sound on and off
type AudioSettings struct {
	Enabled bool   `yaml:"enabled"`
	Effects bool   `yaml:"effects"`
	Music   string `yaml:"music,omitempty"` // path to an mp3 file looped during play
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() *Settings {
	return &Settings{
		Profile:    "local",
		HoldWindow: 150 * time.Millisecond,
		FrameRate:  30,
		Audio: AudioSettings{
			Enabled: true,
			Effects: true,
		},
	}
}

// LoadSettings reads settings from path. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings '%s': %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings '%s': %w", path, err)
	}
	return s, nil
}

// Save writes the settings to path, creating its directory
func (s *Settings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges
func (s *Settings) Validate() error {
	if s.Profile == "" {
		return fmt.Errorf("profile is required")
	}
	if s.HoldWindow < 0 {
		return fmt.Errorf("hold_window must not be negative")
	}
	if s.FrameRate < 1 || s.FrameRate > 240 {
		return fmt.Errorf("frame_rate must be between 1 and 240, got %d", s.FrameRate)
	}
	if err := s.Tuning.Validate(); err != nil {
		return err
	}
	return nil
}

// FrameInterval is the wall-clock time between two frames
func (s *Settings) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.FrameRate)
}
