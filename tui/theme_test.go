package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestTheme_WithColors(t *testing.T) {
	theme, err := DefaultTheme().WithColors(map[string]string{
		"player":  "blue",
		"wall":    "#102030",
		"PowerUp": "Purple",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fg, _, _ := theme.Player.Decompose(); fg != tcell.ColorBlue {
		t.Errorf("Expected blue player, got %v", fg)
	}
	if fg, _, _ := theme.Wall.Decompose(); fg != tcell.NewHexColor(0x102030) {
		t.Errorf("Expected hex wall colour, got %v", fg)
	}
	if fg, _, _ := theme.PowerUp.Decompose(); fg != tcell.ColorPurple {
		t.Errorf("Expected purple power-up, got %v", fg)
	}
	if theme.Slime != DefaultTheme().Slime {
		t.Error("Expected untouched styles to keep their defaults")
	}
}

func TestTheme_WithColorsErrors(t *testing.T) {
	tests := []struct {
		name   string
		colors map[string]string
	}{
		{"unknown colour", map[string]string{"player": "not-a-colour"}},
		{"unknown style", map[string]string{"lava": "red"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DefaultTheme().WithColors(tt.colors); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
