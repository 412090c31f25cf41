package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Theme holds the styles used to draw the maze
type Theme struct {
	Wall     tcell.Style
	Floor    tcell.Style
	Player   tcell.Style
	Hurt     tcell.Style
	Slime    tcell.Style
	Chasing  tcell.Style
	Key      tcell.Style
	Life     tcell.Style
	PowerUp  tcell.Style
	Trap     tcell.Style
	Exit     tcell.Style
	ExitOpen tcell.Style
	HUD      tcell.Style
	Message  tcell.Style
}

// DefaultTheme returns the built-in colours
func DefaultTheme() Theme {
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	return Theme{
		Wall:     base.Foreground(tcell.ColorSlateGray).Background(tcell.ColorDarkSlateGray),
		Floor:    base,
		Player:   base.Foreground(tcell.ColorYellow).Bold(true),
		Hurt:     base.Foreground(tcell.ColorRed).Bold(true),
		Slime:    base.Foreground(tcell.ColorLime),
		Chasing:  base.Foreground(tcell.ColorOrangeRed).Bold(true),
		Key:      base.Foreground(tcell.ColorGold).Bold(true),
		Life:     base.Foreground(tcell.ColorHotPink),
		PowerUp:  base.Foreground(tcell.ColorAqua),
		Trap:     base.Foreground(tcell.ColorDarkOrange),
		Exit:     base.Foreground(tcell.ColorGray),
		ExitOpen: base.Foreground(tcell.ColorGreen).Bold(true),
		HUD:      base.Foreground(tcell.ColorWhite),
		Message:  base.Foreground(tcell.ColorLightGray).Italic(true),
	}
}

// WithColors returns a copy of t with foreground colours replaced. Keys are
// the lowercase style names (wall, player, slime, key, ...); values are tcell
// colour names or #rrggbb.
func (t Theme) WithColors(colors map[string]string) (Theme, error) {
	for name, value := range colors {
		color := tcell.GetColor(strings.ToLower(strings.TrimSpace(value)))
		if color == tcell.ColorDefault && !strings.EqualFold(value, "default") {
			return t, fmt.Errorf("theme %s: unknown colour %q", name, value)
		}
		style := t.style(name)
		if style == nil {
			return t, fmt.Errorf("theme: unknown style %q", name)
		}
		*style = style.Foreground(color)
	}
	return t, nil
}

func (t *Theme) style(name string) *tcell.Style {
	switch strings.ToLower(name) {
	case "wall":
		return &t.Wall
	case "floor":
		return &t.Floor
	case "player":
		return &t.Player
	case "hurt":
		return &t.Hurt
	case "slime":
		return &t.Slime
	case "chasing":
		return &t.Chasing
	case "key":
		return &t.Key
	case "life":
		return &t.Life
	case "power_up", "powerup":
		return &t.PowerUp
	case "trap":
		return &t.Trap
	case "exit":
		return &t.Exit
	case "exit_open":
		return &t.ExitOpen
	case "hud":
		return &t.HUD
	case "message":
		return &t.Message
	}
	return nil
}
