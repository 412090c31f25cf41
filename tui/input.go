package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/fop-maze/mazerunner/game/engine"
)

// Direction is one of the four movement keys
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

// firstHoldFactor stretches the window of a freshly pressed key so the
// terminal's initial auto-repeat delay does not read as a release
const firstHoldFactor = 3

// HoldTracker turns terminal key presses into held directions. Terminals
// report no key releases, only auto-repeated presses, so a direction counts
// as held until its window passes without another press.
type HoldTracker struct {
	window  time.Duration
	until   [5]time.Time
	runTill time.Time
}

// NewHoldTracker creates a tracker with the given hold window
func NewHoldTracker(window time.Duration) *HoldTracker {
	if window <= 0 {
		window = 150 * time.Millisecond
	}
	return &HoldTracker{window: window}
}

func opposite(d Direction) Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	}
	return DirNone
}

// Press records a key press at now. Pressing a direction releases its
// opposite.
func (h *HoldTracker) Press(d Direction, run bool, now time.Time) {
	if d == DirNone {
		return
	}
	window := h.window
	if !h.held(d, now) {
		window *= firstHoldFactor
	}
	h.until[d] = now.Add(window)
	h.until[opposite(d)] = time.Time{}
	if run {
		h.runTill = h.until[d]
	} else {
		h.runTill = time.Time{}
	}
}

// Release drops every held direction
func (h *HoldTracker) Release() {
	h.until = [5]time.Time{}
	h.runTill = time.Time{}
}

func (h *HoldTracker) held(d Direction, now time.Time) bool {
	return now.Before(h.until[d])
}

// Input returns the directions held at now
func (h *HoldTracker) Input(now time.Time) engine.Input {
	return engine.Input{
		Left:  h.held(DirLeft, now),
		Right: h.held(DirRight, now),
		Up:    h.held(DirUp, now),
		Down:  h.held(DirDown, now),
		Run:   now.Before(h.runTill),
	}
}

// KeyDirection maps a key event to a direction. Arrow keys and WASD move;
// shift or an uppercase letter means run.
func KeyDirection(ev *tcell.EventKey) (Direction, bool) {
	run := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyLeft:
		return DirLeft, run
	case tcell.KeyRight:
		return DirRight, run
	case tcell.KeyUp:
		return DirUp, run
	case tcell.KeyDown:
		return DirDown, run
	case tcell.KeyRune:
		r := ev.Rune()
		switch r {
		case 'a', 'A':
			return DirLeft, r == 'A'
		case 'd', 'D':
			return DirRight, r == 'D'
		case 'w', 'W':
			return DirUp, r == 'W'
		case 's', 'S':
			return DirDown, r == 'S'
		}
	}
	return DirNone, false
}
