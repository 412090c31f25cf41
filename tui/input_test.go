package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestHoldTracker_FirstPressOutlastsRepeatDelay(t *testing.T) {
	h := NewHoldTracker(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	h.Press(DirRight, false, t0)
	if !h.Input(t0.Add(250 * time.Millisecond)).Right {
		t.Error("Expected first press to be held through the repeat delay")
	}
	if h.Input(t0.Add(300 * time.Millisecond)).Right {
		t.Error("Expected first press to expire")
	}
}

func TestHoldTracker_RepeatedPressUsesWindow(t *testing.T) {
	h := NewHoldTracker(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	h.Press(DirUp, false, t0)
	h.Press(DirUp, false, t0.Add(50*time.Millisecond))

	if !h.Input(t0.Add(140 * time.Millisecond)).Up {
		t.Error("Expected repeat to keep the key held")
	}
	if h.Input(t0.Add(151 * time.Millisecond)).Up {
		t.Error("Expected repeat window to expire after one window")
	}
}

func TestHoldTracker_OppositeReleased(t *testing.T) {
	h := NewHoldTracker(0)
	t0 := time.Unix(0, 0)

	h.Press(DirLeft, false, t0)
	h.Press(DirUp, false, t0)
	h.Press(DirRight, false, t0.Add(10*time.Millisecond))

	in := h.Input(t0.Add(20 * time.Millisecond))
	if in.Left {
		t.Error("Expected left to be released by right")
	}
	if !in.Right || !in.Up {
		t.Errorf("Expected right and up held, got %+v", in)
	}
}

func TestHoldTracker_Run(t *testing.T) {
	h := NewHoldTracker(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	h.Press(DirDown, true, t0)
	if in := h.Input(t0); !in.Run || !in.Down {
		t.Errorf("Expected running down, got %+v", in)
	}

	h.Press(DirDown, false, t0.Add(10*time.Millisecond))
	if h.Input(t0.Add(20 * time.Millisecond)).Run {
		t.Error("Expected plain press to stop running")
	}
}

func TestHoldTracker_Release(t *testing.T) {
	h := NewHoldTracker(0)
	t0 := time.Unix(0, 0)
	h.Press(DirLeft, true, t0)
	h.Release()

	in := h.Input(t0)
	if in.Left || in.Run {
		t.Errorf("Expected nothing held, got %+v", in)
	}
}

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		dir  Direction
		run  bool
	}{
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), DirLeft, false},
		{"shift arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), DirUp, true},
		{"d", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), DirRight, false},
		{"S", tcell.NewEventKey(tcell.KeyRune, 'S', tcell.ModNone), DirDown, true},
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), DirUp, false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), DirNone, false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), DirNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, run := KeyDirection(tt.ev)
			if dir != tt.dir || run != tt.run {
				t.Errorf("Expected (%v, %v), got (%v, %v)", tt.dir, tt.run, dir, run)
			}
		})
	}
}
