package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/fop-maze/mazerunner/game/config"
	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/service"
	"github.com/fop-maze/mazerunner/game/session"
)

type recordingSounds struct {
	events []engine.EventType
	paused []bool
}

func (r *recordingSounds) PlayEvent(t engine.EventType) { r.events = append(r.events, t) }
func (r *recordingSounds) PauseMusic(p bool)            { r.paused = append(r.paused, p) }

func newTestApp(t *testing.T) (*App, *recordingSounds, *time.Time) {
	t.Helper()
	levels, err := config.NewManager("")
	if err != nil {
		t.Fatal(err)
	}
	svc := service.NewGameService(session.NewManager(), levels)

	sounds := &recordingSounds{}
	a, err := NewApp(svc, Options{SessionID: "tui-test", Theme: DefaultTheme(), Sounds: sounds})
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	clock := time.Unix(1000, 0)
	a.now = func() time.Time { return clock }
	return a, sounds, &clock
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestNewApp_StartsOnMenu(t *testing.T) {
	a, sounds, _ := newTestApp(t)

	if a.SessionID() != "tui-test" {
		t.Errorf("Expected session tui-test, got %s", a.SessionID())
	}
	if a.Page() != PageMenu {
		t.Errorf("Expected menu, got %s", a.Page())
	}
	if a.playing.Load() {
		t.Error("Expected not playing on the menu")
	}
	if len(sounds.paused) == 0 || !sounds.paused[len(sounds.paused)-1] {
		t.Error("Expected music paused on the menu")
	}
	if a.view.tiles() == nil || a.view.Snapshot() == nil {
		t.Error("Expected level tiles and snapshot loaded")
	}
}

func TestApp_PlayAndPause(t *testing.T) {
	a, sounds, clock := newTestApp(t)

	a.enter(true)
	if a.Page() != PageGame || !a.playing.Load() {
		t.Fatalf("Expected to be playing, on %s", a.Page())
	}
	if sounds.paused[len(sounds.paused)-1] {
		t.Error("Expected music to resume in game")
	}

	start := a.view.Snapshot().Player.Position
	if ev := a.handleGameKey(key(tcell.KeyRight, 0)); ev != nil {
		t.Error("Expected movement key to be consumed")
	}
	if !a.holds.Input(*clock).Right {
		t.Fatal("Expected right to be held")
	}

	for i := 1; i <= 5; i++ {
		a.frame(clock.Add(time.Duration(i) * 20 * time.Millisecond))
	}
	snap := a.view.Snapshot()
	if snap.Frame != 5 {
		t.Errorf("Expected 5 frames, got %d", snap.Frame)
	}
	if snap.Player.Position.X <= start.X {
		t.Errorf("Expected player to move right from %v, got %v", start, snap.Player.Position)
	}

	a.handleGameKey(key(tcell.KeyEscape, 0))
	if a.Page() != PageMenu || a.playing.Load() {
		t.Error("Expected escape to pause on the menu")
	}
	if a.holds.Input(*clock).Right {
		t.Error("Expected holds released on pause")
	}

	// frames are ignored off the game page
	a.frame(clock.Add(time.Second))
	if a.view.Snapshot().Frame != 5 {
		t.Error("Expected no frame while paused")
	}
}

func TestApp_ContinueKeepsProgress(t *testing.T) {
	a, _, clock := newTestApp(t)
	a.enter(true)
	a.frame(clock.Add(20 * time.Millisecond))
	a.show(PageMenu)

	a.enter(false)
	if a.view.Snapshot().Frame != 0 {
		t.Errorf("Expected rebuilt world, got frame %d", a.view.Snapshot().Frame)
	}
	if a.view.Snapshot().Hearts <= 0 {
		t.Error("Expected hearts after continue")
	}
}

func TestApp_SpaceReleasesHolds(t *testing.T) {
	a, _, clock := newTestApp(t)
	a.enter(false)
	a.handleGameKey(key(tcell.KeyRune, 'W'))
	if in := a.holds.Input(*clock); !in.Up || !in.Run {
		t.Fatalf("Expected running up, got %+v", in)
	}
	a.handleGameKey(key(tcell.KeyRune, ' '))
	if in := a.holds.Input(*clock); in.Up || in.Run {
		t.Errorf("Expected holds released, got %+v", in)
	}
	if a.Page() != PageGame {
		t.Error("Expected to stay in game")
	}
}

func TestApp_UnhandledKeyPassesThrough(t *testing.T) {
	a, _, _ := newTestApp(t)
	ev := key(tcell.KeyRune, 'x')
	if got := a.handleGameKey(ev); got != ev {
		t.Error("Expected unhandled key to be returned")
	}
}

func TestApp_SelectLevel(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.refreshLevels()
	if a.picks.GetItemCount() == 0 {
		t.Fatal("Expected levels in the picker")
	}

	a.selectLevel(config.BuiltinLevelID)
	if a.Page() != PageGame {
		t.Errorf("Expected game page, got %s", a.Page())
	}
	if a.levelID != config.BuiltinLevelID {
		t.Errorf("Expected builtin level, got %s", a.levelID)
	}

	// unknown level leaves the page unchanged
	a.show(PageLevels)
	a.selectLevel("nope")
	if a.Page() != PageLevels {
		t.Errorf("Expected to stay on the picker, got %s", a.Page())
	}
}

func TestApp_VictoryReturnsToMenu(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.show(PageVictory)
	if a.playing.Load() {
		t.Error("Expected not playing on the victory page")
	}

	capture := a.victory.GetInputCapture()
	if ev := capture(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); ev == nil {
		t.Error("Expected other keys to pass through the victory page")
	}
	if a.Page() != PageVictory {
		t.Errorf("Expected to stay on victory, got %s", a.Page())
	}

	if ev := capture(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)); ev != nil {
		t.Error("Expected Enter to be consumed")
	}
	if a.Page() != PageMenu {
		t.Errorf("Expected menu after victory, got %s", a.Page())
	}
}

func TestApp_RestartAfterGameOver(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.show(PageGameOver)
	if a.playing.Load() {
		t.Error("Expected not playing after game over")
	}

	a.restart()
	if a.Page() != PageMenu {
		t.Errorf("Expected menu after restart, got %s", a.Page())
	}
	if a.view.Snapshot().GameOver {
		t.Error("Expected a live player after restart")
	}
}
