package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
	"github.com/fop-maze/mazerunner/game/service"
)

// Page names
const (
	PageMenu     = "menu"
	PageLevels   = "levels"
	PageGame     = "game"
	PageGameOver = "gameover"
	PageVictory  = "victory"
)

// SoundPlayer receives the events of each frame
type SoundPlayer interface {
	PlayEvent(t engine.EventType)
	PauseMusic(paused bool)
}

type silence struct{}

func (silence) PlayEvent(engine.EventType) {}
func (silence) PauseMusic(bool)            {}

// Options configure the terminal front-end
type Options struct {
	SessionID     string
	LevelID       string
	HoldWindow    time.Duration
	FrameInterval time.Duration
	Theme         Theme
	Sounds        SoundPlayer
}

// App is the terminal game: a main menu, a level picker, the game view and
// the game over and victory screens. Everything except the frame ticker runs
// on the tview event goroutine.
type App struct {
	app   *tview.Application
	pages *tview.Pages
	menu  *tview.List
	picks *tview.List
	view  *GameView

	gameOver *tview.TextView
	victory  *tview.TextView

	svc       service.GameService
	ctx       context.Context
	opts      Options
	sessionID string
	levelID   string

	holds     *HoldTracker
	lastFrame time.Time
	playing   atomic.Bool
	now       func() time.Time
}

// NewApp opens the session named in opts and builds the pages
func NewApp(svc service.GameService, opts Options) (*App, error) {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 30
	}
	if opts.Sounds == nil {
		opts.Sounds = silence{}
	}

	a := &App{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		svc:   svc,
		ctx:   context.Background(),
		opts:  opts,
		holds: NewHoldTracker(opts.HoldWindow),
		now:   time.Now,
	}

	info, err := svc.OpenSession(a.ctx, opts.SessionID, opts.LevelID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	a.sessionID = info.ID

	a.view = NewGameView(NewRenderer(opts.Theme))
	a.view.SetInputCapture(a.handleGameKey)
	if err := a.useLevel(info.LevelID, info.Snapshot); err != nil {
		return nil, err
	}

	a.buildMenu()
	a.buildLevelPicker()

	a.gameOver = messagePage("You're dead!", "Press r to restart")
	a.gameOver.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R') {
			a.restart()
			return nil
		}
		return ev
	})

	a.victory = messagePage("Maze cleared!", "Press Enter to return to the menu")
	a.victory.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEnter || ev.Key() == tcell.KeyEscape {
			a.show(PageMenu)
			return nil
		}
		return ev
	})

	a.pages.
		AddPage(PageMenu, centered(a.menu, 40, 10), true, true).
		AddPage(PageLevels, centered(a.picks, 60, 16), true, false).
		AddPage(PageGame, a.view, true, false).
		AddPage(PageGameOver, a.gameOver, true, false).
		AddPage(PageVictory, a.victory, true, false)

	a.show(PageMenu)
	return a, nil
}

// SessionID is the id of the session being played
func (a *App) SessionID() string { return a.sessionID }

// Page returns the name of the visible page
func (a *App) Page() string {
	name, _ := a.pages.GetFrontPage()
	return name
}

// Run shows the menu and blocks until the player exits or ctx is done
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	go a.tick(ctx)
	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	return a.app.SetRoot(a.pages, true).Run()
}

// SetScreen replaces the terminal, used with a simulation screen
func (a *App) SetScreen(screen tcell.Screen) {
	a.app.SetScreen(screen)
}

func (a *App) tick(ctx context.Context) {
	ticker := time.NewTicker(a.opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if a.playing.Load() {
				a.app.QueueUpdateDraw(func() { a.frame(now) })
			}
		}
	}
}

// frame advances the world by the time since the previous frame
func (a *App) frame(now time.Time) {
	if a.Page() != PageGame {
		return
	}
	dt := now.Sub(a.lastFrame).Seconds()
	a.lastFrame = now
	if dt <= 0 {
		return
	}

	res, err := a.svc.Step(a.ctx, a.sessionID, service.StepRequest{
		Input:  a.holds.Input(now),
		DT:     dt,
		Frames: 1,
	})
	if err != nil {
		log.Printf("Step failed: %v", err)
		return
	}
	a.view.SetSnapshot(res.Snapshot)

	for _, ev := range res.Events {
		a.opts.Sounds.PlayEvent(engine.EventType(ev.Type))
	}

	switch {
	case res.Snapshot.GameOver:
		a.show(PageGameOver)
	case res.Snapshot.Victory:
		a.show(PageVictory)
	}
}

func (a *App) show(page string) {
	a.pages.SwitchToPage(page)
	a.playing.Store(page == PageGame)
	a.opts.Sounds.PauseMusic(page != PageGame)
	if page == PageMenu {
		a.menu.SetTitle(fmt.Sprintf(" %s ", a.levelTitle()))
	}
}

func (a *App) levelTitle() string {
	if a.view.level != nil && a.view.level.Config != nil {
		return a.view.level.Config.Name
	}
	return a.levelID
}

// useLevel loads the tiles of a level for drawing
func (a *App) useLevel(levelID string, snap *engine.Snapshot) error {
	level, err := a.svc.LoadLevel(a.ctx, levelID)
	if err != nil {
		return fmt.Errorf("failed to load level %s: %w", levelID, err)
	}
	a.levelID = levelID
	a.view.SetLevel(level)
	a.view.SetSnapshot(snap)
	return nil
}

// enter rebuilds the world and starts playing. newGame forgets collected
// items.
func (a *App) enter(newGame bool) {
	snap, err := a.svc.Reset(a.ctx, a.sessionID, newGame)
	if err != nil {
		log.Printf("Reset failed: %v", err)
		return
	}
	a.view.SetSnapshot(snap)
	a.holds.Release()
	a.lastFrame = a.now()
	a.show(PageGame)
}

// restart brings a dead player back with full hearts and returns to the menu
func (a *App) restart() {
	snap, err := a.svc.Reset(a.ctx, a.sessionID, false)
	if err != nil {
		log.Printf("Reset failed: %v", err)
		return
	}
	a.view.SetSnapshot(snap)
	a.show(PageMenu)
}

// selectLevel switches the session to a level and starts playing it
func (a *App) selectLevel(levelID string) {
	info, err := a.svc.ChangeLevel(a.ctx, a.sessionID, levelID)
	if err != nil {
		log.Printf("Level change failed: %v", err)
		return
	}
	if err := a.useLevel(info.LevelID, info.Snapshot); err != nil {
		log.Printf("%v", err)
		return
	}
	a.holds.Release()
	a.lastFrame = a.now()
	a.show(PageGame)
}

func (a *App) handleGameKey(ev *tcell.EventKey) *tcell.EventKey {
	switch {
	case ev.Key() == tcell.KeyEscape:
		a.holds.Release()
		a.show(PageMenu)
		return nil
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
		a.holds.Release()
		return nil
	}
	if d, run := KeyDirection(ev); d != DirNone {
		a.holds.Press(d, run, a.now())
		return nil
	}
	return ev
}

func (a *App) buildMenu() {
	a.menu = tview.NewList().
		AddItem("Continue", "Return to the maze", 'c', func() { a.enter(false) }).
		AddItem("Select a Maze", "Pick another level", 's', func() {
			a.refreshLevels()
			a.show(PageLevels)
		}).
		AddItem("New Game", "Start over, every item back in place", 'n', func() { a.enter(true) }).
		AddItem("Exit", "", 'q', func() { a.app.Stop() })
	a.menu.SetBorder(true)
}

func (a *App) buildLevelPicker() {
	a.picks = tview.NewList()
	a.picks.SetBorder(true).SetTitle(" Select a Maze ")
	a.picks.SetDoneFunc(func() { a.show(PageMenu) })
}

func (a *App) refreshLevels() {
	a.picks.Clear()
	levels, err := a.svc.ListLevels(a.ctx)
	if err != nil {
		log.Printf("Failed to list levels: %v", err)
	}
	for _, l := range levels {
		id := l.LevelID
		secondary := fmt.Sprintf("%dx%d, %d keys, %d slimes", l.Width, l.Height, l.Keys, l.Slimes)
		if l.Description != "" {
			secondary = l.Description + " (" + secondary + ")"
		}
		a.picks.AddItem(l.Name, secondary, 0, func() { a.selectLevel(id) })
		if id == a.levelID {
			a.picks.SetCurrentItem(a.picks.GetItemCount() - 1)
		}
	}
	if len(levels) == 0 {
		a.picks.AddItem("(no levels)", "", 0, nil)
	}
}

func messagePage(title, hint string) *tview.TextView {
	tv := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("\n\n" + title + "\n\n" + hint)
	tv.SetBorder(true)
	return tv
}

// centered wraps p in a fixed-size box in the middle of the screen
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

// GameView is the tview primitive that draws the maze
type GameView struct {
	*tview.Box
	renderer *Renderer
	level    *service.Level
	snap     *engine.Snapshot
}

// NewGameView creates an empty view
func NewGameView(r *Renderer) *GameView {
	return &GameView{Box: tview.NewBox(), renderer: r}
}

// SetLevel sets the level whose maze is drawn
func (g *GameView) SetLevel(level *service.Level) { g.level = level }

// SetSnapshot sets the world state to draw
func (g *GameView) SetSnapshot(snap *engine.Snapshot) { g.snap = snap }

// Snapshot returns the last snapshot drawn
func (g *GameView) Snapshot() *engine.Snapshot { return g.snap }

func (g *GameView) tiles() *maze.TileMap {
	if g.level == nil {
		return nil
	}
	return g.level.Tiles
}

// Draw draws the maze inside the box
func (g *GameView) Draw(screen tcell.Screen) {
	g.Box.DrawForSubclass(screen, g)
	x, y, w, h := g.GetInnerRect()
	g.renderer.Draw(screen, x, y, w, h, g.tiles(), g.snap)
}
