package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/service"
)

const legend = `LEGEND: # wall, @ > < ^ v player, o O slime, k key, + life, * speed, & shield, ^ trap, E locked exit, O open exit`

const instructions = `Maze Runner - Complete Instructions

GAME OBJECTIVE:
Collect the keys of the level, then walk onto the exit. When every required
key is held the exit opens (E becomes O) and touching it wins the level.

MAP LEGEND:
  #   wall (blocks movement)
  @   player (>, <, ^, v while walking)
  o O slime (wanders until it touches you, then chases)
  k   key
  +   life (one extra heart, up to the level's maximum)
  *   speed power-up
  &   shield power-up (absorbs the next hit)
  ^   trap (costs a heart)
  E   locked exit
  O   open exit

COORDINATES:
Rows grow upward: row 0 is the bottom line of render_maze. Positions in
snapshots are world units; one tile is tile_size units wide (32 by default).

MOVEMENT:
Movement is continuous. The step tool holds directions for a number of
frames of dt seconds each. The player walks at 100 units per second,
twice as fast while running. Walls stop movement on one axis only, so
holding a diagonal slides along walls.

DAMAGE:
Slimes and traps cost one heart, then the player is invulnerable for one
second of game time. At zero hearts the game is over; reset_game brings the
player back with full hearts and keeps collected items.

STEP EXAMPLES:
  step(session_id, direction="right", frames=30)        half a second right
  step(session_id, direction="up,left", run=true)       one running frame
  step(session_id, direction="", frames=60)             wait one second

Good luck in the maze!`

func snapshotStatus(s *engine.Snapshot) string {
	switch {
	case s.Victory:
		return "victory"
	case s.GameOver:
		return "game over"
	default:
		return "playing"
	}
}

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nLevel: %s", info.ID, info.LevelID)
	if info.LevelName != "" {
		fmt.Fprintf(&b, " (%s)", info.LevelName)
	}
	b.WriteString("\n")
	if info.Snapshot != nil {
		b.WriteString("\n")
		b.WriteString(formatSnapshot(info.Snapshot))
	}
	if len(info.Maze) > 0 {
		b.WriteString("\nMaze:\n")
		b.WriteString(strings.Join(info.Maze, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func formatSnapshot(s *engine.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", snapshotStatus(s))
	fmt.Fprintf(&b, "Hearts: %d\n", s.Hearts)
	fmt.Fprintf(&b, "Keys: %d/%d\n", s.Keys, s.RequiredKeys)
	fmt.Fprintf(&b, "Player: tile (%d,%d) position (%.1f,%.1f) %s\n",
		s.Player.Tile.Col, s.Player.Tile.Row, s.Player.Position.X, s.Player.Position.Y, s.Player.State)

	if len(s.PowerUps) > 0 {
		kinds := make([]string, 0, len(s.PowerUps))
		for k := range s.PowerUps {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		b.WriteString("Power-ups:")
		for _, k := range kinds {
			if remaining := s.PowerUps[k]; remaining > 0 {
				fmt.Fprintf(&b, " %s (%.1fs)", k, remaining)
			} else {
				fmt.Fprintf(&b, " %s", k)
			}
		}
		b.WriteString("\n")
	}

	for i, sl := range s.Slimes {
		mode := "wandering"
		if sl.Chasing {
			mode = "chasing"
		}
		fmt.Fprintf(&b, "Slime %d: tile (%d,%d) %s\n", i+1, sl.Tile.Col, sl.Tile.Row, mode)
	}

	if len(s.Items) > 0 {
		b.WriteString("Items:")
		for _, it := range s.Items {
			name := string(it.Kind)
			if it.PowerUp != "" {
				name = string(it.PowerUp)
			}
			fmt.Fprintf(&b, " %s@(%d,%d)", name, it.Tile.Col, it.Tile.Row)
		}
		b.WriteString("\n")
	}

	for _, x := range s.Exits {
		state := "locked"
		if x.Open {
			state = "open"
		}
		fmt.Fprintf(&b, "Exit: (%d,%d) %s\n", x.Tile.Col, x.Tile.Row, state)
	}

	if s.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", s.Message)
	}
	fmt.Fprintf(&b, "Frame: %d (%.2fs)\n", s.Frame, s.Time)
	return b.String()
}

func formatStepResult(r *service.StepResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ran %d of %d frames", r.FramesRun, r.Requested)
	if r.Truncated {
		fmt.Fprintf(&b, " (capped at %d)", service.MaxStepFrames)
	}
	if r.StoppedReason != "" {
		fmt.Fprintf(&b, ", stopped: %s", r.StoppedReason)
	}
	b.WriteString("\n")

	if len(r.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, ev := range r.Events {
			fmt.Fprintf(&b, "  [frame %d] %s", ev.Frame, ev.Type)
			if ev.Message != "" {
				fmt.Fprintf(&b, ": %s", ev.Message)
			}
			b.WriteString("\n")
		}
	}

	if r.Snapshot != nil {
		b.WriteString("\n")
		b.WriteString(formatSnapshot(r.Snapshot))
	}
	return b.String()
}

func formatLevels(levels []*service.LevelInfo) string {
	if len(levels) == 0 {
		return "No levels installed."
	}
	var b strings.Builder
	b.WriteString("Levels:\n")
	for _, l := range levels {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %d keys, %d slimes)",
			l.LevelID, l.Name, l.Width, l.Height, l.Keys, l.Slimes)
		if l.Description != "" {
			fmt.Fprintf(&b, " - %s", l.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
