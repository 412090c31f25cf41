// Package engine provides the core game logic for the maze game.
//
// The engine package implements the game mechanics including:
//   - Continuous movement with wall sliding on a tile grid
//   - Slime enemies that wander until they touch the player, then chase
//   - AABB and distance-threshold collision policies
//   - Keys, extra lives and power-ups recorded in collected flags
//   - Exit gating and victory, hearts and game over
//
// Core Types:
//
// World owns the player, the slimes, the collectibles, the traps and the
// exits of one level. GameState holds the collected flags; it is owned by the
// caller (a session) and injected into the world, so rebuilding a world does
// not re-spawn items that were already picked up. LevelConfig describes a
// level and Tuning carries its numeric constants.
//
// Usage:
//
//	tiles, err := maze.Load("levels/level-1.properties")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	flags := engine.NewGameStateFor(tiles)
//	world, err := engine.NewWorld(cfg, tiles, flags)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// One frame with the right arrow held
//	events := world.Update(1.0/30, engine.Input{Right: true})
//	snap := world.Snapshot()
//
// World coordinates are in world units with the y axis pointing up; tile
// (col,row) covers [col*TileSize, (col+1)*TileSize) horizontally and
// [row*TileSize, (row+1)*TileSize) vertically.
package engine
