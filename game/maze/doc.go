// Package maze loads and queries the tile maps that levels are built from.
//
// A maze file is a flat property file with one tile per line:
//
//	# col,row=tileType
//	0,0=0
//	1,0=0
//	1,1=1
//
// Rows grow upward, so row 0 is the bottom row of the maze. Any coordinate
// that does not appear in the file is floor.
//
// Tile Types:
//
//   - 0 wall: solid, blocks movement
//   - 1 entry: player spawn point
//   - 2 exit: opens once the player holds every key
//   - 3 trap: static hazard
//   - 4 enemy: slime spawn point
//   - 5 key, 6 life, 7 power-up: collectibles
//
// Usage:
//
//	tiles, err := maze.Load("levels/level-1.properties")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	entry := tiles.Positions(maze.Entry)
//	report := maze.Analyze(tiles)
package maze
