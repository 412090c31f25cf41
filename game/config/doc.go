// Package config loads levels and local settings for the maze game.
//
// The config package handles:
//   - Loading levels (a JSON file plus the maze property file it names)
//   - Level validation and caching
//   - Default level selection, falling back to a built-in maze
//   - Player settings stored as YAML
//
// Level Format:
//
// Each level is a JSON file in the levels directory:
//
//	{
//	  "name": "First Steps",
//	  "maze": "level-1.properties",
//	  "collision": "distance",
//	  "power_ups": ["speed", "shield"],
//	  "required_keys": 1,
//	  "tuning": {"slime_speed": 40}
//	}
//
// The maze file holds one "col,row=type" entry per line. Coordinates absent
// from the file are floor.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("level-1")
//	levels, err := manager.ListLevels()
//
//	settings, err := config.LoadSettings("settings.yaml")
package config
