// Package service provides the business logic layer for the maze game.
//
// The service package implements:
//   - Multi-session game management
//   - Frame stepping with event collection
//   - Resets that keep or clear the collected flags
//   - Level listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager loads levels (configuration plus maze) from disk.
//
// Architecture:
//
// The service layer sits between the front-ends (terminal, HTTP, WebSocket,
// MCP) and the game engine. Every session owns one engine.World together with
// the collected flags and the hearts that survive a world rebuild. All world
// mutation happens under the service mutex.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, levelMgr)
//
//	info, err := gameService.CreateSession(ctx, "level-1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Hold right for half a second
//	result, err := gameService.Step(ctx, info.ID, service.StepRequest{
//		Input:  engine.Input{Right: true},
//		DT:     0.05,
//		Frames: 10,
//	})
package service
