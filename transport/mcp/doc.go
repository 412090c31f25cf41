// Package mcp exposes the maze game to AI agents over the Model Context
// Protocol.
//
// Client is a thin MCP server whose tools proxy to the REST API, so the
// agent drives the same sessions a browser or the terminal front-end sees:
//   - create_session, list_sessions: session management
//   - game_state, render_maze: snapshot and text drawing of a session
//   - step: hold directions for a number of frames
//   - reset_game, change_level: rebuild or switch the world
//   - list_levels, game_instructions: level catalogue and rules
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the serve command mounts the MCP server at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
