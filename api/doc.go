// Package api provides the HTTP REST API for maze sessions and levels.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"level_id", "session_id"} optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session with its maze drawn as text
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - GET /api/sessions/{id}/render - Text rendering (?format=text for plain text)
//   - POST /api/sessions/{id}/step - Advance frames with {"input", "dt", "frames"}
//   - POST /api/sessions/{id}/reset - Rebuild the world, {"new_game": true} clears flags
//   - POST /api/sessions/{id}/level - Switch the session to another level
//
// Levels:
//   - GET /api/levels - List levels
//   - GET /api/levels/{name} - Level config, maze text and reachability report
//   - POST /api/levels - Save a level with its maze in property format
//
// Other:
//   - GET /api/health - Health check
//   - GET /ws?session=<id> - WebSocket stream of snapshots
//
// Errors are JSON objects of the form {"error": "..."}. Unknown sessions and
// levels map to 404, malformed requests and invalid levels to 400.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
