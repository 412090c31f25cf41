// Package websocket streams world snapshots to browser and tool clients.
//
// A central Hub owns every connection. Clients subscribe to one session with
// the ?session=<id> query parameter and receive a JSON Message after every
// step or reset of that session:
//
//	{"session_id": "3f2a9c1b", "event": "snapshot", "snapshot": {...}}
//
// Incoming frames are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastSnapshot(sessionID, snapshot)
package websocket
