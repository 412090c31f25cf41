// Package session keeps game sessions in memory and, optionally, in a
// persistent store.
//
// Core Types:
//
// Manager implements service.SessionManager. Sessions are keyed by a
// case-insensitive id made of letters, digits, '-' and '_'. Generated ids are
// the first 8 hex characters of a random UUID.
//
// SessionPersistence stores what outlives a process: the level id, the
// collected flags, the player's hearts and timestamps. Entity positions are
// not stored; a restored session starts at the entry tile. Two backends are
// provided:
//   - FilePersistence writes one JSON file per session
//   - PostgresPersistence keeps one row per session in the maze_sessions table
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", levels)
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.GetOrCreate("local", levels.GetDefault())
//
// Cleanup:
//
// CleanupExpiredSessions drops idle sessions from memory only; the persisted
// copy is reloaded on the next Get.
package session
