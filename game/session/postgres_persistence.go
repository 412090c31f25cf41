package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/service"
)

// PostgresPersistence implements SessionPersistence on a PostgreSQL table
type PostgresPersistence struct {
	db     *sql.DB
	levels service.LevelManager
}

// NewPostgresPersistence opens the database and creates the sessions table
func NewPostgresPersistence(connectionString string, levels service.LevelManager) (*PostgresPersistence, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newPostgresPersistence(db, levels)
}

func newPostgresPersistence(db *sql.DB, levels service.LevelManager) (*PostgresPersistence, error) {
	p := &PostgresPersistence{db: db, levels: levels}
	if err := p.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return p, nil
}

func (p *PostgresPersistence) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maze_sessions (
		id TEXT PRIMARY KEY,
		level_id TEXT NOT NULL,
		flags JSONB NOT NULL,
		hearts INTEGER NOT NULL,
		game_over BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		last_accessed_at TIMESTAMP WITH TIME ZONE NOT NULL
	);
	`
	_, err := p.db.Exec(schema)
	return err
}

// Save upserts a session row
func (p *PostgresPersistence) Save(session *service.Session) error {
	data, err := persistedFrom(session)
	if err != nil {
		return err
	}

	flags := data.Flags
	if flags == nil {
		flags = engine.NewGameState(0, 0, 0)
	}
	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("failed to marshal flags: %w", err)
	}

	query := `
	INSERT INTO maze_sessions (id, level_id, flags, hearts, game_over, created_at, last_accessed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id)
	DO UPDATE SET
		level_id = $2, flags = $3, hearts = $4, game_over = $5,
		last_accessed_at = $7
	`
	_, err = p.db.Exec(query,
		strings.ToLower(data.ID), data.LevelID, string(flagsJSON), data.Hearts,
		data.GameOver, data.CreatedAt, data.LastAccessedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads a session row and rebuilds the session
func (p *PostgresPersistence) Load(id string) (*service.Session, error) {
	query := `SELECT id, level_id, flags, hearts, game_over, created_at, last_accessed_at FROM maze_sessions WHERE id = $1`

	var data PersistedSessionData
	var flagsJSON string
	err := p.db.QueryRow(query, strings.ToLower(id)).Scan(
		&data.ID, &data.LevelID, &flagsJSON, &data.Hearts, &data.GameOver,
		&data.CreatedAt, &data.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	data.Flags = &engine.GameState{}
	if err := json.Unmarshal([]byte(flagsJSON), data.Flags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flags: %w", err)
	}

	return restore(&data, p.levels)
}

// Delete removes a session row
func (p *PostgresPersistence) Delete(id string) error {
	res, err := p.db.Exec(`DELETE FROM maze_sessions WHERE id = $1`, strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns every stored session id
func (p *PostgresPersistence) ListAll() ([]string, error) {
	rows, err := p.db.Query(`SELECT id FROM maze_sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks whether a row exists for the id
func (p *PostgresPersistence) Exists(id string) bool {
	var exists bool
	err := p.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM maze_sessions WHERE id = $1)`, strings.ToLower(id)).Scan(&exists)
	return err == nil && exists
}

// Close closes the database connection
func (p *PostgresPersistence) Close() error {
	return p.db.Close()
}
