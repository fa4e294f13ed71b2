package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS games (
    id               TEXT PRIMARY KEY,
    position         TEXT NOT NULL,
    history          TEXT NOT NULL DEFAULT '[]',
    status           TEXT NOT NULL,
    turn             TEXT NOT NULL,
    mode             TEXT NOT NULL,
    player_white     TEXT NOT NULL DEFAULT '',
    player_black     TEXT NOT NULL DEFAULT '',
    agent_provider   TEXT NOT NULL DEFAULT '',
    agent_credential TEXT NOT NULL DEFAULT '',
    thinking_mode    INTEGER NOT NULL DEFAULT 0,
    agent_provider2  TEXT NOT NULL DEFAULT '',
    agent_credential2 TEXT NOT NULL DEFAULT '',
    date_played      TEXT NOT NULL,
    updated_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_updated_at ON games(updated_at);
`

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path
// (~/.local/share/llm-chess/games.db).
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "llm-chess", "games.db"), nil
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(sess *Session) error {
	histJSON, err := json.Marshal(sess.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	var provider, credential, provider2, credential2 string
	thinking := 0
	if sess.Agent != nil {
		provider = sess.Agent.Provider
		credential = sess.Agent.Credential
		provider2 = sess.Agent.Provider2
		credential2 = sess.Agent.Credential2
		if sess.Agent.ThinkingMode {
			thinking = 1
		}
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO games
			(id, position, history, status, turn, mode, player_white, player_black,
			 agent_provider, agent_credential, thinking_mode, agent_provider2, agent_credential2,
			 date_played, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.Position,
		string(histJSON),
		string(sess.Status),
		sess.Turn,
		string(sess.Mode),
		sess.PlayerWhite,
		sess.PlayerBlack,
		provider,
		credential,
		thinking,
		provider2,
		credential2,
		sess.DatePlayed.Format(time.RFC3339Nano),
		sess.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(id string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, position, history, status, turn, mode, player_white, player_black,
		       agent_provider, agent_credential, thinking_mode, agent_provider2, agent_credential2,
		       date_played, updated_at
		FROM games WHERE id = ?`, id)

	sess, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) List() ([]*Session, error) {
	rows, err := s.db.Query(`
		SELECT id, position, history, status, turn, mode, player_white, player_black,
		       agent_provider, agent_credential, thinking_mode, agent_provider2, agent_credential2,
		       date_played, updated_at
		FROM games ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) Delete(id string) error {
	result, err := s.db.Exec("DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanSession reads one games row through the given Scan function, shared
// between Load and List.
func scanSession(scan func(...any) error) (*Session, error) {
	var sess Session
	var histJSON, status, mode, datePlayed, updatedAt string
	var provider, credential, provider2, credential2 string
	var thinking int

	err := scan(
		&sess.ID, &sess.Position, &histJSON, &status, &sess.Turn, &mode,
		&sess.PlayerWhite, &sess.PlayerBlack,
		&provider, &credential, &thinking, &provider2, &credential2,
		&datePlayed, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(histJSON), &sess.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	sess.Status = Status(status)
	sess.Mode = Mode(mode)
	if provider != "" {
		sess.Agent = &AgentConfig{
			Provider:     provider,
			Credential:   credential,
			ThinkingMode: thinking == 1,
			Provider2:    provider2,
			Credential2:  credential2,
		}
	}
	sess.DatePlayed, _ = time.Parse(time.RFC3339Nano, datePlayed)
	sess.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &sess, nil
}
