package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/D-z-V/llm-chess/internal/engine"
)

// Game pairs a live session record with its own rules-engine instance.
// The engine is never shared across games.
type Game struct {
	Session *Session
	Engine  *engine.Engine
}

// GameOptions configures a new game when no saved snapshot exists.
type GameOptions struct {
	PlayerWhite string
	PlayerBlack string
	Mode        Mode
	Agent       *AgentConfig
}

// Manager is the single writer of every game record. It creates or resumes
// games, applies accepted moves to the record, and mirrors each record to
// the store, deleting it once the game ends.
type Manager struct {
	store Store

	mu    sync.Mutex
	games map[string]*Game
}

// NewManager returns a manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		games: make(map[string]*Game),
	}
}

// CreateOrResume returns the game for id, restoring it from the store when
// a snapshot exists. A missing snapshot is not an error: a fresh game is
// created under the given id (or a newly assigned one when id is empty).
// There is exactly one live Game per id.
func (m *Manager) CreateOrResume(id string, opts GameOptions) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if g, ok := m.games[id]; ok {
			return g, nil
		}

		sess, err := m.store.Load(id)
		if err == nil {
			eng, err := engine.Load(sess.Position)
			if err != nil {
				return nil, fmt.Errorf("resume game %s: %w", id, err)
			}
			g := &Game{Session: sess, Engine: eng}
			m.games[id] = g
			return g, nil
		}
		if err != ErrNotFound {
			return nil, err
		}
	}

	if id == "" {
		id = newID()
	}
	now := time.Now()
	sess := &Session{
		ID:          id,
		Mode:        opts.Mode,
		Status:      StatusInProgress,
		PlayerWhite: opts.PlayerWhite,
		PlayerBlack: opts.PlayerBlack,
		Agent:       opts.Agent,
		DatePlayed:  now,
		UpdatedAt:   now,
	}
	eng := engine.New()
	sess.Position = eng.FEN()
	sess.Turn = eng.Turn()
	g := &Game{Session: sess, Engine: eng}
	m.games[id] = g
	return g, nil
}

// ApplyAcceptedMove records a move the engine has already applied: it
// refreshes position and turn owner from the engine, appends exactly one
// history entry, and mirrors the snapshot to the store. When the engine
// reports the game over, the persisted record is deleted instead.
func (m *Manager) ApplyAcceptedMove(g *Game, mv *engine.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := g.Session
	sess.Position = g.Engine.FEN()
	sess.Turn = g.Engine.Turn()
	sess.History = append(sess.History, mv.SAN)
	sess.UpdatedAt = time.Now()

	if g.Engine.IsTerminal() {
		sess.Status = StatusTerminal
		delete(m.games, sess.ID)
		if err := m.store.Delete(sess.ID); err != nil && err != ErrNotFound {
			return fmt.Errorf("remove finished game: %w", err)
		}
		return nil
	}

	if err := m.store.Save(sess); err != nil {
		return fmt.Errorf("persist game: %w", err)
	}
	return nil
}

// Pause persists a snapshot of the game without ending it. The caller can
// resume it later under the same id.
func (m *Manager) Pause(g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g.Session.UpdatedAt = time.Now()
	if err := m.store.Save(g.Session); err != nil {
		return fmt.Errorf("pause game: %w", err)
	}
	return nil
}

// End abandons the game: its record is removed from the store and from the
// live set. A later CreateOrResume with the same id starts fresh.
func (m *Manager) End(g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.games, g.Session.ID)
	g.Session.Status = StatusTerminal
	if err := m.store.Delete(g.Session.ID); err != nil && err != ErrNotFound {
		return fmt.Errorf("end game: %w", err)
	}
	return nil
}

// Saved lists every persisted snapshot, most recently updated first.
func (m *Manager) Saved() ([]*Session, error) {
	return m.store.List()
}
