// Package session owns the authoritative game record: the in-memory state
// of every live game, its snapshot form in the persistence store, and the
// manager that keeps the two in sync after each accepted move.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Mode selects who occupies the two seats.
type Mode string

const (
	// ModeHuman is human vs human.
	ModeHuman Mode = "human"
	// ModeAgent pairs a human (white) with an LLM agent (black).
	ModeAgent Mode = "agent"
)

// Status is the lifecycle state of a game record.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusTerminal   Status = "terminal"
)

// AgentConfig holds the provider identity and credential for the agent
// seat. When ThinkingMode is set, the second pair configures the second
// negotiating agent; an empty second pair falls back to the first.
type AgentConfig struct {
	Provider     string
	Credential   string
	ThinkingMode bool
	Provider2    string
	Credential2  string
}

// Second returns the provider/credential pair for the second negotiating
// agent, defaulting to the first pair when not configured separately.
func (c *AgentConfig) Second() (string, string) {
	if c.Provider2 == "" {
		return c.Provider, c.Credential
	}
	cred := c.Credential2
	if cred == "" {
		cred = c.Credential
	}
	return c.Provider2, cred
}

// Session is the persistable record of one game. Position, History and
// Turn are mutated only through the Manager's accepted-move path; History
// is append-only and its length parity determines the side to move.
type Session struct {
	ID          string
	Position    string   // FEN
	History     []string // SAN, one entry per applied move
	Turn        string   // "w" or "b"
	Mode        Mode
	Status      Status
	PlayerWhite string
	PlayerBlack string
	Agent       *AgentConfig // nil in human-vs-human games
	DatePlayed  time.Time
	UpdatedAt   time.Time
}

// newID returns a fresh opaque game identifier.
func newID() string {
	return uuid.NewString()
}
